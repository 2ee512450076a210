package exporter

import "github.com/prometheus/client_golang/prometheus"

var (
	descInfo = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "report", "generated_timestamp_seconds"),
		"Unix time the current report was built.", nil, nil)
	descApplications = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "applications"),
		"Applications in the current snapshot.", nil, nil)
	descOpenJobs = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "open_jobs"),
		"Job postings in the current snapshot.", nil, nil)
	descFunnel = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "funnel", "candidates"),
		"Candidates that reached each funnel stage.", []string{"stage"}, nil)
	descFunnelRate = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "funnel", "rate_ratio"),
		"Share of applications that reached each funnel stage, 0 to 1.", []string{"stage"}, nil)
	descDuration = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "stage", "duration_days"),
		"Average days between two funnel stages.", []string{"from", "to"}, nil)
	descPipeline = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "pipeline", "applicants"),
		"Applicants per pipeline category.", []string{"category"}, nil)
	descRecruiterApps = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "recruiter", "applications"),
		"Applications per job owner.", []string{"recruiter"}, nil)
	descRecruiterOffers = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "recruiter", "offers"),
		"Offers extended per job owner.", []string{"recruiter"}, nil)
	descAlert = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "alert", "active"),
		"1 for every alert rule firing in the current report.", []string{"rule", "severity"}, nil)
)

// reportCollector turns the current report into const metrics on every scrape.
type reportCollector struct {
	src ReportSource
}

func newReportCollector(src ReportSource) *reportCollector {
	return &reportCollector{src: src}
}

func (c *reportCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		descInfo, descApplications, descOpenJobs, descFunnel, descFunnelRate,
		descDuration, descPipeline, descRecruiterApps, descRecruiterOffers, descAlert,
	} {
		ch <- d
	}
}

func (c *reportCollector) Collect(ch chan<- prometheus.Metric) {
	if c.src == nil {
		return
	}
	r := c.src.Report()
	if r == nil {
		return
	}
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	gauge(descInfo, float64(r.GeneratedAt.Unix()))
	gauge(descApplications, float64(r.Headline.TotalApplications))
	gauge(descOpenJobs, float64(r.Headline.OpenJobs))

	for _, s := range r.Funnel.Stages {
		gauge(descFunnel, float64(s.Count), s.Stage)
		gauge(descFunnelRate, s.Rate, s.Stage)
	}

	for _, d := range r.Durations {
		if d.Samples == 0 {
			continue
		}
		gauge(descDuration, d.AverageDays, d.From, d.To)
	}
	for _, cc := range r.Pipeline.Categories {
		gauge(descPipeline, float64(cc.Count), string(cc.Category))
	}
	for _, rs := range r.Recruiters {
		gauge(descRecruiterApps, float64(rs.Applications), rs.Recruiter)
		gauge(descRecruiterOffers, float64(rs.Offered), rs.Recruiter)
	}
	for _, a := range r.Alerts {
		gauge(descAlert, 1, a.Rule, string(a.Severity))
	}
}
