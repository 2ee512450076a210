package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/hirelens/hirelens/pkg/types"
)

const namespace = "hirelens"

// Refresh outcomes used as the "result" label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ReportSource supplies the report to expose; nil means none yet.
type ReportSource interface {
	Report() *types.Report
}

// Exporter owns a private registry so tests and multiple instances never
// collide on the global default registry.
type Exporter struct {
	reg *prometheus.Registry

	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	lastSuccess     prometheus.Gauge
	alertsFired     *prometheus.CounterVec
}

// New creates an Exporter reading report figures from src.
func New(src ReportSource) *Exporter {
	e := &Exporter{
		reg: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Dataset refresh attempts by result.",
		}, []string{"result"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time to load the dataset and build a report.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
		alertsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_fired_total",
			Help:      "Alert rule firings observed across refreshes.",
		}, []string{"rule", "severity"}),
	}

	e.reg.MustRegister(
		e.refreshes,
		e.refreshDuration,
		e.lastSuccess,
		e.alertsFired,
		newReportCollector(src),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	// Pre-create both outcomes so they are exposed as 0 before the first refresh.
	e.refreshes.WithLabelValues(ResultOK)
	e.refreshes.WithLabelValues(ResultError)
	return e
}

// ObserveRefresh records one refresh attempt.
func (e *Exporter) ObserveRefresh(d time.Duration, err error, at time.Time) {
	e.refreshDuration.Observe(d.Seconds())
	if err != nil {
		e.refreshes.WithLabelValues(ResultError).Inc()
		return
	}
	e.refreshes.WithLabelValues(ResultOK).Inc()
	e.lastSuccess.Set(float64(at.Unix()))
}

// ObserveFired counts rules that newly started firing.
func (e *Exporter) ObserveFired(a types.Alert) {
	e.alertsFired.WithLabelValues(a.Rule, string(a.Severity)).Inc()
}

// Gather returns the current metric families.
func (e *Exporter) Gather() ([]*dto.MetricFamily, error) {
	return e.reg.Gather()
}

// Handler serves the registry in the format negotiated from the Accept header.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		mfs, err := e.Gather()
		if err != nil {
			// Gather returns what it could alongside the error; serve that.
			slog.Warn("exporter: gather incomplete", "err", err)
		}
		format := expfmt.Negotiate(r.Header)
		w.Header().Set("Content-Type", string(format))
		if err := encode(w, format, mfs); err != nil {
			slog.Error("exporter: encode failed", "err", err)
		}
	})
}

func encode(w io.Writer, format expfmt.Format, mfs []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		return closer.Close()
	}
	return nil
}
