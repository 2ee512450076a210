package types

import "time"

// FunnelStage is one row of the conversion funnel.
type FunnelStage struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"` // fraction of applications, 0–1
}

// ConversionFunnel holds counts and rates for the five funnel stages.
// Every rate is count / Applications, or 0 when Applications is 0.
type ConversionFunnel struct {
	Applications int `json:"applications"`
	Viewed       int `json:"viewed"`
	Interviewed  int `json:"interviewed"`
	Offered      int `json:"offered"`
	Hired        int `json:"hired"`

	ViewRate      float64 `json:"view_rate"`
	InterviewRate float64 `json:"interview_rate"`
	OfferRate     float64 `json:"offer_rate"`
	HireRate      float64 `json:"hire_rate"`

	Stages []FunnelStage `json:"stages"`
}

// StageDuration is the average elapsed time between two stages.
type StageDuration struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	AverageDays float64 `json:"average_days"`
	// Samples is the number of records with both timestamps that were averaged.
	Samples int `json:"samples"`
	// Rejected counts records whose end timestamp precedes the start.
	Rejected int `json:"rejected"`
}

// Category is one coarse pipeline bucket.
type Category string

const (
	CategoryEarlyStage       Category = "earlyStage"
	CategoryActiveEngagement Category = "activeEngagement"
	CategoryAdvancedStage    Category = "advancedStage"
	CategoryClosed           Category = "closed"
)

// Categories lists the pipeline buckets in display order.
var Categories = []Category{
	CategoryEarlyStage,
	CategoryActiveEngagement,
	CategoryAdvancedStage,
	CategoryClosed,
}

// CategoryCount is one bucket of the pipeline breakdown.
type CategoryCount struct {
	Category   Category `json:"category"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"` // 0–100
}

// PipelineBreakdown is the four-bucket summary of current statuses.
// Total only includes statuses that map to a category.
type PipelineBreakdown struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Get returns the bucket for c, or a zero bucket if absent.
func (b PipelineBreakdown) Get(c Category) CategoryCount {
	for _, cc := range b.Categories {
		if cc.Category == c {
			return cc
		}
	}
	return CategoryCount{Category: c}
}

// RecruiterStats is the per-job-owner aggregate. Rates are percentages.
type RecruiterStats struct {
	Recruiter     string  `json:"recruiter"`
	Applications  int     `json:"applications"`
	Viewed        int     `json:"viewed"`
	Interviewed   int     `json:"interviewed"`
	Offered       int     `json:"offered"`
	ViewRate      float64 `json:"view_rate"`
	InterviewRate float64 `json:"interview_rate"`
	OfferRate     float64 `json:"offer_rate"`
}

// Headline is the row of summary numbers at the top of the dashboard.
type Headline struct {
	TotalApplications int     `json:"total_applications"`
	TotalHires        int     `json:"total_hires"`
	OpenJobs          int     `json:"open_jobs"`
	Recruiters        int     `json:"recruiters"`
	HireRatePct       float64 `json:"hire_rate_pct"`
	OfferAcceptPct    float64 `json:"offer_accept_pct"`
	AvgDaysToOffer    float64 `json:"avg_days_to_offer"`
}

// JobPerformance is one row of the job performance table.
type JobPerformance struct {
	JobName         string  `json:"job_name"`
	JobOwner        string  `json:"job_owner"`
	TotalApplicants int     `json:"total_applicants"`
	DaysOpen        float64 `json:"days_open"`
	Stale           bool    `json:"stale"`
}

// Report is everything the dashboard renders, derived from one Dataset.
type Report struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Headline    Headline          `json:"headline"`
	Funnel      ConversionFunnel  `json:"funnel"`
	Durations   []StageDuration   `json:"durations"`
	Pipeline    PipelineBreakdown `json:"pipeline"`
	Statuses    []StatusAggregate `json:"statuses"`
	Recruiters  []RecruiterStats  `json:"recruiters"`
	Jobs        []JobPerformance  `json:"jobs"`
	Weekly      []WeeklyPoint     `json:"weekly"`
	// Alerts is empty, never nil, when nothing needs attention.
	Alerts []Alert `json:"alerts"`
}
