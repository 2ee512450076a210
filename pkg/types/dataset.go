package types

import "time"

// Stage is one step of the hiring funnel, in the order candidates reach them.
type Stage int

const (
	StageApplied Stage = iota
	StageViewed
	StageInterviewed
	StageOffered
	StageHired
)

// FunnelStages lists every stage in funnel order.
var FunnelStages = []Stage{StageApplied, StageViewed, StageInterviewed, StageOffered, StageHired}

// String returns the lowercase stage name used in JSON payloads.
func (s Stage) String() string {
	switch s {
	case StageApplied:
		return "applications"
	case StageViewed:
		return "viewed"
	case StageInterviewed:
		return "interviewed"
	case StageOffered:
		return "offered"
	case StageHired:
		return "hired"
	default:
		return "unknown"
	}
}

// ApplicationRecord is one application's lifecycle snapshot.
//
// Optional fields are nil when the stage has not been reached. A later stage
// being set does not imply the earlier ones are; the engine never assumes it.
type ApplicationRecord struct {
	Applicant string    `json:"applicant"`
	JobTitle  string    `json:"job_title"`
	JobOwner  string    `json:"job_owner"`
	AppliedAt time.Time `json:"applied_at"`

	// ViewedBy is the raw "Viewed By" marker. Its presence means viewed.
	ViewedBy *string `json:"viewed_by,omitempty"`
	// ViewedAt is set only when the marker itself is a date.
	ViewedAt *time.Time `json:"viewed_at,omitempty"`

	InterviewAt *time.Time `json:"interview_at,omitempty"`
	OfferAt     *time.Time `json:"offer_at,omitempty"`
	HiredAt     *time.Time `json:"hired_at,omitempty"`
}

// Reached reports whether the record carries the marker for stage s.
func (r ApplicationRecord) Reached(s Stage) bool {
	switch s {
	case StageApplied:
		return true
	case StageViewed:
		return r.ViewedBy != nil
	case StageInterviewed:
		return r.InterviewAt != nil
	case StageOffered:
		return r.OfferAt != nil
	case StageHired:
		return r.HiredAt != nil
	default:
		return false
	}
}

// StageTime returns the timestamp recorded for stage s, if any.
func (r ApplicationRecord) StageTime(s Stage) (time.Time, bool) {
	var t *time.Time
	switch s {
	case StageApplied:
		return r.AppliedAt, !r.AppliedAt.IsZero()
	case StageViewed:
		t = r.ViewedAt
	case StageInterviewed:
		t = r.InterviewAt
	case StageOffered:
		t = r.OfferAt
	case StageHired:
		t = r.HiredAt
	}
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// StatusAggregate is the number of applicants currently in one status.
type StatusAggregate struct {
	Status     string `json:"status"`
	Applicants int    `json:"applicants"`
}

// WeeklyPoint is one point of the applications-per-week series.
type WeeklyPoint struct {
	WeekStart  time.Time `json:"week_start"`
	Applicants int       `json:"applicants"`
}

// JobAggregate summarises one job posting.
type JobAggregate struct {
	JobName         string  `json:"job_name"`
	JobOwner        string  `json:"job_owner"`
	TotalApplicants int     `json:"total_applicants"`
	DaysOpen        float64 `json:"days_open"`
}

// Dataset is one immutable snapshot of all four record collections.
// Weekly is ordered by WeekStart ascending.
type Dataset struct {
	Applications []ApplicationRecord `json:"applications"`
	Statuses     []StatusAggregate   `json:"statuses"`
	Weekly       []WeeklyPoint       `json:"weekly"`
	Jobs         []JobAggregate      `json:"jobs"`
}
