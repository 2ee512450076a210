package api

import (
	"fmt"

	"github.com/hirelens/hirelens/pkg/types"
)

// DiagnosticHint is one plain-language observation about a recruiter's
// funnel. The UI shows these as chips on the recruiter card.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level  string   `json:"level"`
	Title  string   `json:"title"`
	Detail string   `json:"detail"`
	Value  *float64 `json:"value,omitempty"`
}

const (
	lowViewRatePct      = 50.0
	lowInterviewRatePct = 20.0
	// Below this many applications the rates say little.
	minSampleForRates = 5
)

// computeDiagnostics derives hints from one recruiter's stats, most severe
// first. A recruiter with nothing to flag gets a single "ok" hint.
func computeDiagnostics(rs types.RecruiterStats) []DiagnosticHint {
	var critical, warning, info []DiagnosticHint

	if rs.Applications < minSampleForRates {
		info = append(info, DiagnosticHint{
			Key:   "small_sample",
			Level: "info",
			Title: "Few applications",
			Detail: fmt.Sprintf("Only %d applications are assigned to %s, so the rates below "+
				"can swing a lot from one candidate to the next.", rs.Applications, rs.Recruiter),
		})
	}

	if rs.Viewed == 0 {
		critical = append(critical, DiagnosticHint{
			Key:   "nothing_viewed",
			Level: "critical",
			Title: "No applications viewed",
			Detail: fmt.Sprintf("None of the %d applications have been opened yet. "+
				"Candidates are waiting without any response.", rs.Applications),
		})
	} else if rs.ViewRate < lowViewRatePct {
		v := rs.ViewRate
		warning = append(warning, DiagnosticHint{
			Key:   "review_backlog",
			Level: "warning",
			Title: "Review backlog",
			Detail: fmt.Sprintf("Only %.1f%% of applications have been viewed. "+
				"The rest have not been looked at.", rs.ViewRate),
			Value: &v,
		})
	}

	if rs.Viewed > 0 && rs.Interviewed == 0 {
		warning = append(warning, DiagnosticHint{
			Key:    "no_interviews",
			Level:  "warning",
			Title:  "No interviews yet",
			Detail: fmt.Sprintf("%d applications were viewed but none reached an interview.", rs.Viewed),
		})
	} else if rs.Applications >= minSampleForRates && rs.Interviewed > 0 && rs.InterviewRate < lowInterviewRatePct {
		v := rs.InterviewRate
		info = append(info, DiagnosticHint{
			Key:    "low_interview_rate",
			Level:  "info",
			Title:  "Low interview rate",
			Detail: fmt.Sprintf("%.1f%% of applications reached an interview.", rs.InterviewRate),
			Value:  &v,
		})
	}

	if rs.Interviewed > 0 && rs.Offered == 0 {
		info = append(info, DiagnosticHint{
			Key:    "no_offers",
			Level:  "info",
			Title:  "No offers yet",
			Detail: fmt.Sprintf("%d candidates were interviewed and none has an offer.", rs.Interviewed),
		})
	}

	hints := append(append(critical, warning...), info...)
	if len(critical)+len(warning) == 0 {
		hints = append([]DiagnosticHint{{
			Key:    "healthy",
			Level:  "ok",
			Title:  "On track",
			Detail: "Applications are being reviewed and moved forward.",
		}}, hints...)
	}
	return hints
}
