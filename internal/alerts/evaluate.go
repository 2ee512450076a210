package alerts

import (
	"fmt"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/pkg/types"
)

// Rule names, used as the notifier's deduplication key.
const (
	RuleZeroHires     = "zero_hires"
	RuleBottleneck    = "advanced_stage_bottleneck"
	RuleVolumeDecline = "volume_decline"
	RuleStalePostings = "stale_postings"
)

// Thresholds tunes the rules. All comparisons are strict.
type Thresholds struct {
	// BottleneckPct fires the bottleneck rule when the advanced-stage share
	// of the pipeline exceeds it.
	BottleneckPct float64

	// VolumeDropRatio fires the decline rule when the latest week is below
	// the previous week times this ratio.
	VolumeDropRatio float64

	// StaleDays marks a job posting stale once it has been open longer.
	StaleDays float64
}

// DefaultThresholds returns the standard rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BottleneckPct:   config.DefaultBottleneckPct,
		VolumeDropRatio: config.DefaultVolumeDropRatio,
		StaleDays:       config.DefaultStaleDays,
	}
}

// ThresholdsFrom reads the rule thresholds out of the alerts config.
func ThresholdsFrom(cfg config.AlertsConfig) Thresholds {
	return Thresholds{
		BottleneckPct:   cfg.BottleneckPct,
		VolumeDropRatio: cfg.VolumeDropRatio,
		StaleDays:       cfg.StaleDays,
	}
}

// Input is what the rules look at: engine outputs plus the raw collections
// they need.
type Input struct {
	Funnel   types.ConversionFunnel
	Pipeline types.PipelineBreakdown
	Weekly   []types.WeeklyPoint
	Jobs     []types.JobAggregate
}

// Evaluate runs every rule once, in a fixed order, and returns the alerts
// that fired in that order. The order is the display order; it is not
// sorted by severity. The result is never nil.
func Evaluate(in Input, th Thresholds) []types.Alert {
	out := make([]types.Alert, 0, 4)

	if in.Funnel.Offered > 0 && in.Funnel.Hired == 0 {
		out = append(out, types.Alert{
			Rule:     RuleZeroHires,
			Severity: types.SeverityCritical,
			Title:    "No hires from extended offers",
			Message:  fmt.Sprintf("%d offers have been extended but no candidate has been hired.", in.Funnel.Offered),
			Icon:     "🚨",
		})
	}

	if adv := in.Pipeline.Get(types.CategoryAdvancedStage); adv.Percentage > th.BottleneckPct {
		out = append(out, types.Alert{
			Rule:     RuleBottleneck,
			Severity: types.SeverityHigh,
			Title:    "Advanced stage bottleneck",
			Message:  fmt.Sprintf("%.1f%% of the pipeline is waiting on documents.", adv.Percentage),
			Icon:     "⚠️",
		})
	}

	if n := len(in.Weekly); n >= 2 {
		last, prev := in.Weekly[n-1].Applicants, in.Weekly[n-2].Applicants
		if float64(last) < float64(prev)*th.VolumeDropRatio {
			out = append(out, types.Alert{
				Rule:     RuleVolumeDecline,
				Severity: types.SeverityMedium,
				Title:    "Application volume dropped",
				Message:  fmt.Sprintf("Applications fell from %d to %d in the latest week.", prev, last),
				Icon:     "📉",
			})
		}
	}

	var stale int
	for _, j := range in.Jobs {
		if j.DaysOpen > th.StaleDays {
			stale++
		}
	}
	if stale > 0 {
		out = append(out, types.Alert{
			Rule:     RuleStalePostings,
			Severity: types.SeverityMedium,
			Title:    "Stale job postings",
			Message:  staleMessage(stale, th.StaleDays),
			Icon:     "⏳",
		})
	}

	return out
}

func staleMessage(n int, days float64) string {
	if n == 1 {
		return fmt.Sprintf("1 job posting has been open for more than %.0f days.", days)
	}
	return fmt.Sprintf("%d job postings have been open for more than %.0f days.", n, days)
}
