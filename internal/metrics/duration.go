package metrics

import (
	"log/slog"
	"time"

	"github.com/hirelens/hirelens/pkg/types"
)

const day = 24 * time.Hour

// StagePair names the start and end stage of a duration.
type StagePair struct {
	From, To types.Stage
}

// DurationPairs are the stage pairs shown on the dashboard, in display order.
var DurationPairs = []StagePair{
	{types.StageApplied, types.StageViewed},
	{types.StageViewed, types.StageInterviewed},
	{types.StageInterviewed, types.StageOffered},
	{types.StageApplied, types.StageOffered},
}

// AverageStageDuration returns the mean number of days between stage from
// and stage to, over records that carry both timestamps.
//
// Records missing either timestamp are skipped. Records whose end precedes
// their start are bad data: they are counted in Rejected and left out of the
// average instead of pulling it negative. AverageDays is 0 when no record
// qualifies.
func AverageStageDuration(records []types.ApplicationRecord, from, to types.Stage) types.StageDuration {
	out := types.StageDuration{From: from.String(), To: to.String()}

	// Summed as float days; a nanosecond Duration overflows after ~292 years.
	var totalDays float64
	for _, r := range records {
		start, ok := r.StageTime(from)
		if !ok {
			continue
		}
		end, ok := r.StageTime(to)
		if !ok {
			continue
		}
		d := end.Sub(start)
		if d < 0 {
			out.Rejected++
			continue
		}
		totalDays += d.Hours() / day.Hours()
		out.Samples++
	}

	if out.Rejected > 0 {
		slog.Warn("metrics: stage timestamps out of order, excluded from average",
			"from", out.From, "to", out.To, "rejected", out.Rejected)
	}
	if out.Samples > 0 {
		out.AverageDays = totalDays / float64(out.Samples)
	}
	return out
}

// StageDurations computes AverageStageDuration for every pair in DurationPairs.
func StageDurations(records []types.ApplicationRecord) []types.StageDuration {
	out := make([]types.StageDuration, 0, len(DurationPairs))
	for _, p := range DurationPairs {
		out = append(out, AverageStageDuration(records, p.From, p.To))
	}
	return out
}
