package metrics

import "github.com/hirelens/hirelens/pkg/types"

// ConversionFunnel counts how many records reached each funnel stage and
// divides by the number of applications.
//
// A stage counts as reached when its marker is present, regardless of
// whether earlier stages are. With no records every rate is 0.
func ConversionFunnel(records []types.ApplicationRecord) types.ConversionFunnel {
	counts := make(map[types.Stage]int, len(types.FunnelStages))
	for _, r := range records {
		for _, s := range types.FunnelStages {
			if r.Reached(s) {
				counts[s]++
			}
		}
	}

	total := len(records)
	out := types.ConversionFunnel{
		Applications: total,
		Viewed:       counts[types.StageViewed],
		Interviewed:  counts[types.StageInterviewed],
		Offered:      counts[types.StageOffered],
		Hired:        counts[types.StageHired],
	}
	out.ViewRate = ratio(out.Viewed, total)
	out.InterviewRate = ratio(out.Interviewed, total)
	out.OfferRate = ratio(out.Offered, total)
	out.HireRate = ratio(out.Hired, total)

	out.Stages = make([]types.FunnelStage, 0, len(types.FunnelStages))
	for _, s := range types.FunnelStages {
		out.Stages = append(out.Stages, types.FunnelStage{
			Stage: s.String(),
			Count: counts[s],
			Rate:  ratio(counts[s], total),
		})
	}
	return out
}

// ratio returns n/d, or 0 when d is 0.
func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// pct returns n/d as a percentage, or 0 when d is 0.
func pct(n, d int) float64 {
	return ratio(n, d) * 100
}
