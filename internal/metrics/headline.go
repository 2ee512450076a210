package metrics

import (
	"sort"

	"github.com/hirelens/hirelens/pkg/types"
)

// Headline builds the summary row from already-computed engine outputs so
// the dataset is not walked again.
func Headline(ds types.Dataset, funnel types.ConversionFunnel, durations []types.StageDuration) types.Headline {
	owners := make(map[string]struct{})
	for _, r := range ds.Applications {
		owner := r.JobOwner
		if owner == "" {
			owner = Unassigned
		}
		owners[owner] = struct{}{}
	}

	h := types.Headline{
		TotalApplications: funnel.Applications,
		TotalHires:        funnel.Hired,
		OpenJobs:          len(ds.Jobs),
		Recruiters:        len(owners),
		HireRatePct:       funnel.HireRate * 100,
		OfferAcceptPct:    pct(funnel.Hired, funnel.Offered),
	}

	applied, offered := types.StageApplied.String(), types.StageOffered.String()
	for _, d := range durations {
		if d.From == applied && d.To == offered {
			h.AvgDaysToOffer = d.AverageDays
			break
		}
	}
	return h
}

// JobPerformance ranks jobs by total applicants, busiest first, and flags
// postings open longer than staleDays. limit <= 0 returns every job.
func JobPerformance(jobs []types.JobAggregate, staleDays float64, limit int) []types.JobPerformance {
	out := make([]types.JobPerformance, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, types.JobPerformance{
			JobName:         j.JobName,
			JobOwner:        j.JobOwner,
			TotalApplicants: j.TotalApplicants,
			DaysOpen:        j.DaysOpen,
			Stale:           j.DaysOpen > staleDays,
		})
	}
	sort.SliceStable(out, func(i, k int) bool {
		if out[i].TotalApplicants != out[k].TotalApplicants {
			return out[i].TotalApplicants > out[k].TotalApplicants
		}
		return out[i].JobName < out[k].JobName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
