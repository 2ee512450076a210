package metrics

import (
	"sort"

	"github.com/hirelens/hirelens/pkg/types"
)

// Unassigned is the recruiter key for records without a job owner.
const Unassigned = "Unassigned"

// RecruiterPerformance groups records by job owner in one pass and derives
// view, interview and offer rates as percentages of each owner's
// applications. Every group has at least one application, so rates are
// always defined.
func RecruiterPerformance(records []types.ApplicationRecord) map[string]types.RecruiterStats {
	groups := make(map[string]*types.RecruiterStats)
	for _, r := range records {
		owner := r.JobOwner
		if owner == "" {
			owner = Unassigned
		}
		st, ok := groups[owner]
		if !ok {
			st = &types.RecruiterStats{Recruiter: owner}
			groups[owner] = st
		}
		st.Applications++
		if r.Reached(types.StageViewed) {
			st.Viewed++
		}
		if r.Reached(types.StageInterviewed) {
			st.Interviewed++
		}
		if r.Reached(types.StageOffered) {
			st.Offered++
		}
	}

	out := make(map[string]types.RecruiterStats, len(groups))
	for owner, st := range groups {
		st.ViewRate = pct(st.Viewed, st.Applications)
		st.InterviewRate = pct(st.Interviewed, st.Applications)
		st.OfferRate = pct(st.Offered, st.Applications)
		out[owner] = *st
	}
	return out
}

// SortedRecruiters returns the stats ordered by applications descending,
// then by recruiter name.
func SortedRecruiters(stats map[string]types.RecruiterStats) []types.RecruiterStats {
	out := make([]types.RecruiterStats, 0, len(stats))
	for _, st := range stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Applications != out[j].Applications {
			return out[i].Applications > out[j].Applications
		}
		return out[i].Recruiter < out[j].Recruiter
	})
	return out
}
