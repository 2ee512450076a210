package metrics

import "github.com/hirelens/hirelens/pkg/types"

// categoryStatuses is the fixed status vocabulary of each pipeline bucket.
// A status appears in at most one bucket; statuses not listed are ignored.
var categoryStatuses = map[types.Category][]string{
	types.CategoryEarlyStage: {
		"New",
		"Initial Contact Attempted",
		"2nd Contact Attempted",
		"3rd Contact Attempted",
	},
	types.CategoryActiveEngagement: {
		"In Communication",
		"Interview Scheduled",
		"Interview Cancelled",
	},
	types.CategoryAdvancedStage: {
		"Sent Documents",
		"Documents Signed",
	},
	types.CategoryClosed: {
		"Not Qualified",
		"No Offer Made",
		"Sent Application",
	},
}

// statusCategory inverts categoryStatuses for lookups by status label.
var statusCategory = func() map[string]types.Category {
	m := make(map[string]types.Category)
	for c, statuses := range categoryStatuses {
		for _, s := range statuses {
			m[s] = c
		}
	}
	return m
}()

// CategoryOf returns the pipeline bucket for a status label.
func CategoryOf(status string) (types.Category, bool) {
	c, ok := statusCategory[status]
	return c, ok
}

// PipelineBreakdown sums applicant counts per bucket. Percentages are of the
// total across all four buckets, so unlisted statuses affect neither the
// bucket counts nor the denominator.
func PipelineBreakdown(statuses []types.StatusAggregate) types.PipelineBreakdown {
	counts := make(map[types.Category]int, len(types.Categories))
	var total int
	for _, s := range statuses {
		c, ok := statusCategory[s.Status]
		if !ok {
			continue
		}
		counts[c] += s.Applicants
		total += s.Applicants
	}

	out := types.PipelineBreakdown{
		Total:      total,
		Categories: make([]types.CategoryCount, 0, len(types.Categories)),
	}
	for _, c := range types.Categories {
		out.Categories = append(out.Categories, types.CategoryCount{
			Category:   c,
			Count:      counts[c],
			Percentage: pct(counts[c], total),
		})
	}
	return out
}
