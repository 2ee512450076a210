package dashboard

import (
	"time"

	"github.com/hirelens/hirelens/internal/alerts"
	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/metrics"
	"github.com/hirelens/hirelens/pkg/types"
)

// Options tunes report assembly.
type Options struct {
	Thresholds alerts.Thresholds
	// TopJobs caps the job performance table; <= 0 keeps every job.
	TopJobs int
}

// DefaultOptions returns the options used when no config is given.
func DefaultOptions() Options {
	return Options{Thresholds: alerts.DefaultThresholds(), TopJobs: config.DefaultTopJobs}
}

// OptionsFrom derives Options from a loaded config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Thresholds: alerts.ThresholdsFrom(cfg.Alerts),
		TopJobs:    cfg.Dashboard.TopJobs,
	}
}

// Build runs every engine computation and the alert rules over ds and
// returns the combined report stamped with now.
func Build(ds types.Dataset, opts Options, now time.Time) *types.Report {
	funnel := metrics.ConversionFunnel(ds.Applications)
	durations := metrics.StageDurations(ds.Applications)
	pipeline := metrics.PipelineBreakdown(ds.Statuses)

	r := &types.Report{
		GeneratedAt: now.UTC(),
		Headline:    metrics.Headline(ds, funnel, durations),
		Funnel:      funnel,
		Durations:   durations,
		Pipeline:    pipeline,
		Statuses:    nonNil(ds.Statuses),
		Recruiters:  metrics.SortedRecruiters(metrics.RecruiterPerformance(ds.Applications)),
		Jobs:        metrics.JobPerformance(ds.Jobs, opts.Thresholds.StaleDays, opts.TopJobs),
		Weekly:      nonNil(ds.Weekly),
		Alerts: alerts.Evaluate(alerts.Input{
			Funnel:   funnel,
			Pipeline: pipeline,
			Weekly:   ds.Weekly,
			Jobs:     ds.Jobs,
		}, opts.Thresholds),
	}
	return r
}

// nonNil keeps empty collections as [] rather than null in JSON payloads.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
