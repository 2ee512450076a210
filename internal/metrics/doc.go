// Package metrics derives recruitment analytics from a types.Dataset.
//
// Every function here is pure: it reads its arguments, never mutates them,
// and returns a fully populated result. Empty inputs produce zero counts and
// zero rates, never NaN.
//
// funnel.go    : ConversionFunnel: counts and rates for the five funnel stages
// duration.go  : AverageStageDuration / StageDurations: mean days between stages
// breakdown.go : PipelineBreakdown: statuses mapped into four fixed buckets
// recruiter.go : RecruiterPerformance: per job-owner aggregates
// headline.go  : Headline and JobPerformance for the summary row and job table
package metrics
