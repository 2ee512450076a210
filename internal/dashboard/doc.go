// Package dashboard assembles a Report from one dataset snapshot and keeps
// the latest report fresh.
//
// Build is pure: the same snapshot, options and clock always give the same
// report. Service wraps it with loading, storage, alert notification and
// metrics, and is the only place the refresh schedule lives.
package dashboard
