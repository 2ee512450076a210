// Package store holds the most recent dashboard report in memory and reports
// whether it has gone stale.
package store
