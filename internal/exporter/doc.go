// Package exporter exposes the latest dashboard report and the refresh loop's
// own health as Prometheus metrics on /metrics.
//
// Report figures are read at scrape time through a ReportSource, so the
// exposition always matches what the API is serving.
package exporter
