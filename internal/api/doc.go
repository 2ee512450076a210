// Package api implements the HTTP REST API for the hirelens server.
//
// New(store, history) returns an http.Handler that serves:
//
//	GET /api/v1/health              status (ok, stale, empty), counts, last error
//	GET /api/v1/dashboard           the full report
//	GET /api/v1/summary             headline numbers
//	GET /api/v1/funnel              conversion funnel
//	GET /api/v1/durations           average days between stages
//	GET /api/v1/pipeline            four-category pipeline breakdown
//	GET /api/v1/recruiters          per-owner stats, busiest first
//	GET /api/v1/recruiters/{owner}  one owner with diagnostic hints; 404 if unknown
//	GET /api/v1/jobs                job performance table
//	GET /api/v1/weekly              weekly application series
//	GET /api/v1/alerts              alerts in the current report; [] is all clear
//	GET /api/v1/alerts/history      firing and recently resolved alert events
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for non-GET methods
//   - Return 503 until the first report has been built (health excepted)
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
