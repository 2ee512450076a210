package api

import (
	"github.com/hirelens/hirelens/internal/alerts"
	"github.com/hirelens/hirelens/pkg/types"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status      string `json:"status"`                 // ok | stale | empty
	GeneratedAt string `json:"generated_at,omitempty"` // RFC3339
	UpdatedAt   string `json:"updated_at,omitempty"`   // RFC3339
	// LastError is the most recent failed refresh since the last success.
	LastError   string `json:"last_error,omitempty"`
	LastErrorAt string `json:"last_error_at,omitempty"` // RFC3339

	Applications int `json:"applications"`
	Statuses     int `json:"statuses"`
	WeeklyPoints int `json:"weekly_points"`
	Jobs         int `json:"jobs"`
	AlertCount   int `json:"alert_count"`
}

// FunnelResponse is the payload for GET /api/v1/funnel.
type FunnelResponse struct {
	types.ConversionFunnel
	OfferAcceptPct float64 `json:"offer_accept_pct"`
}

// RecruiterResponse is the payload for GET /api/v1/recruiters/{owner}.
type RecruiterResponse struct {
	types.RecruiterStats
	Diagnostics []DiagnosticHint `json:"diagnostics"`
}

// AlertsResponse is the payload for GET /api/v1/alerts.
type AlertsResponse struct {
	AllClear bool          `json:"all_clear"`
	Alerts   []types.Alert `json:"alerts"`
}

// HistoryResponse is the payload for GET /api/v1/alerts/history.
type HistoryResponse struct {
	Events []alerts.Event `json:"events"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
