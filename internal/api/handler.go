package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hirelens/hirelens/internal/alerts"
	"github.com/hirelens/hirelens/internal/store"
	"github.com/hirelens/hirelens/pkg/types"
)

// AlertHistory supplies alert events for /api/v1/alerts/history.
// *alerts.Notifier satisfies it.
type AlertHistory interface {
	Active(now time.Time) []alerts.Event
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads the latest report from the store and returns JSON responses.
type Handler struct {
	store   *store.Store
	history AlertHistory // may be nil
	mux     *http.ServeMux
	now     func() time.Time
}

// New creates a Handler wired to the given report store and registers all
// routes. history may be nil, in which case the history endpoint is empty.
func New(st *store.Store, history AlertHistory) http.Handler {
	h := &Handler{store: st, history: history, mux: http.NewServeMux(), now: time.Now}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/dashboard", h.withReport(h.dashboard))
	h.mux.HandleFunc("/api/v1/summary", h.withReport(h.summary))
	h.mux.HandleFunc("/api/v1/funnel", h.withReport(h.funnel))
	h.mux.HandleFunc("/api/v1/durations", h.withReport(h.durations))
	h.mux.HandleFunc("/api/v1/pipeline", h.withReport(h.pipeline))
	h.mux.HandleFunc("/api/v1/recruiters", h.withReport(h.listRecruiters))
	h.mux.HandleFunc("/api/v1/recruiters/", h.withReport(h.getRecruiter)) // subtree, extracts {owner}
	h.mux.HandleFunc("/api/v1/jobs", h.withReport(h.jobs))
	h.mux.HandleFunc("/api/v1/weekly", h.withReport(h.weekly))
	h.mux.HandleFunc("/api/v1/alerts", h.withReport(h.alerts))
	h.mux.HandleFunc("/api/v1/alerts/history", h.alertHistory)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// reportHandler serves one view of an existing report.
type reportHandler func(w http.ResponseWriter, r *http.Request, rep *types.Report)

// withReport enforces GET and answers 503 until the first report exists.
func (h *Handler) withReport(next reportHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		rep := h.store.Report()
		if rep == nil {
			jsonErr(w, http.StatusServiceUnavailable, "no report available yet")
			return
		}
		next(w, r, rep)
	}
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health. It answers 200 even before the first
// report so that probes can tell "starting" from "down".
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{Status: "empty"}
	if err := h.store.LastError(); err != nil {
		resp.LastError = err.Error()
		resp.LastErrorAt = h.store.LastErrorAt().UTC().Format(time.RFC3339)
	}

	e, ok := h.store.Current()
	if !ok {
		jsonResp(w, http.StatusOK, resp)
		return
	}

	resp.Status = "ok"
	if h.store.Stale() {
		resp.Status = "stale"
	}
	rep := e.Report
	resp.GeneratedAt = rep.GeneratedAt.UTC().Format(time.RFC3339)
	resp.UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
	resp.Applications = rep.Headline.TotalApplications
	resp.Statuses = len(rep.Statuses)
	resp.WeeklyPoints = len(rep.Weekly)
	resp.Jobs = rep.Headline.OpenJobs
	resp.AlertCount = len(rep.Alerts)
	jsonResp(w, http.StatusOK, resp)
}

// dashboard returns GET /api/v1/dashboard: the whole report in one payload.
func (h *Handler) dashboard(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, rep)
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, rep.Headline)
}

func (h *Handler) funnel(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, FunnelResponse{
		ConversionFunnel: rep.Funnel,
		OfferAcceptPct:   rep.Headline.OfferAcceptPct,
	})
}

func (h *Handler) durations(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, rep.Durations)
}

func (h *Handler) pipeline(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, rep.Pipeline)
}

func (h *Handler) listRecruiters(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, rep.Recruiters)
}

// getRecruiter returns GET /api/v1/recruiters/{owner}. Owner names may
// contain spaces, so the segment is path-unescaped.
func (h *Handler) getRecruiter(w http.ResponseWriter, r *http.Request, rep *types.Report) {
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/api/v1/recruiters/")
	if raw == "" {
		h.listRecruiters(w, r, rep)
		return
	}
	owner, err := url.PathUnescape(raw)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid recruiter name")
		return
	}

	for _, rs := range rep.Recruiters {
		if rs.Recruiter == owner {
			jsonResp(w, http.StatusOK, RecruiterResponse{
				RecruiterStats: rs,
				Diagnostics:    computeDiagnostics(rs),
			})
			return
		}
	}
	jsonErr(w, http.StatusNotFound, "recruiter not found")
}

func (h *Handler) jobs(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, rep.Jobs)
}

func (h *Handler) weekly(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	jsonResp(w, http.StatusOK, rep.Weekly)
}

// alerts returns GET /api/v1/alerts. An empty list is the all-clear state,
// not an error.
func (h *Handler) alerts(w http.ResponseWriter, _ *http.Request, rep *types.Report) {
	list := rep.Alerts
	if list == nil {
		list = []types.Alert{}
	}
	jsonResp(w, http.StatusOK, AlertsResponse{AllClear: len(list) == 0, Alerts: list})
}

// alertHistory returns GET /api/v1/alerts/history. It does not need a
// report: the notifier's memory outlives individual refreshes.
func (h *Handler) alertHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	events := []alerts.Event{}
	if h.history != nil {
		events = h.history.Active(h.now())
	}
	jsonResp(w, http.StatusOK, HistoryResponse{Events: events})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
