package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hirelens/hirelens/internal/alerts"
	"github.com/hirelens/hirelens/internal/api"
	"github.com/hirelens/hirelens/internal/store"
	"github.com/hirelens/hirelens/pkg/types"
)

// --- test helpers -----------------------------------------------------------

func sampleReport() *types.Report {
	return &types.Report{
		GeneratedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Headline:    types.Headline{TotalApplications: 12, TotalHires: 1, OpenJobs: 2, OfferAcceptPct: 50},
		Funnel: types.ConversionFunnel{
			Applications: 12, Viewed: 8, Interviewed: 4, Offered: 2, Hired: 1,
			Stages: []types.FunnelStage{{Stage: "applications", Count: 12, Rate: 1}},
		},
		Durations: []types.StageDuration{{From: "applications", To: "offered", AverageDays: 9.5, Samples: 2}},
		Pipeline: types.PipelineBreakdown{Total: 10, Categories: []types.CategoryCount{
			{Category: types.CategoryEarlyStage, Count: 10, Percentage: 100},
		}},
		Statuses: []types.StatusAggregate{{Status: "New", Applicants: 10}},
		Recruiters: []types.RecruiterStats{
			{Recruiter: "Dana Scully", Applications: 9, Viewed: 7, Interviewed: 3, Offered: 2},
			{Recruiter: "Unassigned", Applications: 3, Viewed: 1, Interviewed: 1},
		},
		Jobs:   []types.JobPerformance{{JobName: "Backend", TotalApplicants: 9}},
		Weekly: []types.WeeklyPoint{{WeekStart: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), Applicants: 4}},
		Alerts: []types.Alert{},
	}
}

func newStore(reports ...*types.Report) *store.Store {
	st := store.New(5 * time.Minute)
	for _, r := range reports {
		st.Put(r)
	}
	return st
}

type fakeHistory []alerts.Event

func (f fakeHistory) Active(time.Time) []alerts.Event { return f }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth_EmptyStore(t *testing.T) {
	h := api.New(newStore(), nil)
	rr := get(t, h, "/api/v1/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "empty" {
		t.Errorf("status: got %q, want empty", resp.Status)
	}
}

func TestHealth_WithReport(t *testing.T) {
	h := api.New(newStore(sampleReport()), nil)
	var resp api.HealthResponse
	decode(t, get(t, h, "/api/v1/health"), &resp)

	if resp.Status != "ok" {
		t.Errorf("status: got %q, want ok", resp.Status)
	}
	if resp.Applications != 12 || resp.Jobs != 2 || resp.Statuses != 1 || resp.WeeklyPoints != 1 {
		t.Errorf("counts: got %+v", resp)
	}
	if resp.GeneratedAt != "2026-03-01T09:00:00Z" {
		t.Errorf("generated_at: got %q", resp.GeneratedAt)
	}
}

func TestHealth_ReportsLastError(t *testing.T) {
	st := newStore(sampleReport())
	st.RecordError(errors.New("dataset: fetch failed"))
	var resp api.HealthResponse
	decode(t, get(t, api.New(st, nil), "/api/v1/health"), &resp)

	if resp.Status != "ok" {
		t.Errorf("status: got %q, want ok (previous report still served)", resp.Status)
	}
	if resp.LastError != "dataset: fetch failed" || resp.LastErrorAt == "" {
		t.Errorf("last_error: got %q at %q", resp.LastError, resp.LastErrorAt)
	}
}

// --- 503 before first report -------------------------------------------------

func TestEndpoints_UnavailableBeforeFirstReport(t *testing.T) {
	h := api.New(newStore(), nil)
	for _, p := range []string{
		"/api/v1/dashboard", "/api/v1/summary", "/api/v1/funnel", "/api/v1/durations",
		"/api/v1/pipeline", "/api/v1/recruiters", "/api/v1/recruiters/x", "/api/v1/jobs",
		"/api/v1/weekly", "/api/v1/alerts",
	} {
		rr := get(t, h, p)
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d, want 503", p, rr.Code)
			continue
		}
		var body map[string]string
		decode(t, rr, &body)
		if body["error"] == "" {
			t.Errorf("%s: missing error body", p)
		}
	}
}

// --- payloads ----------------------------------------------------------------

func TestDashboard_FullReport(t *testing.T) {
	h := api.New(newStore(sampleReport()), nil)
	rr := get(t, h, "/api/v1/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var rep types.Report
	decode(t, rr, &rep)
	if rep.Headline.TotalApplications != 12 || len(rep.Recruiters) != 2 {
		t.Errorf("report: got %+v", rep)
	}
}

func TestSummaryAndFunnel(t *testing.T) {
	h := api.New(newStore(sampleReport()), nil)

	var headline types.Headline
	decode(t, get(t, h, "/api/v1/summary"), &headline)
	if headline.TotalHires != 1 {
		t.Errorf("summary total_hires: got %d, want 1", headline.TotalHires)
	}

	var funnel map[string]interface{}
	decode(t, get(t, h, "/api/v1/funnel"), &funnel)
	if funnel["offered"].(float64) != 2 {
		t.Errorf("funnel offered: got %v", funnel["offered"])
	}
	if funnel["offer_accept_pct"].(float64) != 50 {
		t.Errorf("funnel offer_accept_pct: got %v", funnel["offer_accept_pct"])
	}
	if stages, ok := funnel["stages"].([]interface{}); !ok || len(stages) != 1 {
		t.Errorf("funnel stages: got %v", funnel["stages"])
	}
}

func TestListEndpoints(t *testing.T) {
	h := api.New(newStore(sampleReport()), nil)
	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/durations", 1},
		{"/api/v1/recruiters", 2},
		{"/api/v1/recruiters/", 2},
		{"/api/v1/jobs", 1},
		{"/api/v1/weekly", 1},
	}
	for _, tt := range tests {
		var list []map[string]interface{}
		decode(t, get(t, h, tt.path), &list)
		if len(list) != tt.want {
			t.Errorf("%s: got %d items, want %d", tt.path, len(list), tt.want)
		}
	}

	var pipeline types.PipelineBreakdown
	decode(t, get(t, h, "/api/v1/pipeline"), &pipeline)
	if pipeline.Get(types.CategoryEarlyStage).Count != 10 {
		t.Errorf("pipeline earlyStage: got %+v", pipeline)
	}
}

func TestGetRecruiter(t *testing.T) {
	h := api.New(newStore(sampleReport()), nil)

	rr := get(t, h, "/api/v1/recruiters/Dana%20Scully")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var resp api.RecruiterResponse
	decode(t, rr, &resp)
	if resp.Recruiter != "Dana Scully" || resp.Offered != 2 {
		t.Errorf("recruiter: got %+v", resp.RecruiterStats)
	}
	if len(resp.Diagnostics) == 0 {
		t.Error("diagnostics should never be empty")
	}

	if rr := get(t, h, "/api/v1/recruiters/nobody"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown recruiter: got %d, want 404", rr.Code)
	}
}

func TestAlerts_AllClear(t *testing.T) {
	h := api.New(newStore(sampleReport()), nil)
	var resp api.AlertsResponse
	decode(t, get(t, h, "/api/v1/alerts"), &resp)
	if !resp.AllClear || resp.Alerts == nil || len(resp.Alerts) != 0 {
		t.Errorf("alerts: got %+v, want all clear with empty list", resp)
	}
}

func TestAlerts_Firing(t *testing.T) {
	rep := sampleReport()
	rep.Alerts = []types.Alert{{Rule: alerts.RuleZeroHires, Severity: types.SeverityCritical}}
	var resp api.AlertsResponse
	decode(t, get(t, api.New(newStore(rep), nil), "/api/v1/alerts"), &resp)
	if resp.AllClear || len(resp.Alerts) != 1 {
		t.Errorf("alerts: got %+v", resp)
	}
}

func TestAlertHistory(t *testing.T) {
	// History does not depend on a report being present.
	h := api.New(newStore(), fakeHistory{
		{Alert: types.Alert{Rule: alerts.RuleVolumeDecline}, ID: "e1", State: alerts.StateResolved},
	})
	rr := get(t, h, "/api/v1/alerts/history")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HistoryResponse
	decode(t, rr, &resp)
	if len(resp.Events) != 1 || resp.Events[0].ID != "e1" {
		t.Errorf("events: got %+v", resp.Events)
	}

	var empty api.HistoryResponse
	decode(t, get(t, api.New(newStore(), nil), "/api/v1/alerts/history"), &empty)
	if empty.Events == nil {
		t.Error("events should be [] without a history source")
	}
}

// --- method checks -----------------------------------------------------------

func TestMethodNotAllowed(t *testing.T) {
	h := api.New(newStore(sampleReport()), nil)
	for _, p := range []string{"/api/v1/health", "/api/v1/dashboard", "/api/v1/alerts/history"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, p, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", p, rr.Code)
		}
	}
}
