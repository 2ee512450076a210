package alerts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/pkg/types"
)

var baseTime = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func alert(rule string, sev types.Severity) types.Alert {
	return types.Alert{Rule: rule, Severity: sev, Title: rule, Message: rule + " message"}
}

// recordingNotifier returns a Notifier whose deliveries are captured in order.
func recordingNotifier(cfg config.AlertsConfig) (*Notifier, *[]Event) {
	n := NewNotifier(cfg)
	var got []Event
	n.deliverFn = func(ev *Event) { got = append(got, *ev) }
	return n, &got
}

func TestNotifier_FireThenResolve(t *testing.T) {
	n, got := recordingNotifier(config.AlertsConfig{})

	n.Observe([]types.Alert{alert(RuleZeroHires, types.SeverityCritical)}, baseTime)
	if len(*got) != 1 || (*got)[0].State != StateFiring {
		t.Fatalf("after fire: deliveries = %+v, want one firing", *got)
	}
	if (*got)[0].ID == "" {
		t.Error("fired event should carry an ID")
	}

	// Same rule still firing: no new delivery.
	n.Observe([]types.Alert{alert(RuleZeroHires, types.SeverityCritical)}, baseTime.Add(time.Minute))
	if len(*got) != 1 {
		t.Fatalf("still firing: deliveries = %d, want 1", len(*got))
	}

	// Rule clears: resolved delivery.
	n.Observe(nil, baseTime.Add(2*time.Minute))
	if len(*got) != 2 || (*got)[1].State != StateResolved {
		t.Fatalf("after resolve: deliveries = %+v", *got)
	}
	if (*got)[1].ResolvedAt == nil {
		t.Error("resolved event should carry ResolvedAt")
	}
}

func TestNotifier_CooldownSuppressesRefire(t *testing.T) {
	n, got := recordingNotifier(config.AlertsConfig{Cooldown: 30 * time.Minute})
	a := []types.Alert{alert(RuleStalePostings, types.SeverityMedium)}

	n.Observe(a, baseTime)
	n.Observe(nil, baseTime.Add(5*time.Minute))
	n.Observe(a, baseTime.Add(10*time.Minute)) // inside cooldown

	fired := 0
	for _, ev := range *got {
		if ev.State == StateFiring {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("firing deliveries = %d, want 1 inside cooldown", fired)
	}

	// Still tracked as active even without a notification.
	if act := n.Active(baseTime.Add(10 * time.Minute)); len(act) == 0 || act[0].State != StateFiring {
		t.Errorf("Active = %+v, want the rule firing", act)
	}

	n.Observe(nil, baseTime.Add(15*time.Minute))
	n.Observe(a, baseTime.Add(45*time.Minute)) // cooldown elapsed
	fired = 0
	for _, ev := range *got {
		if ev.State == StateFiring {
			fired++
		}
	}
	if fired != 2 {
		t.Errorf("firing deliveries = %d, want 2 after cooldown", fired)
	}
}

func TestNotifier_SuppressedFireResolvesSilently(t *testing.T) {
	n, got := recordingNotifier(config.AlertsConfig{Cooldown: 30 * time.Minute})
	a := []types.Alert{alert(RuleVolumeDecline, types.SeverityMedium)}

	n.Observe(a, baseTime)
	n.Observe(nil, baseTime.Add(5*time.Minute))
	n.Observe(a, baseTime.Add(10*time.Minute))  // inside cooldown, not delivered
	n.Observe(nil, baseTime.Add(20*time.Minute)) // its resolve must not be delivered

	var states []string
	for _, ev := range *got {
		states = append(states, ev.State)
	}
	want := []string{StateFiring, StateResolved}
	if len(states) != len(want) {
		t.Fatalf("deliveries = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("delivery[%d] = %s, want %s", i, states[i], want[i])
		}
	}

	// The silent cycle still shows up in history.
	if act := n.Active(baseTime.Add(25 * time.Minute)); len(act) != 2 {
		t.Errorf("Active len = %d, want 2 resolved events", len(act))
	}
}

func TestNotifier_ActiveIncludesRecentResolved(t *testing.T) {
	n, _ := recordingNotifier(config.AlertsConfig{})
	n.Observe([]types.Alert{
		alert(RuleVolumeDecline, types.SeverityMedium),
		alert(RuleZeroHires, types.SeverityCritical),
	}, baseTime)
	n.Observe([]types.Alert{alert(RuleZeroHires, types.SeverityCritical)}, baseTime.Add(time.Minute))

	act := n.Active(baseTime.Add(2 * time.Minute))
	if len(act) != 2 {
		t.Fatalf("Active len = %d, want 2", len(act))
	}
	if act[0].Rule != RuleZeroHires {
		t.Errorf("Active[0] = %s, want the critical rule first", act[0].Rule)
	}
	if act[1].State != StateResolved {
		t.Errorf("Active[1].State = %s, want resolved", act[1].State)
	}

	// Past the recent window the resolved event drops out.
	if act := n.Active(baseTime.Add(3 * time.Hour)); len(act) != 1 {
		t.Errorf("Active after window len = %d, want 1", len(act))
	}
}

func TestNotifier_DeliversToWebhooks(t *testing.T) {
	var mu sync.Mutex
	bodies := map[string]map[string]interface{}{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		mu.Lock()
		bodies[r.URL.Path] = body
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("HL_TEST_SLACK", srv.URL+"/slack")
	t.Setenv("HL_TEST_TEAMS", srv.URL+"/teams")
	t.Setenv("HL_TEST_HTTP", srv.URL+"/http")

	n := NewNotifier(config.AlertsConfig{Webhooks: []config.WebhookConfig{
		{Type: "slack", URLEnv: "HL_TEST_SLACK"},
		{Type: "teams", URLEnv: "HL_TEST_TEAMS"},
		{Type: "http", URLEnv: "HL_TEST_HTTP"},
		{Type: "slack", URLEnv: "HL_TEST_UNSET"}, // skipped: no URL
	}})

	ev := &Event{Alert: alert(RuleZeroHires, types.SeverityCritical), ID: "x", FiredAt: baseTime, State: StateFiring}
	n.deliver(ev)

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 3 {
		t.Fatalf("deliveries = %d, want 3: %v", len(bodies), bodies)
	}
	if _, ok := bodies["/slack"]["text"]; !ok {
		t.Errorf("slack body missing text: %v", bodies["/slack"])
	}
	if bodies["/teams"]["@type"] != "MessageCard" {
		t.Errorf("teams body @type = %v", bodies["/teams"]["@type"])
	}
	inner, ok := bodies["/http"]["alert"].(map[string]interface{})
	if !ok || inner["rule"] != RuleZeroHires {
		t.Errorf("http body alert = %v", bodies["/http"]["alert"])
	}
}

func TestNotifier_WebhookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier(config.AlertsConfig{})
	if err := n.post(srv.URL, map[string]string{"text": "x"}); err == nil {
		t.Fatal("expected error for HTTP 502, got nil")
	}
}
