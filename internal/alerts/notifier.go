package alerts

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/pkg/types"
)

const (
	maxHistoryLen     = 200
	recentWindowHours = 1
	webhookTimeout    = 10 * time.Second
)

// Event states.
const (
	StateFiring   = "firing"
	StateResolved = "resolved"
)

// Event is one alert as tracked by the Notifier across refreshes.
type Event struct {
	types.Alert
	ID         string     `json:"id"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"`

	// notified is false when the firing fell inside the cooldown; its
	// resolve is then not delivered either.
	notified bool
}

// Notifier remembers which rules are firing between evaluations and
// delivers webhook notifications when a rule starts firing or resolves.
//
// Notifier is safe for concurrent use.
type Notifier struct {
	mu       sync.Mutex
	webhooks []config.WebhookConfig
	cooldown time.Duration
	active   map[string]*Event    // key: rule name
	lastFire map[string]time.Time // last notification per rule
	history  []*Event             // recently resolved

	client *resty.Client
	// deliverFn is swapped in tests to capture deliveries synchronously.
	deliverFn func(*Event)
}

// NewNotifier creates a Notifier from the alerts configuration. A Notifier
// without webhooks still tracks state for the history endpoint.
func NewNotifier(cfg config.AlertsConfig) *Notifier {
	n := &Notifier{
		webhooks: cfg.Webhooks,
		cooldown: cfg.Cooldown,
		active:   make(map[string]*Event),
		lastFire: make(map[string]time.Time),
		client:   resty.New().SetTimeout(webhookTimeout),
	}
	if n.cooldown <= 0 {
		n.cooldown = config.DefaultCooldown
	}
	n.deliverFn = func(ev *Event) { go n.deliver(ev) }
	return n
}

// Configure swaps the webhook targets and cooldown, e.g. after a config reload.
func (n *Notifier) Configure(cfg config.AlertsConfig) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.webhooks = cfg.Webhooks
	if cfg.Cooldown > 0 {
		n.cooldown = cfg.Cooldown
	}
}

// Observe compares the current alert list with the rules that were firing
// before. New rules fire (unless still inside their cooldown); rules that no
// longer appear are resolved.
func (n *Notifier) Observe(current []types.Alert, now time.Time) {
	seen := make(map[string]bool, len(current))
	var outgoing []*Event

	n.mu.Lock()
	for _, a := range current {
		seen[a.Rule] = true
		if ev, ok := n.active[a.Rule]; ok {
			// Still firing: keep the wording fresh, no new notification.
			ev.Alert = a
			continue
		}

		ev := &Event{
			ID:      uuid.NewString(),
			Alert:   a,
			FiredAt: now,
			State:   StateFiring,
		}
		n.active[a.Rule] = ev

		if now.Sub(n.lastFire[a.Rule]) > n.cooldown {
			n.lastFire[a.Rule] = now
			ev.notified = true
			cp := *ev
			outgoing = append(outgoing, &cp)
			slog.Warn("alerts: rule fired",
				"rule", a.Rule, "severity", a.Severity, "message", a.Message)
		}
	}

	for rule, ev := range n.active {
		if seen[rule] {
			continue
		}
		resolved := now
		ev.State = StateResolved
		ev.ResolvedAt = &resolved
		delete(n.active, rule)

		n.history = append(n.history, ev)
		if len(n.history) > maxHistoryLen {
			n.history = n.history[len(n.history)-maxHistoryLen:]
		}
		slog.Info("alerts: rule resolved", "rule", rule)
		if ev.notified {
			cp := *ev
			outgoing = append(outgoing, &cp)
		}
	}
	deliver := n.deliverFn
	n.mu.Unlock()

	for _, ev := range outgoing {
		deliver(ev)
	}
}

// Active returns copies of all firing events plus events resolved within the
// past hour, most severe first, then newest first.
func (n *Notifier) Active(now time.Time) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	cutoff := now.Add(-recentWindowHours * time.Hour)
	out := make([]Event, 0, len(n.active))
	for _, ev := range n.active {
		out = append(out, *ev)
	}
	for _, ev := range n.history {
		if ev.ResolvedAt != nil && ev.ResolvedAt.After(cutoff) {
			out = append(out, *ev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Severity.Rank(), out[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return out[i].FiredAt.After(out[j].FiredAt)
	})
	return out
}
