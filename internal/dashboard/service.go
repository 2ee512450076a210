package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hirelens/hirelens/internal/alerts"
	"github.com/hirelens/hirelens/internal/dataset"
	"github.com/hirelens/hirelens/internal/exporter"
	"github.com/hirelens/hirelens/internal/store"
	"github.com/hirelens/hirelens/pkg/types"
)

// Service reloads the dataset, rebuilds the report and hands it to the
// store, the notifier, the exporter and any subscribers.
type Service struct {
	loader   dataset.Loader
	store    *store.Store
	notifier *alerts.Notifier   // optional
	exp      *exporter.Exporter // optional
	now      func() time.Time   // injectable for deterministic tests

	mu          sync.RWMutex
	opts        Options
	interval    time.Duration
	watchPath   string
	subscribers []func(*types.Report)

	refreshMu sync.Mutex // serialises Refresh between ticker and watcher
}

// ServiceConfig collects the Service collaborators. Notifier and Exporter
// may be nil.
type ServiceConfig struct {
	Loader   dataset.Loader
	Store    *store.Store
	Notifier *alerts.Notifier
	Exporter *exporter.Exporter
	Options  Options
	// Interval between scheduled refreshes; <= 0 disables the ticker.
	Interval time.Duration
	// WatchPath, when set, triggers a refresh whenever the file is written.
	WatchPath string
}

// NewService wires a Service. Loader and Store are required.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("dashboard: loader is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("dashboard: store is required")
	}
	return &Service{
		loader:    cfg.Loader,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		exp:       cfg.Exporter,
		now:       time.Now,
		opts:      cfg.Options,
		interval:  cfg.Interval,
		watchPath: cfg.WatchPath,
	}, nil
}

// Subscribe registers fn to receive every newly built report. fn runs on the
// refresh goroutine and must not block.
func (s *Service) Subscribe(fn func(*types.Report)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SetOptions replaces the build options; the next refresh uses them.
func (s *Service) SetOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
}

// Refresh loads the dataset once and publishes a new report. On failure the
// previous report stays in the store and the error is recorded there.
func (s *Service) Refresh(ctx context.Context) (*types.Report, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.now()
	ds, err := s.loader.Load(ctx)
	if err != nil {
		err = fmt.Errorf("dashboard: refresh from %s: %w", s.loader.Source(), err)
		s.store.RecordError(err)
		if s.exp != nil {
			s.exp.ObserveRefresh(s.now().Sub(start), err, start)
		}
		return nil, err
	}

	s.mu.RLock()
	opts := s.opts
	subs := append([]func(*types.Report){}, s.subscribers...)
	s.mu.RUnlock()

	prev := s.store.Report()
	r := Build(ds, opts, start)
	s.store.Put(r)

	if s.notifier != nil {
		s.notifier.Observe(r.Alerts, start)
	}
	if s.exp != nil {
		for _, a := range newlyFiring(prev, r) {
			s.exp.ObserveFired(a)
		}
		s.exp.ObserveRefresh(s.now().Sub(start), nil, start)
	}
	for _, fn := range subs {
		fn(r)
	}

	slog.Info("dashboard: report refreshed",
		"source", s.loader.Source(),
		"applications", r.Headline.TotalApplications,
		"alerts", len(r.Alerts),
		"took", s.now().Sub(start))
	return r, nil
}

// Run refreshes immediately, then on every tick and on every write to the
// watched file, until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		slog.Error("dashboard: initial refresh failed", "err", err)
	}

	s.mu.RLock()
	interval, watchPath := s.interval, s.watchPath
	s.mu.RUnlock()

	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	// A burst of write events collapses into one pending refresh.
	changed := make(chan struct{}, 1)
	if watchPath != "" {
		go func() {
			err := dataset.Watch(ctx, watchPath, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			if err != nil {
				slog.Error("dashboard: dataset watch stopped", "path", watchPath, "err", err)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
		case <-changed:
		}
		if _, err := s.Refresh(ctx); err != nil {
			slog.Error("dashboard: refresh failed, keeping previous report", "err", err)
		}
	}
}

// newlyFiring returns the alerts in next whose rule was not firing in prev.
func newlyFiring(prev, next *types.Report) []types.Alert {
	was := make(map[string]bool)
	if prev != nil {
		for _, a := range prev.Alerts {
			was[a.Rule] = true
		}
	}
	var out []types.Alert
	for _, a := range next.Alerts {
		if !was[a.Rule] {
			out = append(out, a)
		}
	}
	return out
}
