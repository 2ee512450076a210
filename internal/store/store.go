package store

import (
	"sync"
	"time"

	"github.com/hirelens/hirelens/pkg/types"
)

// Entry is a report together with the time it was stored.
type Entry struct {
	Report    *types.Report
	UpdatedAt time.Time
}

// Store is a thread-safe holder of the latest Report. Reports are replaced
// whole; callers must not modify a report after passing it to Put.
type Store struct {
	mu        sync.RWMutex
	current   *Entry
	maxAge    time.Duration
	lastErr   error
	lastErrAt time.Time
	now       func() time.Time // injectable for deterministic tests
}

// New creates an empty Store. A report older than maxAge counts as stale;
// zero disables staleness.
func New(maxAge time.Duration) *Store {
	return &Store{maxAge: maxAge, now: time.Now}
}

// Put replaces the current report and clears any recorded load error.
func (s *Store) Put(r *types.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Entry{Report: r, UpdatedAt: s.now()}
	s.lastErr = nil
	s.lastErrAt = time.Time{}
}

// Current returns the latest entry, or false before the first Put.
func (s *Store) Current() (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Report is Current without the bookkeeping; nil before the first Put.
func (s *Store) Report() *types.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return s.current.Report
}

// Stale reports whether the current report is older than maxAge. An empty
// store is not stale; it is empty.
func (s *Store) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.maxAge <= 0 {
		return false
	}
	return s.now().Sub(s.current.UpdatedAt) > s.maxAge
}

// SetMaxAge changes the staleness threshold, e.g. after a config reload.
func (s *Store) SetMaxAge(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxAge = d
}

// RecordError remembers the most recent failed refresh. The previous report
// stays in place.
func (s *Store) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.lastErrAt = s.now()
}

// LastError returns the error recorded since the last successful Put, if any.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// LastErrorAt is when LastError was recorded; zero if there is none.
func (s *Store) LastErrorAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErrAt
}
