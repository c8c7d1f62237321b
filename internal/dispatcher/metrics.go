package dispatcher

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// ActionStats summarizes the dispatches of one action.
type ActionStats struct {
	Name   string
	Count  uint64
	Errors uint64
	Total  time.Duration
	Last   time.Duration
}

// Average returns the mean time spent dispatching the action.
func (s ActionStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// MetricsSnapshot totals every action.
type MetricsSnapshot struct {
	Dispatches uint64
	Errors     uint64
	Panics     uint64
	Total      time.Duration
	Actions    int
}

// Average returns the mean dispatch time.
func (s MetricsSnapshot) Average() time.Duration {
	if s.Dispatches == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Dispatches)
}

// Metrics collects per-action dispatch statistics.
type Metrics struct {
	mu      sync.Mutex
	actions map[string]*ActionStats
	panics  uint64
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[string]*ActionStats)}
}

func (m *Metrics) record(name string, d time.Duration, status handler.ResultStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.actions[name]
	if s == nil {
		s = &ActionStats{Name: name}
		m.actions[name] = s
	}
	s.Count++
	s.Total += d
	s.Last = d
	if status == handler.StatusError {
		s.Errors++
	}
}

// recordPanic counts a recovered panic. The error result it produced is
// counted by record.
func (m *Metrics) recordPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics++
}

// Snapshot returns the totals across all actions.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{Panics: m.panics, Actions: len(m.actions)}
	for _, s := range m.actions {
		snap.Dispatches += s.Count
		snap.Errors += s.Errors
		snap.Total += s.Total
	}
	return snap
}

// TopActions returns up to n actions, most dispatched first. Ties are
// ordered by name.
func (m *Metrics) TopActions(n int) []ActionStats {
	m.mu.Lock()
	all := make([]ActionStats, 0, len(m.actions))
	for _, s := range m.actions {
		all = append(all, *s)
	}
	m.mu.Unlock()

	slices.SortFunc(all, func(a, b ActionStats) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return all[:max(0, min(n, len(all)))]
}
