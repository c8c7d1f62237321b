package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what the event loop does.
type Metrics struct {
	inputCount    atomic.Uint64
	inputTotalNs  atomic.Int64
	unboundKeys   atomic.Uint64
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderMaxNs   atomic.Int64
	notices       atomic.Uint64
	failures      atomic.Uint64
	reloads       atomic.Uint64
	reloadErrors  atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordInput records how long one input event took to handle.
func (m *Metrics) RecordInput(duration time.Duration) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(duration.Nanoseconds())
}

// RecordUnbound records a key with no binding.
func (m *Metrics) RecordUnbound() {
	m.unboundKeys.Add(1)
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.renderCount.Add(1)
	m.renderTotalNs.Add(ns)
	for {
		old := m.renderMaxNs.Load()
		if ns <= old || m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordNotice records a notice shown to the user.
func (m *Metrics) RecordNotice() {
	m.notices.Add(1)
}

// RecordFailure records a dispatch that failed without a notice.
func (m *Metrics) RecordFailure() {
	m.failures.Add(1)
}

// RecordReload records a configuration reload attempt.
func (m *Metrics) RecordReload(err error) {
	m.reloads.Add(1)
	if err != nil {
		m.reloadErrors.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	inputCount := m.inputCount.Load()
	renderCount := m.renderCount.Load()

	var avgInputNs, avgRenderNs int64
	if inputCount > 0 {
		avgInputNs = m.inputTotalNs.Load() / int64(inputCount)
	}
	if renderCount > 0 {
		avgRenderNs = m.renderTotalNs.Load() / int64(renderCount)
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		InputCount:   inputCount,
		AvgInputNs:   avgInputNs,
		UnboundKeys:  m.unboundKeys.Load(),
		RenderCount:  renderCount,
		AvgRenderNs:  avgRenderNs,
		MaxRenderNs:  m.renderMaxNs.Load(),
		Notices:      m.notices.Load(),
		Failures:     m.failures.Load(),
		Reloads:      m.reloads.Load(),
		ReloadErrors: m.reloadErrors.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	InputCount   uint64
	AvgInputNs   int64
	UnboundKeys  uint64
	RenderCount  uint64
	AvgRenderNs  int64
	MaxRenderNs  int64
	Notices      uint64
	Failures     uint64
	Reloads      uint64
	ReloadErrors uint64
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
