package app

import (
	"math"
	"sync/atomic"
	"time"
)

// stat accumulates durations of one kind of work. It is safe for
// concurrent use.
type stat struct {
	count atomic.Uint64
	total atomic.Int64
	min   atomic.Int64
	max   atomic.Int64
	last  atomic.Int64
}

func newStat() *stat {
	s := &stat{}
	s.min.Store(math.MaxInt64)
	return s
}

// add records n occurrences that took d together.
func (s *stat) add(n int, d time.Duration) {
	ns := int64(d)
	s.count.Add(uint64(n))
	s.total.Add(ns)
	s.last.Store(ns)
	for {
		old := s.min.Load()
		if ns >= old || s.min.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := s.max.Load()
		if ns <= old || s.max.CompareAndSwap(old, ns) {
			break
		}
	}
}

func (s *stat) summary() StatSummary {
	sum := StatSummary{
		Count: s.count.Load(),
		Total: time.Duration(s.total.Load()),
		Max:   time.Duration(s.max.Load()),
		Last:  time.Duration(s.last.Load()),
	}
	if m := s.min.Load(); m != math.MaxInt64 {
		sum.Min = time.Duration(m)
	}
	return sum
}

// StatSummary summarizes one kind of work.
type StatSummary struct {
	Count uint64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Last  time.Duration
}

// Avg returns the mean duration per occurrence.
func (s StatSummary) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Metrics tracks where the frame loop spends its time.
type Metrics struct {
	frames  *stat
	inputs  *stat
	renders *stat
	updates *stat

	overruns     atomic.Uint64
	inputDropped atomic.Uint64
	updateErrors atomic.Uint64

	start time.Time
}

// NewMetrics creates an empty tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		frames:  newStat(),
		inputs:  newStat(),
		renders: newStat(),
		updates: newStat(),
		start:   time.Now(),
	}
}

// RecordFrame records the duration of one tick.
func (m *Metrics) RecordFrame(d time.Duration) { m.frames.add(1, d) }

// RecordOverrun records a tick whose work used up the frame budget
// before input polling started.
func (m *Metrics) RecordOverrun() { m.overruns.Add(1) }

// RecordInput records the handling time of one backend event.
func (m *Metrics) RecordInput(d time.Duration) { m.inputs.add(1, d) }

// RecordInputDropped records a key that has no notation.
func (m *Metrics) RecordInputDropped() { m.inputDropped.Add(1) }

// RecordRender records one compositor frame.
func (m *Metrics) RecordRender(d time.Duration) { m.renders.add(1, d) }

// RecordUpdates records n redraw notifications applied in d.
func (m *Metrics) RecordUpdates(n int, d time.Duration) { m.updates.add(n, d) }

// RecordUpdateError records a redraw event that was skipped.
func (m *Metrics) RecordUpdateError() { m.updateErrors.Add(1) }

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Uptime:       time.Since(m.start),
		Frames:       m.frames.summary(),
		Inputs:       m.inputs.summary(),
		Renders:      m.renders.summary(),
		Updates:      m.updates.summary(),
		Overruns:     m.overruns.Load(),
		InputDropped: m.inputDropped.Load(),
		UpdateErrors: m.updateErrors.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	Frames       StatSummary
	Inputs       StatSummary
	Renders      StatSummary
	Updates      StatSummary
	Overruns     uint64
	InputDropped uint64
	UpdateErrors uint64
}

// AvgFPS returns the frame rate implied by the mean tick duration.
func (s MetricsSnapshot) AvgFPS() float64 {
	avg := s.Frames.Avg()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// OverrunRate returns the percentage of ticks that overran.
func (s MetricsSnapshot) OverrunRate() float64 {
	if s.Frames.Count == 0 {
		return 0
	}
	return float64(s.Overruns) / float64(s.Frames.Count) * 100
}
