package session

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/docedit/internal/ops"
)

// Metrics collects execution statistics per operation kind.
type Metrics struct {
	mu sync.RWMutex

	kinds map[ops.Kind]*KindMetrics

	totalExecuted uint64
	totalErrors   uint64
	totalPanics   uint64
	totalDuration time.Duration
}

// KindMetrics holds the statistics of one operation kind.
type KindMetrics struct {
	Kind          ops.Kind
	Count         uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastExecuted  time.Time
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{kinds: make(map[ops.Kind]*KindMetrics)}
}

// Record records one execution.
func (m *Metrics) Record(kind ops.Kind, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalExecuted++
	m.totalDuration += duration
	if err != nil {
		m.totalErrors++
	}

	km := m.kinds[kind]
	if km == nil {
		km = &KindMetrics{Kind: kind}
		m.kinds[kind] = km
	}
	km.Count++
	km.TotalDuration += duration
	km.LastExecuted = time.Now()
	if duration > km.MaxDuration {
		km.MaxDuration = duration
	}
	if err != nil {
		km.ErrorCount++
	}
}

// RecordPanic records a recovered panic.
func (m *Metrics) RecordPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// TotalExecuted returns the number of executed operations.
func (m *Metrics) TotalExecuted() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalExecuted
}

// TotalErrors returns the number of failed operations.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// AverageDuration returns the mean execution time.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.totalExecuted == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalExecuted)
}

// KindStats returns a copy of the statistics of kind, or nil.
func (m *Metrics) KindStats(kind ops.Kind) *KindMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	km := m.kinds[kind]
	if km == nil {
		return nil
	}
	c := *km
	return &c
}

// TopKinds returns the n most executed kinds.
func (m *Metrics) TopKinds(n int) []*KindMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*KindMetrics, 0, len(m.kinds))
	for _, km := range m.kinds {
		c := *km
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out[:min(n, len(out))]
}
