package paperkit

import (
	"sync"
	"time"
)

// DecisionMetrics provides permission decision throughput and latency
// statistics. Useful for spotting a cold or thrashing role cache: grants
// and denials are both normal outcomes, but a rising average duration means
// roles are being recomputed too often.
type DecisionMetrics struct {
	TotalDecisions  int64         `json:"total_decisions"`
	Granted         int64         `json:"granted"`
	Denied          int64         `json:"denied"`
	BulkBatches     int64         `json:"bulk_batches"`
	BulkRequests    int64         `json:"bulk_requests"`
	AverageDuration time.Duration `json:"average_duration"`
	MaxDuration     time.Duration `json:"max_duration"`
	LastReset       time.Time     `json:"last_reset"`
}

// decisionMonitor holds the internal decision monitoring state.
type decisionMonitor struct {
	mu            sync.Mutex
	totalCount    int64
	grantedCount  int64
	deniedCount   int64
	bulkBatches   int64
	bulkRequests  int64
	totalDuration time.Duration
	maxDuration   time.Duration
	lastReset     time.Time
}

func newDecisionMonitor() *decisionMonitor {
	return &decisionMonitor{lastReset: time.Now()}
}

func (m *decisionMonitor) recordDecision(duration time.Duration, granted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCount++
	m.totalDuration += duration
	if duration > m.maxDuration {
		m.maxDuration = duration
	}
	if granted {
		m.grantedCount++
	} else {
		m.deniedCount++
	}
}

func (m *decisionMonitor) recordBulk(duration time.Duration, requests int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bulkBatches++
	m.bulkRequests += int64(requests)
	m.totalDuration += duration
	if duration > m.maxDuration {
		m.maxDuration = duration
	}
}

func (m *decisionMonitor) getMetrics() DecisionMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	var avg time.Duration
	if ops := m.totalCount + m.bulkBatches; ops > 0 {
		avg = m.totalDuration / time.Duration(ops)
	}

	return DecisionMetrics{
		TotalDecisions:  m.totalCount,
		Granted:         m.grantedCount,
		Denied:          m.deniedCount,
		BulkBatches:     m.bulkBatches,
		BulkRequests:    m.bulkRequests,
		AverageDuration: avg,
		MaxDuration:     m.maxDuration,
		LastReset:       m.lastReset,
	}
}

func (m *decisionMonitor) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCount = 0
	m.grantedCount = 0
	m.deniedCount = 0
	m.bulkBatches = 0
	m.bulkRequests = 0
	m.totalDuration = 0
	m.maxDuration = 0
	m.lastReset = time.Now()
}
