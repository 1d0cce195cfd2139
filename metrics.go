package vqe

import (
	"sort"
	"sync"
	"time"
)

/*
Metrics summarises how the evaluations of one run were served. Each run gets
its own instance; regulators observe it.
*/
type Metrics struct {
	mu sync.RWMutex

	Evaluations          int64
	HardwareAttempts     int64
	HardwareSuccesses    int64
	HardwareFailures     int64
	RegulatedSkips       int64
	SimulatorEvaluations int64
	TotalEvaluationTime  time.Duration

	AverageLatency time.Duration
	P95Latency     time.Duration
	P99Latency     time.Duration

	latencies  []time.Duration
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 256),
		windowSize: 1000,
	}
}

func (m *Metrics) recordEvaluation(ev Evaluation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Evaluations++
	m.TotalEvaluationTime += ev.Elapsed

	switch {
	case ev.Source == SourceHardware:
		m.HardwareAttempts++
		m.HardwareSuccesses++
	case ev.Regulated:
		m.RegulatedSkips++
		m.SimulatorEvaluations++
	case ev.HardwareErr != nil:
		m.HardwareAttempts++
		m.HardwareFailures++
		m.SimulatorEvaluations++
	default:
		m.SimulatorEvaluations++
	}

	m.updateLatencyPercentiles(ev.Elapsed)
}

// updateLatencyPercentiles assumes the caller holds the lock.
func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageLatency = m.TotalEvaluationTime / time.Duration(m.Evaluations)

	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[1:]
	}

	sorted := append([]time.Duration(nil), m.latencies...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	p95Index := min(int(float64(len(sorted))*0.95), len(sorted)-1)
	p99Index := min(int(float64(len(sorted))*0.99), len(sorted)-1)

	m.P95Latency = sorted[p95Index]
	m.P99Latency = sorted[p99Index]
}

// HardwareFailureRate is the share of hardware attempts that failed.
func (m *Metrics) HardwareFailureRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.HardwareAttempts == 0 {
		return 0
	}
	return float64(m.HardwareFailures) / float64(m.HardwareAttempts)
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"evaluations":           m.Evaluations,
		"hardware_attempts":     m.HardwareAttempts,
		"hardware_successes":    m.HardwareSuccesses,
		"hardware_failures":     m.HardwareFailures,
		"regulated_skips":       m.RegulatedSkips,
		"simulator_evaluations": m.SimulatorEvaluations,
		"avg_latency":           m.AverageLatency.Milliseconds(),
		"p95_latency":           m.P95Latency.Milliseconds(),
		"p99_latency":           m.P99Latency.Milliseconds(),
	}
}
