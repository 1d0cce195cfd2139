package vqe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

/*
Telemetry exports evaluation counters and latencies to Prometheus. It is
registered against the caller's registerer so several runs, or tests, never
collide on the default registry.
*/
type Telemetry struct {
	evaluations *prometheus.CounterVec
	fallbacks   prometheus.Counter
	duration    *prometheus.HistogramVec
	finalError  prometheus.Gauge
}

func NewTelemetry(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)

	return &Telemetry{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vqe_evaluations_total",
			Help: "Cost evaluations by the path that served them",
		}, []string{"source"}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "vqe_hardware_fallbacks_total",
			Help: "Evaluations that fell back from hardware to the simulator",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vqe_evaluation_duration_seconds",
			Help:    "Cost evaluation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12), // 10us to ~40s
		}, []string{"source"}),
		finalError: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vqe_final_error",
			Help: "Absolute error of the last finished run against the exact ground energy",
		}),
	}
}

func (t *Telemetry) observe(ev Evaluation) {
	if t == nil {
		return
	}

	source := ev.Source.String()
	t.evaluations.WithLabelValues(source).Inc()
	t.duration.WithLabelValues(source).Observe(ev.Elapsed.Seconds())

	if ev.Fallback() {
		t.fallbacks.Inc()
	}
}

func (t *Telemetry) observeError(err float64) {
	if t == nil {
		return
	}
	t.finalError.Set(err)
}
