package vqe

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	. "github.com/smartystreets/goconvey/convey"
)

func newQuietBreaker(maxFailures int, resetTimeout time.Duration, halfOpenMax int) *CircuitBreaker {
	breaker := NewCircuitBreaker(maxFailures, resetTimeout, halfOpenMax)
	breaker.logger = quietLogger()
	return breaker
}

func TestCircuitBreakerInterface(t *testing.T) {
	Convey("Given a circuit breaker implementing Regulator interface", t, func() {
		breaker := newQuietBreaker(2, 100*time.Millisecond, 1)

		Convey("It should implement Regulator interface", func() {
			var _ Regulator = breaker
			var _ outcomeRecorder = breaker

			breaker.Observe(NewMetrics())
			So(breaker.Limit(), ShouldBeFalse)
		})
	})
}

func TestCircuitBreakerFailureRate(t *testing.T) {
	Convey("Given a breaker observing a run with failing hardware", t, func() {
		var buf bytes.Buffer
		breaker := NewCircuitBreaker(2, time.Hour, 1)
		breaker.logger = log.New(&buf)

		metrics := NewMetrics()
		offline := errors.New("backend offline")
		for range 3 {
			metrics.recordEvaluation(Evaluation{Source: SourceSimulator, HardwareErr: offline})
		}
		metrics.recordEvaluation(Evaluation{Source: SourceHardware})
		breaker.Observe(metrics)

		Convey("Opening should report the run's hardware failure rate", func() {
			breaker.RecordFailure()
			breaker.RecordFailure()

			So(breaker.State(), ShouldEqual, CircuitOpen)
			So(buf.String(), ShouldContainSubstring, "circuit breaker opened")
			So(buf.String(), ShouldContainSubstring, "failure_rate=0.75")
		})
	})

	Convey("Given a breaker with no metrics", t, func() {
		breaker := newQuietBreaker(1, time.Hour, 1)

		Convey("Opening should still work", func() {
			So(breaker.failureRate(), ShouldEqual, 0)
			breaker.RecordFailure()
			So(breaker.State(), ShouldEqual, CircuitOpen)
		})
	})
}

func TestCircuitBreakerFailureThreshold(t *testing.T) {
	Convey("Given a circuit breaker with failure threshold", t, func() {
		breaker := newQuietBreaker(2, 100*time.Millisecond, 1)

		Convey("It should start closed", func() {
			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(breaker.State().String(), ShouldEqual, "closed")
		})

		Convey("It should open after max failures", func() {
			breaker.RecordFailure()
			So(breaker.Allow(), ShouldBeTrue)

			breaker.RecordFailure()
			So(breaker.Allow(), ShouldBeFalse)
			So(breaker.State(), ShouldEqual, CircuitOpen)

			time.Sleep(150 * time.Millisecond)

			So(breaker.Allow(), ShouldBeTrue)
			So(breaker.State(), ShouldEqual, CircuitHalfOpen)
		})
	})
}

func TestCircuitBreakerHalfOpen(t *testing.T) {
	Convey("Given a circuit breaker in half-open state", t, func() {
		breaker := newQuietBreaker(2, 100*time.Millisecond, 1)
		breaker.RecordFailure()
		breaker.RecordFailure()
		time.Sleep(150 * time.Millisecond)
		breaker.Renormalize()

		So(breaker.State(), ShouldEqual, CircuitHalfOpen)
		So(breaker.halfOpenAttempts, ShouldEqual, 0)

		Convey("It should close after a successful trial call", func() {
			breaker.RecordSuccess()
			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(breaker.failureCount, ShouldEqual, 0)
		})

		Convey("It should reopen after a failed trial call", func() {
			breaker.RecordFailure()
			So(breaker.State(), ShouldEqual, CircuitOpen)
			So(breaker.Limit(), ShouldBeTrue)
		})
	})
}

func TestCircuitBreakerSuccessReset(t *testing.T) {
	Convey("Given a circuit breaker in closed state", t, func() {
		breaker := newQuietBreaker(2, 100*time.Millisecond, 1)

		Convey("It should reset failure count on success", func() {
			breaker.RecordFailure()
			breaker.RecordSuccess()
			breaker.RecordFailure()

			So(breaker.Allow(), ShouldBeTrue)
			So(breaker.State(), ShouldEqual, CircuitClosed)
			So(breaker.failureCount, ShouldEqual, 1)
		})
	})
}
