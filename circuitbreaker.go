package vqe

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

/*
CircuitState represents the state of the circuit breaker.
*/
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // hardware attempted on every call
	CircuitOpen                         // hardware skipped, simulator only
	CircuitHalfOpen                     // limited trial calls to the hardware
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

/*
CircuitBreaker stops a run from paying the latency of a hardware backend that
keeps failing. After maxFailures consecutive hardware failures it opens and
every evaluation goes to the simulator; once resetTimeout has passed it lets
up to halfOpenMax trial calls through, closing again when they succeed.

The breaker is opt-in. Without it every evaluation attempts the hardware, even
after a failure on the previous call.
*/
type CircuitBreaker struct {
	mu               sync.RWMutex
	maxFailures      int           // Consecutive failures before opening
	resetTimeout     time.Duration // Time to wait before retrying
	halfOpenMax      int           // Trial calls allowed in half-open state
	failureCount     int
	state            CircuitState
	openTime         time.Time
	halfOpenAttempts int
	metrics          *Metrics
	logger           *log.Logger
}

/*
NewCircuitBreaker creates a closed circuit breaker.

Parameters:
  - maxFailures: Number of consecutive hardware failures before opening
  - resetTimeout: Duration to wait before retrying an open circuit
  - halfOpenMax: Number of successful trial calls needed to close again

Returns:
  - *CircuitBreaker: A new circuit breaker in closed state
*/
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, halfOpenMax int) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  max(1, maxFailures),
		resetTimeout: resetTimeout,
		halfOpenMax:  max(1, halfOpenMax),
		state:        CircuitClosed,
		logger:       defaultLogger(),
	}
}

// Observe keeps the run's metrics so the breaker can report the failure rate when it opens.
func (cb *CircuitBreaker) Observe(metrics *Metrics) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.metrics = metrics
}

// failureRate assumes the caller holds the mutex.
func (cb *CircuitBreaker) failureRate() float64 {
	if cb.metrics == nil {
		return 0
	}
	return cb.metrics.HardwareFailureRate()
}

func (cb *CircuitBreaker) Limit() bool {
	return !cb.Allow()
}

/*
Renormalize moves an open circuit to half-open once the reset timeout has
elapsed.
*/
func (cb *CircuitBreaker) Renormalize() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && time.Since(cb.openTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
		cb.halfOpenAttempts = 0
		cb.logger.Info("circuit breaker half-open, trying hardware again")
	}
}

// RecordFailure counts a failed hardware attempt.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++

	switch cb.state {
	case CircuitHalfOpen:
		// A failed trial call reopens immediately.
		cb.state = CircuitOpen
		cb.openTime = time.Now()
		cb.logger.Warn("circuit breaker reopened from half-open state", "failure_rate", cb.failureRate())
	case CircuitClosed:
		if cb.failureCount >= cb.maxFailures {
			cb.state = CircuitOpen
			cb.openTime = time.Now()
			cb.logger.Warn("circuit breaker opened", "failures", cb.failureCount, "failure_rate", cb.failureRate())
		}
	}
}

// RecordSuccess counts a successful hardware attempt.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitHalfOpen:
		cb.halfOpenAttempts++
		if cb.halfOpenAttempts >= cb.halfOpenMax {
			cb.state = CircuitClosed
			cb.failureCount = 0
			cb.halfOpenAttempts = 0
			cb.logger.Info("circuit breaker closed from half-open")
		}
	case CircuitClosed:
		cb.failureCount = 0
	}
}

// Allow reports whether a hardware attempt may go ahead.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.openTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			cb.halfOpenAttempts = 0
			return true
		}
		return false
	case CircuitHalfOpen:
		return cb.halfOpenAttempts < cb.halfOpenMax
	default:
		return false
	}
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}
