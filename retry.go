package vqe

import (
	"context"
	"fmt"
	"math"
	"time"
)

/*
RetryPolicy decides how often the hardware path is tried within a single
evaluation before the evaluator gives up on it and falls back. The zero policy
tries once. MaxAttempts above 1 departs from the plain fallback, where any
hardware failure sends that evaluation to the simulator at once.

Filter, when set, separates transient failures from permanent ones: a failure
it rejects is not retried, so a misconfigured backend falls back straight away
while a dropped connection gets another chance.
*/
type RetryPolicy struct {
	MaxAttempts int
	Strategy    RetryStrategy
	Filter      func(error) bool
}

// RetryStrategy spaces out hardware attempts.
type RetryStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff doubles the delay after every failed attempt.
type ExponentialBackoff struct {
	Initial time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	return eb.Initial * time.Duration(math.Pow(2, float64(attempt-1)))
}

// WithHardwareRetry retries failed hardware attempts before falling back.
func WithHardwareRetry(policy RetryPolicy) EvaluatorOption {
	return func(e *Evaluator) {
		e.retry = policy
	}
}

/*
run calls fn until it succeeds, the filter rejects its failure, or the
attempts run out. A cancelled context ends the wait between attempts and is
reported as the failure.
*/
func (policy RetryPolicy) run(ctx context.Context, fn func() (float64, error)) Outcome {
	attempts := max(1, policy.MaxAttempts)

	var outcome Outcome
	tries := 0
	for tries < attempts {
		if tries > 0 && policy.Strategy != nil {
			select {
			case <-ctx.Done():
				return Failure(fmt.Errorf("hardware retry abandoned: %w", ctx.Err()))
			case <-time.After(policy.Strategy.NextDelay(tries)):
			}
		}

		outcome = attempt(fn)
		tries++

		if outcome.OK() {
			return outcome
		}
		if policy.Filter != nil && !policy.Filter(outcome.Err) {
			break
		}
	}

	if tries > 1 {
		outcome.Err = fmt.Errorf("hardware failed after %d attempts: %w", tries, outcome.Err)
	}
	return outcome
}
