package vqe

import (
	"fmt"
	"math"
)

/*
Outcome is the result of one attempt on an evaluation path: either a value or
the reason the path failed. It replaces exception-style control flow in the
fallback chain.
*/
type Outcome struct {
	Value float64
	Err   error
}

func Success(value float64) Outcome { return Outcome{Value: value} }

func Failure(err error) Outcome { return Outcome{Err: err} }

func (o Outcome) OK() bool { return o.Err == nil }

/*
attempt runs fn and folds every way it can go wrong into a Failure. A panic
counts, and so does a value that is not finite.
*/
func attempt(fn func() (float64, error)) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failure(fmt.Errorf("backend panicked: %v", r))
		}
	}()

	value, err := fn()
	if err != nil {
		return Failure(err)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Failure(fmt.Errorf("%w: %v", ErrNonFiniteEnergy, value))
	}

	return Success(value)
}
