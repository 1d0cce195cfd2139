package vqe

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// nelderMead delegates to gonum's downhill simplex implementation.
type nelderMead struct{}

func (nelderMead) minimize(obj *objective, x0 []float64) error {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			f, err := obj.eval(x)
			if err != nil {
				// The failure is kept on obj; the simplex sees a point it will
				// never prefer while gonum's own evaluation cap winds it down.
				return math.Inf(1)
			}
			return f
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: obj.maxIter,
	}

	method := &optimize.NelderMead{
		SimplexSize: 1.0,
	}

	_, err := optimize.Minimize(problem, x0, settings, method)
	if obj.err != nil {
		return obj.err
	}
	if err != nil && obj.bestX != nil {
		// gonum reports some terminations as errors; the best point seen is
		// still a valid answer.
		return nil
	}
	return err
}
