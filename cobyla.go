package vqe

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
linearApprox is the unconstrained form of Powell's COBYLA. It keeps a simplex
of n+1 evaluated points, interpolates a linear model through them and steps a
distance rho from the best vertex against the model gradient.

Steps that deliver at least a tenth of the predicted decrease follow one
another directly. After a poor step the simplex geometry is checked first: a
vertex that drifted more than beta*rho from the best one, or sits closer than
alpha*rho to the face opposite it, is replaced by a point along the direction
the simplex is missing. Only a poor step from an acceptable simplex halves rho.
It stops once rho reaches rhoEnd or the budget runs out.
*/
type linearApprox struct {
	rhoBegin float64
	rhoEnd   float64
	alpha    float64
	beta     float64
}

func newLinearApprox() linearApprox {
	return linearApprox{rhoBegin: 1.0, rhoEnd: 1e-4, alpha: 0.25, beta: 1.5}
}

type vertex struct {
	x []float64
	f float64
}

func (l linearApprox) minimize(obj *objective, x0 []float64) error {
	n := len(x0)
	rho := l.rhoBegin

	f0, err := obj.eval(x0)
	if err != nil {
		return err
	}

	if n == 0 {
		return nil
	}

	simplex, err := l.rebuild(obj, vertex{x: append([]float64(nil), x0...), f: f0}, rho)
	if err != nil {
		return err
	}

	stepped := false

	for rho > l.rhoEnd {
		model, ok := l.fit(simplex, rho)
		if !ok {
			stepped = false
			if simplex, err = l.rebuild(obj, simplex[bestVertex(simplex)], rho); err != nil {
				return err
			}
			continue
		}

		if model.drop >= 0 && !stepped {
			if err := l.improve(obj, simplex, model, rho); err != nil {
				return err
			}
			continue
		}
		stepped = false

		best := simplex[model.best]
		norm := floats.Norm(model.gradient, 2)
		if norm < 1e-12 {
			if model.drop < 0 {
				rho = l.reduce(rho)
			}
			continue
		}

		trial := append([]float64(nil), best.x...)
		floats.AddScaled(trial, -rho/norm, model.gradient)

		ft, err := obj.eval(trial)
		if err != nil {
			return err
		}

		if ft < best.f {
			simplex[model.others[model.replacement(trial, best.x, rho)]] = vertex{x: trial, f: ft}
		}

		if best.f-ft >= 0.1*rho*norm {
			stepped = true
			continue
		}

		if model.drop >= 0 {
			continue
		}

		rho = l.reduce(rho)
	}

	return nil
}

func (l linearApprox) reduce(rho float64) float64 {
	rho /= 2
	if rho <= 1.5*l.rhoEnd {
		return l.rhoEnd
	}
	return rho
}

// rebuild lays a fresh axis-aligned simplex of size rho around center.
func (l linearApprox) rebuild(obj *objective, center vertex, rho float64) ([]vertex, error) {
	n := len(center.x)
	simplex := make([]vertex, 0, n+1)
	simplex = append(simplex, center)

	for i := 0; i < n; i++ {
		x := append([]float64(nil), center.x...)
		x[i] += rho

		f, err := obj.eval(x)
		if err != nil {
			return simplex, err
		}
		simplex = append(simplex, vertex{x: x, f: f})
	}

	return simplex, nil
}

// improve replaces the vertex spoiling the geometry with one rho away from the best vertex.
func (l linearApprox) improve(obj *objective, simplex []vertex, model simplexModel, rho float64) error {
	direction := mat.Col(nil, model.drop, model.inverse)
	floats.Scale(rho/floats.Norm(direction, 2), direction)

	if floats.Dot(direction, model.gradient) > 0 {
		floats.Scale(-1, direction)
	}

	x := append([]float64(nil), simplex[model.best].x...)
	floats.Add(x, direction)

	f, err := obj.eval(x)
	if err != nil {
		return err
	}

	simplex[model.others[model.drop]] = vertex{x: x, f: f}
	return nil
}

/*
simplexModel is the linear interpolation through a simplex. Row j of the
displacement matrix D is vertex others[j] minus the best vertex, so column j of
inverse is normal to the face opposite that vertex, and 1/|column j| is the
vertex's distance from it.
*/
type simplexModel struct {
	best     int
	others   []int
	inverse  *mat.Dense
	gradient []float64
	eta      []float64
	drop     int
}

/*
fit solves D g = df for the model gradient and picks the row to drop when the
geometry is unacceptable, or -1. ok is false when the simplex has degenerated
and the system cannot be trusted.
*/
func (l linearApprox) fit(simplex []vertex, rho float64) (simplexModel, bool) {
	best := bestVertex(simplex)
	n := len(simplex[best].x)
	if len(simplex) != n+1 {
		return simplexModel{}, false
	}

	d := mat.NewDense(n, n, nil)
	df := mat.NewVecDense(n, nil)
	model := simplexModel{best: best, others: make([]int, 0, n), eta: make([]float64, n), drop: -1}

	for i, v := range simplex {
		if i == best {
			continue
		}

		row := len(model.others)
		for k := 0; k < n; k++ {
			d.Set(row, k, v.x[k]-simplex[best].x[k])
		}
		df.SetVec(row, v.f-simplex[best].f)
		model.eta[row] = floats.Distance(v.x, simplex[best].x, 2)
		model.others = append(model.others, i)
	}

	var inverse mat.Dense
	if err := inverse.Inverse(d); err != nil {
		return simplexModel{}, false
	}
	model.inverse = &inverse

	var g mat.VecDense
	g.MulVec(&inverse, df)

	model.gradient = make([]float64, n)
	for k := range model.gradient {
		v := g.AtVec(k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return simplexModel{}, false
		}
		model.gradient[k] = v
	}

	sigma := make([]float64, n)
	for j := range sigma {
		sigma[j] = 1 / floats.Norm(mat.Col(nil, j, &inverse), 2)
	}

	if far := floats.MaxIdx(model.eta); model.eta[far] > l.beta*rho {
		model.drop = far
	} else if thin := floats.MinIdx(sigma); sigma[thin] < l.alpha*rho {
		model.drop = thin
	}

	return model, true
}

/*
replacement picks the row a new best point should take over: the one whose
removal keeps the most simplex volume, with far vertices weighted up so they
are dropped first.
*/
func (m simplexModel) replacement(trial, best []float64, rho float64) int {
	step := make([]float64, len(trial))
	floats.SubTo(step, trial, best)

	row, weight := 0, -1.0
	for j := range m.others {
		w := math.Abs(floats.Dot(mat.Col(nil, j, m.inverse), step)) * math.Max(1, math.Pow(m.eta[j]/rho, 2))
		if w > weight {
			row, weight = j, w
		}
	}

	return row
}

func bestVertex(simplex []vertex) int {
	best := 0
	for i, v := range simplex {
		if v.f < simplex[best].f {
			best = i
		}
	}
	return best
}
