package vqe

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func quadraticObjective(maxIter int, fn func(x []float64) float64) *objective {
	return &objective{
		maxIter: maxIter,
		fn: func(x []float64) (float64, error) {
			return fn(x), nil
		},
	}
}

func TestLinearApproxFit(t *testing.T) {
	approx := newLinearApprox()

	Convey("Given an axis-aligned simplex under a linear function", t, func() {
		simplex := []vertex{
			{x: []float64{0, 0}, f: 0},
			{x: []float64{1, 0}, f: 2},
			{x: []float64{0, 1}, f: -3},
		}

		model, ok := approx.fit(simplex, 1)
		So(ok, ShouldBeTrue)

		Convey("The model gradient should be exact", func() {
			So(model.best, ShouldEqual, 2)
			So(model.gradient[0], ShouldAlmostEqual, 2, 1e-9)
			So(model.gradient[1], ShouldAlmostEqual, -3, 1e-9)
		})

		Convey("The geometry should be acceptable", func() {
			So(model.drop, ShouldEqual, -1)
		})
	})

	Convey("Given a simplex flattened onto a line", t, func() {
		simplex := []vertex{
			{x: []float64{0, 0}, f: 0},
			{x: []float64{1, 0}, f: 1},
			{x: []float64{1, 0.01}, f: 1},
		}

		model, ok := approx.fit(simplex, 1)
		So(ok, ShouldBeTrue)

		Convey("A vertex should be marked for replacement", func() {
			So(model.drop, ShouldBeGreaterThanOrEqualTo, 0)
		})
	})

	Convey("Given a vertex that drifted far from the best one", t, func() {
		simplex := []vertex{
			{x: []float64{0, 0}, f: 0},
			{x: []float64{3, 0}, f: 1},
			{x: []float64{0, 1}, f: 1},
		}

		model, ok := approx.fit(simplex, 1)
		So(ok, ShouldBeTrue)

		Convey("The far vertex should be dropped first", func() {
			So(model.others[model.drop], ShouldEqual, 1)
		})
	})

	Convey("Given a collapsed simplex", t, func() {
		simplex := []vertex{
			{x: []float64{0, 0}, f: 0},
			{x: []float64{1, 1}, f: 1},
			{x: []float64{2, 2}, f: 2},
		}

		_, ok := approx.fit(simplex, 1)

		Convey("The model should be rejected", func() {
			So(ok, ShouldBeFalse)
		})
	})
}

func TestLinearApproxMinimize(t *testing.T) {
	approx := newLinearApprox()

	cases := []struct {
		name string
		x0   []float64
		want []float64
		fn   func(x []float64) float64
	}{
		{
			name: "a round bowl",
			x0:   []float64{3, -2, 0.5, 4},
			want: []float64{1, 1, 1, 1},
			fn: func(x []float64) float64 {
				var f float64
				for _, v := range x {
					f += (v - 1) * (v - 1)
				}
				return f
			},
		},
		{
			name: "a stretched bowl",
			x0:   []float64{2, 2, -2, 0},
			want: []float64{0, 0.5, 1, 1.5},
			fn: func(x []float64) float64 {
				var f float64
				for i, v := range x {
					d := v - 0.5*float64(i)
					f += float64(i+1) * d * d
				}
				return f
			},
		},
		{
			name: "a rotated valley",
			x0:   []float64{-3, 2},
			want: []float64{0.5, 0.5},
			fn: func(x []float64) float64 {
				return math.Pow(x[0]+x[1]-1, 2) + 10*math.Pow(x[0]-x[1], 2)
			},
		},
	}

	for _, tc := range cases {
		Convey("Given "+tc.name, t, func() {
			obj := quadraticObjective(500, tc.fn)
			err := approx.minimize(obj, tc.x0)

			Convey("It should converge on its own before the budget runs out", func() {
				So(err, ShouldBeNil)
				So(obj.calls, ShouldBeLessThan, 500)
			})

			Convey("It should end at the minimum", func() {
				So(obj.bestF, ShouldBeLessThan, 1e-5)
				for i, v := range obj.bestX {
					So(v, ShouldAlmostEqual, tc.want[i], 1e-2)
				}
			})
		})
	}

	Convey("Given a budget smaller than the first simplex", t, func() {
		obj := quadraticObjective(3, func(x []float64) float64 { return x[0] * x[0] })
		err := approx.minimize(obj, []float64{1, 2, 3})

		Convey("It should stop at the cap", func() {
			So(err, ShouldEqual, errBudgetExhausted)
			So(obj.calls, ShouldEqual, 3)
		})
	})
}
