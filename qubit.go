package vqe

import (
	"math"
	"math/cmplx"
)

/*
unitary2 is a single-qubit gate acting on the (|0>, |1>) amplitude pair of one
qubit.
*/
type unitary2 [2][2]complex128

// RY(θ) = [[cos θ/2, -sin θ/2], [sin θ/2, cos θ/2]]
func ryMatrix(theta float64) unitary2 {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return unitary2{
		{complex(c, 0), complex(-s, 0)},
		{complex(s, 0), complex(c, 0)},
	}
}

// RZ(θ) = diag(e^{-iθ/2}, e^{iθ/2})
func rzMatrix(theta float64) unitary2 {
	return unitary2{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

func (u unitary2) apply(alpha, beta complex128) (complex128, complex128) {
	return u[0][0]*alpha + u[0][1]*beta, u[1][0]*alpha + u[1][1]*beta
}
