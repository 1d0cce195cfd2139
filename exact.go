package vqe

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/*
ExactGroundEnergy returns the smallest eigenvalue of the Hamiltonian.

The complex Hermitian matrix H = A + iB is embedded into the real symmetric
matrix [[A, -B], [B, A]], which carries the spectrum of H with every
eigenvalue doubled, so a real symmetric eigensolver gives the exact minimum.
The cost is exponential in the qubit count; it belongs after the optimizer,
never inside the cost function.
*/
func ExactGroundEnergy(h *Hamiltonian) (float64, error) {
	if h == nil {
		return 0, ErrEmptyHamiltonian
	}

	m := h.Matrix()
	dim, _ := m.Dims()
	sym := mat.NewSymDense(2*dim, nil)

	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			v := m.At(i, j)
			re, im := real(v), imag(v)

			sym.SetSym(i, j, re)
			sym.SetSym(dim+i, dim+j, re)
			// Lower-left block B sits below the diagonal, upper-right holds -B.
			sym.SetSym(i, dim+j, -im)
			if i != j {
				sym.SetSym(j, dim+i, im)
			}
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return 0, fmt.Errorf("exact ground energy: eigendecomposition of %d-qubit hamiltonian failed", h.NumQubits())
	}

	values := eig.Values(nil)
	return values[0], nil
}
