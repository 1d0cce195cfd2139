package vqe

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"gonum.org/v1/gonum/mat"
)

/*
PauliTerm is a single weighted tensor product of single-qubit Pauli operators.
The leftmost character of Pauli acts on the highest qubit, the rightmost on
qubit 0.
*/
type PauliTerm struct {
	Pauli string  `json:"pauli" mapstructure:"pauli"`
	Coeff float64 `json:"coeff" mapstructure:"coeff"`
}

/*
Hamiltonian is an immutable weighted sum of Pauli terms over a fixed number
of qubits. It is built once and shared by reference with every component of a
run, so none of its methods hand out its internal slices.
*/
type Hamiltonian struct {
	terms     []PauliTerm
	numQubits int
}

/*
NewHamiltonian validates the terms and returns the operator they describe.

Every Pauli string must be non-empty, only use the letters I, X, Y and Z, and
have the same length as all the others. Coefficients must be finite.
*/
func NewHamiltonian(terms ...PauliTerm) (*Hamiltonian, error) {
	if len(terms) == 0 {
		return nil, ErrEmptyHamiltonian
	}

	numQubits := len(terms[0].Pauli)
	owned := make([]PauliTerm, 0, len(terms))

	for i, term := range terms {
		pauli := strings.ToUpper(term.Pauli)

		if len(pauli) == 0 {
			return nil, fmt.Errorf("term %d: %w: empty pauli string", i, ErrMalformedPauli)
		}

		if len(pauli) != numQubits {
			return nil, fmt.Errorf(
				"term %d: %w: %q has %d qubits, expected %d",
				i, ErrMalformedPauli, term.Pauli, len(pauli), numQubits,
			)
		}

		if idx := strings.IndexFunc(pauli, func(r rune) bool {
			return !strings.ContainsRune("IXYZ", r)
		}); idx >= 0 {
			return nil, fmt.Errorf(
				"term %d: %w: invalid operator %q in %q",
				i, ErrMalformedPauli, pauli[idx], term.Pauli,
			)
		}

		if math.IsNaN(term.Coeff) || math.IsInf(term.Coeff, 0) {
			return nil, fmt.Errorf("term %d: %w: coefficient %v", i, ErrMalformedPauli, term.Coeff)
		}

		owned = append(owned, PauliTerm{Pauli: pauli, Coeff: term.Coeff})
	}

	return &Hamiltonian{terms: owned, numQubits: numQubits}, nil
}

// DefaultHamiltonian is the two-qubit transverse-field Ising model ZZ + 0.5 XI + 0.5 IX.
func DefaultHamiltonian() *Hamiltonian {
	h, _ := NewHamiltonian(
		PauliTerm{Pauli: "ZZ", Coeff: 1.0},
		PauliTerm{Pauli: "XI", Coeff: 0.5},
		PauliTerm{Pauli: "IX", Coeff: 0.5},
	)
	return h
}

func (h *Hamiltonian) NumQubits() int { return h.numQubits }

// Terms returns a copy of the weighted Pauli terms in construction order.
func (h *Hamiltonian) Terms() []PauliTerm {
	out := make([]PauliTerm, len(h.terms))
	copy(out, h.terms)
	return out
}

func (h *Hamiltonian) String() string {
	parts := make([]string, len(h.terms))
	for i, term := range h.terms {
		parts[i] = fmt.Sprintf("%+g*%s", term.Coeff, term.Pauli)
	}
	return strings.Join(parts, " ")
}

/*
Matrix builds the full 2^n x 2^n complex matrix of the operator in the
computational basis, where bit q of a basis index is the state of qubit q.
It is exponential in the qubit count and only meant for validation.
*/
func (h *Hamiltonian) Matrix() *mat.CDense {
	dim := 1 << h.numQubits
	m := mat.NewCDense(dim, dim, nil)

	for _, term := range h.terms {
		op := compilePauli(term.Pauli)
		for col := 0; col < dim; col++ {
			row, phase := op.apply(col)
			m.Set(row, col, m.At(row, col)+complex(term.Coeff, 0)*phase)
		}
	}

	return m
}

/*
pauliOp is a Pauli string compiled into bit masks: the qubits it flips (X, Y)
and the qubits that contribute a phase (Y, Z).
*/
type pauliOp struct {
	flip  int
	zMask int
	yMask int
}

func compilePauli(pauli string) pauliOp {
	var op pauliOp
	n := len(pauli)

	for k := 0; k < n; k++ {
		bit := 1 << (n - 1 - k)
		switch pauli[k] {
		case 'X':
			op.flip |= bit
		case 'Y':
			op.flip |= bit
			op.yMask |= bit
		case 'Z':
			op.zMask |= bit
		}
	}

	return op
}

/*
apply maps basis state |index> to phase * |target>. Z contributes (-1)^bit,
Y contributes i for a 0 bit and -i for a 1 bit.
*/
func (op pauliOp) apply(index int) (target int, phase complex128) {
	phase = 1

	if bits.OnesCount(uint(index&op.zMask))%2 == 1 {
		phase = -phase
	}

	for mask := op.yMask; mask != 0; mask &= mask - 1 {
		bit := mask & -mask
		if index&bit == 0 {
			phase *= 1i
		} else {
			phase *= -1i
		}
	}

	return index ^ op.flip, phase
}
