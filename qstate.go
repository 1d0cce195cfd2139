package vqe

import (
	"fmt"
	"math"
	"math/cmplx"
)

/*
QuantumState is the full state vector of an n-qubit register. Bit q of an
amplitude's index is the state of qubit q.
*/
type QuantumState struct {
	Vector    []complex128
	numQubits int
}

// NewQuantumState returns the register prepared in |0...0>.
func NewQuantumState(numQubits int) *QuantumState {
	vector := make([]complex128, 1<<numQubits)
	vector[0] = 1
	return &QuantumState{Vector: vector, numQubits: numQubits}
}

func (qs *QuantumState) NumQubits() int { return qs.numQubits }

func (qs *QuantumState) applySingle(q int, u unitary2) {
	bit := 1 << q
	for i := range qs.Vector {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		qs.Vector[i], qs.Vector[j] = u.apply(qs.Vector[i], qs.Vector[j])
	}
}

func (qs *QuantumState) applyCX(control, target int) {
	cbit, tbit := 1<<control, 1<<target
	for i := range qs.Vector {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			qs.Vector[i], qs.Vector[j] = qs.Vector[j], qs.Vector[i]
		}
	}
}

// Run applies every gate of the circuit in order.
func (qs *QuantumState) Run(circuit *Circuit) error {
	if circuit.NumQubits != qs.numQubits {
		return fmt.Errorf("%w: circuit has %d qubits, state has %d",
			ErrDimensionMismatch, circuit.NumQubits, qs.numQubits)
	}

	for i, gate := range circuit.Gates {
		for _, q := range gate.Qubits {
			if q < 0 || q >= qs.numQubits {
				return fmt.Errorf("gate %d (%s): qubit %d out of range", i, gate.Name, q)
			}
		}

		switch gate.Name {
		case "RY", "RZ":
			if len(gate.Params) != 1 || len(gate.Qubits) != 1 {
				return fmt.Errorf("gate %d (%s): needs one qubit and one angle", i, gate.Name)
			}
			u := ryMatrix(gate.Params[0])
			if gate.Name == "RZ" {
				u = rzMatrix(gate.Params[0])
			}
			qs.applySingle(gate.Qubits[0], u)
		case "CX":
			if len(gate.Qubits) != 2 || gate.Qubits[0] == gate.Qubits[1] {
				return fmt.Errorf("gate %d (CX): needs two distinct qubits", i)
			}
			qs.applyCX(gate.Qubits[0], gate.Qubits[1])
		default:
			return fmt.Errorf("gate %d: unsupported gate %q", i, gate.Name)
		}
	}

	return nil
}

/*
Expectation returns <psi|H|psi>. Each Pauli term is applied basis state by
basis state, which never materialises the 2^n x 2^n operator. The imaginary
part vanishes for a Hermitian H and is dropped.
*/
func (qs *QuantumState) Expectation(h *Hamiltonian) (float64, error) {
	if h.NumQubits() != qs.numQubits {
		return 0, fmt.Errorf("%w: hamiltonian has %d qubits, state has %d",
			ErrDimensionMismatch, h.NumQubits(), qs.numQubits)
	}

	var energy float64
	for _, term := range h.terms {
		op := compilePauli(term.Pauli)

		var acc complex128
		for i, amp := range qs.Vector {
			if amp == 0 {
				continue
			}
			j, phase := op.apply(i)
			acc += cmplx.Conj(qs.Vector[j]) * phase * amp
		}

		energy += term.Coeff * real(acc)
	}

	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0, ErrNonFiniteEnergy
	}

	return energy, nil
}

// Probabilities returns |amplitude|^2 for every basis state.
func (qs *QuantumState) Probabilities() []float64 {
	probs := make([]float64, len(qs.Vector))
	for i, amp := range qs.Vector {
		probs[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	return probs
}
