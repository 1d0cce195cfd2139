package vqe

import (
	"context"
)

/*
Backend is the hardware handle handed to a run. It estimates the expectation
value of a Hamiltonian on the state prepared by a bound circuit. Queueing and
timeouts are its own business; the evaluator only sees a value or an error.

A Backend is shared read-only by every evaluation of a run.
*/
type Backend interface {
	Name() string
	Estimate(ctx context.Context, circuit *Circuit, h *Hamiltonian) (float64, error)
}

// BackendFunc adapts a plain function into a Backend.
type BackendFunc struct {
	Label string
	Fn    func(ctx context.Context, circuit *Circuit, h *Hamiltonian) (float64, error)
}

func (b BackendFunc) Name() string { return b.Label }

func (b BackendFunc) Estimate(ctx context.Context, circuit *Circuit, h *Hamiltonian) (float64, error) {
	return b.Fn(ctx, circuit, h)
}

/*
Simulator is the local exact state-vector backend. It is deterministic and is
the path every evaluation falls back to.
*/
type Simulator struct{}

func (Simulator) Name() string { return "statevector-simulator" }

func (Simulator) Estimate(_ context.Context, circuit *Circuit, h *Hamiltonian) (float64, error) {
	state := NewQuantumState(circuit.NumQubits)
	if err := state.Run(circuit); err != nil {
		return 0, err
	}
	return state.Expectation(h)
}
