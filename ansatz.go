package vqe

import "fmt"

// GateKind names the operations an ansatz is made of.
type GateKind int

const (
	GateRY GateKind = iota
	GateRZ
	GateCX
)

func (kind GateKind) String() string {
	switch kind {
	case GateRY:
		return "RY"
	case GateRZ:
		return "RZ"
	case GateCX:
		return "CX"
	default:
		return fmt.Sprintf("GateKind(%d)", int(kind))
	}
}

/*
Operation is one step of the ansatz layout. Rotations read their angle from
parameter slot Slot; entangling gates are fixed and carry Slot -1. For CX the
first qubit is the control.
*/
type Operation struct {
	Gate   GateKind
	Qubits []int
	Slot   int
}

/*
Ansatz is the hardware-efficient layered circuit layout. It is built once per
(Hamiltonian, depth) pair and shared read-only across every evaluation of a
run.
*/
type Ansatz struct {
	numQubits  int
	depth      int
	paramCount int
	ops        []Operation
}

/*
BuildAnsatz lays out depth layers over n qubits. Each layer rotates every
qubit about Y then Z, taking two fresh parameter slots per qubit in qubit
order, and then entangles neighbours with a CX chain 0->1, 1->2, ...

It returns the layout and its parameter count, n*depth*2. Both arguments must
be positive; BuildAnsatz panics otherwise, so callers validate configuration
before reaching it.
*/
func BuildAnsatz(n, depth int) (*Ansatz, int) {
	if n <= 0 || depth <= 0 {
		panic(fmt.Sprintf("vqe: BuildAnsatz needs positive qubits and depth, got %d and %d", n, depth))
	}

	paramCount := n * depth * 2
	ops := make([]Operation, 0, depth*(2*n+n-1))
	slot := 0

	for layer := 0; layer < depth; layer++ {
		for q := 0; q < n; q++ {
			ops = append(ops,
				Operation{Gate: GateRY, Qubits: []int{q}, Slot: slot},
				Operation{Gate: GateRZ, Qubits: []int{q}, Slot: slot + 1},
			)
			slot += 2
		}

		for q := 0; q < n-1; q++ {
			ops = append(ops, Operation{Gate: GateCX, Qubits: []int{q, q + 1}, Slot: -1})
		}
	}

	return &Ansatz{
		numQubits:  n,
		depth:      depth,
		paramCount: paramCount,
		ops:        ops,
	}, paramCount
}

func (a *Ansatz) NumQubits() int  { return a.numQubits }
func (a *Ansatz) Depth() int      { return a.depth }
func (a *Ansatz) ParamCount() int { return a.paramCount }

// Operations returns a copy of the layout.
func (a *Ansatz) Operations() []Operation {
	out := make([]Operation, len(a.ops))
	for i, op := range a.ops {
		out[i] = Operation{Gate: op.Gate, Qubits: append([]int(nil), op.Qubits...), Slot: op.Slot}
	}
	return out
}

func (a *Ansatz) checkParams(params []float64) error {
	if len(params) != a.paramCount {
		return fmt.Errorf("%w: got %d, want %d", ErrParamCount, len(params), a.paramCount)
	}
	return nil
}

/*
Bind resolves every parameter slot against params and returns the concrete
circuit a backend can execute. params is only read.
*/
func (a *Ansatz) Bind(params []float64) (*Circuit, error) {
	if err := a.checkParams(params); err != nil {
		return nil, err
	}

	gates := make([]GateOp, len(a.ops))
	for i, op := range a.ops {
		gate := GateOp{Name: op.Gate.String(), Qubits: append([]int(nil), op.Qubits...)}
		if op.Slot >= 0 {
			gate.Params = []float64{params[op.Slot]}
		}
		gates[i] = gate
	}

	return &Circuit{NumQubits: a.numQubits, Gates: gates}, nil
}
