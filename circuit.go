package vqe

import (
	"fmt"
	"strconv"
	"strings"
)

// Circuit is an ansatz with every parameter slot bound to an angle.
type Circuit struct {
	NumQubits int      `json:"num_qubits"`
	Gates     []GateOp `json:"gates"`
}

type GateOp struct {
	Name   string    `json:"name"`
	Qubits []int     `json:"qubits"`
	Params []float64 `json:"params,omitempty"`
}

var qasmGateNames = map[string]string{
	"RY": "ry",
	"RZ": "rz",
	"CX": "cx",
}

/*
QASM renders the circuit as an OpenQASM 3.0 program, the format remote
estimator services accept. Angles keep full float64 precision.
*/
func (c *Circuit) QASM() string {
	var b strings.Builder

	b.WriteString("OPENQASM 3.0;\ninclude \"stdgates.inc\";\n")
	fmt.Fprintf(&b, "qubit[%d] q;\n", c.NumQubits)

	for _, gate := range c.Gates {
		name, ok := qasmGateNames[gate.Name]
		if !ok {
			name = strings.ToLower(gate.Name)
		}
		b.WriteString(name)

		if len(gate.Params) > 0 {
			params := make([]string, len(gate.Params))
			for i, p := range gate.Params {
				params[i] = strconv.FormatFloat(p, 'g', -1, 64)
			}
			b.WriteString("(" + strings.Join(params, ", ") + ")")
		}

		qubits := make([]string, len(gate.Qubits))
		for i, q := range gate.Qubits {
			qubits[i] = fmt.Sprintf("q[%d]", q)
		}
		b.WriteString(" " + strings.Join(qubits, ", ") + ";\n")
	}

	return b.String()
}
