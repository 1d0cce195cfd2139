package vqe

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantumState(t *testing.T) {
	Convey("Given a fresh register", t, func() {
		state := NewQuantumState(2)

		Convey("It should be in |00>", func() {
			So(state.Vector, ShouldHaveLength, 4)
			So(state.Probabilities(), ShouldResemble, []float64{1, 0, 0, 0})
		})

		Convey("Flipping qubit 0 should set bit 0 of the index", func() {
			err := state.Run(&Circuit{NumQubits: 2, Gates: []GateOp{
				{Name: "RY", Qubits: []int{0}, Params: []float64{math.Pi}},
			}})
			So(err, ShouldBeNil)
			So(state.Probabilities()[1], ShouldAlmostEqual, 1, 1e-12)

			low, _ := state.Expectation(mustHamiltonian(PauliTerm{"IZ", 1}))
			high, _ := state.Expectation(mustHamiltonian(PauliTerm{"ZI", 1}))
			So(low, ShouldAlmostEqual, -1, 1e-12)
			So(high, ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("CX should copy the control into the target", func() {
			err := state.Run(&Circuit{NumQubits: 2, Gates: []GateOp{
				{Name: "RY", Qubits: []int{0}, Params: []float64{math.Pi}},
				{Name: "CX", Qubits: []int{0, 1}},
			}})
			So(err, ShouldBeNil)
			So(state.Probabilities()[3], ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("It should reject malformed circuits", func() {
			err := state.Run(&Circuit{NumQubits: 3})
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)

			err = state.Run(&Circuit{NumQubits: 2, Gates: []GateOp{{Name: "H", Qubits: []int{0}}}})
			So(err, ShouldNotBeNil)

			err = state.Run(&Circuit{NumQubits: 2, Gates: []GateOp{{Name: "CX", Qubits: []int{1, 1}}}})
			So(err, ShouldNotBeNil)

			err = state.Run(&Circuit{NumQubits: 2, Gates: []GateOp{{Name: "RY", Qubits: []int{2}, Params: []float64{1}}}})
			So(err, ShouldNotBeNil)
		})

		Convey("It should reject a Hamiltonian of another size", func() {
			_, err := state.Expectation(mustHamiltonian(PauliTerm{"Z", 1}))
			So(errors.Is(err, ErrDimensionMismatch), ShouldBeTrue)
		})
	})

	Convey("Given the +i eigenstate of Y", t, func() {
		state := NewQuantumState(1)
		err := state.Run(&Circuit{NumQubits: 1, Gates: []GateOp{
			{Name: "RY", Qubits: []int{0}, Params: []float64{math.Pi / 2}},
			{Name: "RZ", Qubits: []int{0}, Params: []float64{math.Pi / 2}},
		}})
		So(err, ShouldBeNil)

		Convey("The expectation of Y should be +1", func() {
			energy, err := state.Expectation(mustHamiltonian(PauliTerm{"Y", 1}))
			So(err, ShouldBeNil)
			So(energy, ShouldAlmostEqual, 1, 1e-12)
		})
	})

	Convey("Given random ansatz states", t, func() {
		h := DefaultHamiltonian()
		exact, _ := ExactGroundEnergy(h)
		ansatz, count := BuildAnsatz(2, 2)
		rng := rand.New(rand.NewPCG(1, 2))

		Convey("The norm should be preserved and no energy should fall below the ground energy", func() {
			for trial := 0; trial < 50; trial++ {
				params := make([]float64, count)
				for i := range params {
					params[i] = -math.Pi + 2*math.Pi*rng.Float64()
				}

				circuit, err := ansatz.Bind(params)
				So(err, ShouldBeNil)

				state := NewQuantumState(2)
				So(state.Run(circuit), ShouldBeNil)

				var norm float64
				for _, p := range state.Probabilities() {
					norm += p
				}
				So(norm, ShouldAlmostEqual, 1, 1e-12)

				energy, err := state.Expectation(h)
				So(err, ShouldBeNil)
				So(energy, ShouldBeGreaterThanOrEqualTo, exact-1e-9)
			}
		})
	})
}
