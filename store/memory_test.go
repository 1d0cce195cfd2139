package store

import (
	"context"
	"errors"
	"testing"

	"github.com/theapemachine/vqe"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleRun(id string) vqe.RecordSnapshot {
	final, exact, runErr := -1.4, -1.4142135623730951, 0.0142135623730951
	return vqe.RecordSnapshot{
		ID:          id,
		Hamiltonian: vqe.DefaultHamiltonian().Terms(),
		Depth:       2,
		Method:      vqe.MethodCOBYLA.String(),
		Energies:    []float64{0.3, -0.9, -1.4},
		Sources:     []string{"simulator", "simulator", "hardware"},
		FinalEnergy: &final,
		ExactEnergy: &exact,
		Error:       &runErr,
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an initialized memory store", t, func() {
		ctx := context.Background()
		store := NewMemoryStore()
		So(store.Init(ctx), ShouldBeNil)

		Convey("It should round-trip a run", func() {
			run := sampleRun("b")
			So(store.SaveRun(ctx, run), ShouldBeNil)

			loaded, ok, err := store.GetRun(ctx, "b")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(loaded.Energies, ShouldResemble, run.Energies)
			So(loaded.Hamiltonian, ShouldResemble, run.Hamiltonian)
			So(*loaded.FinalEnergy, ShouldEqual, *run.FinalEnergy)

			Convey("Changing the saved snapshot should not change the store", func() {
				run.Energies[0] = 42
				again, _, _ := store.GetRun(ctx, "b")
				So(again.Energies[0], ShouldEqual, 0.3)
			})
		})

		Convey("It should report unknown runs as missing", func() {
			_, ok, err := store.GetRun(ctx, "nope")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("It should list run IDs in order", func() {
			So(store.SaveRun(ctx, sampleRun("b")), ShouldBeNil)
			So(store.SaveRun(ctx, sampleRun("a")), ShouldBeNil)

			ids, err := store.ListRuns(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"a", "b"})
		})

		Convey("It should refuse a run without an ID", func() {
			err := store.SaveRun(ctx, sampleRun(""))
			So(errors.Is(err, ErrMissingID), ShouldBeTrue)
		})
	})

	Convey("Given a memory store that was never initialized", t, func() {
		store := NewMemoryStore()
		So(store.SaveRun(context.Background(), sampleRun("a")), ShouldNotBeNil)
	})
}
