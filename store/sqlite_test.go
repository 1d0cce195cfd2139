//go:build sqlite

package store

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLiteStore(t *testing.T) {
	Convey("Given an initialized sqlite store", t, func() {
		ctx := context.Background()
		store := NewSQLiteStore(filepath.Join(t.TempDir(), "vqe.db"))
		So(store.Init(ctx), ShouldBeNil)
		Reset(func() {
			_ = store.Close()
		})

		Convey("It should round-trip and overwrite runs", func() {
			run := sampleRun("r1")
			So(store.SaveRun(ctx, run), ShouldBeNil)

			run.Depth = 3
			So(store.SaveRun(ctx, run), ShouldBeNil)

			loaded, ok, err := store.GetRun(ctx, "r1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(loaded.Depth, ShouldEqual, 3)
			So(loaded.Energies, ShouldResemble, run.Energies)

			ids, err := store.ListRuns(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"r1"})
		})

		Convey("It should keep runs without final energies", func() {
			run := sampleRun("partial")
			run.FinalEnergy = nil
			run.Error = nil
			So(store.SaveRun(ctx, run), ShouldBeNil)

			loaded, ok, err := store.GetRun(ctx, "partial")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(loaded.FinalEnergy, ShouldBeNil)
		})

		Convey("It should report unknown runs as missing", func() {
			_, ok, err := store.GetRun(ctx, "missing")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a sqlite store without a path", t, func() {
		So(NewSQLiteStore("").Init(context.Background()), ShouldNotBeNil)
	})
}
