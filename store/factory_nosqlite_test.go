//go:build !sqlite

package store

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewStoreWithoutSQLite(t *testing.T) {
	Convey("Given a build without the sqlite tag", t, func() {
		_, err := NewStore("sqlite", "runs.db")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "-tags sqlite")
	})
}
