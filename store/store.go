package store

import (
	"context"

	"github.com/theapemachine/vqe"
)

// Store persists finished run records, keyed by run ID.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run vqe.RecordSnapshot) error
	GetRun(ctx context.Context, id string) (vqe.RecordSnapshot, bool, error)
	ListRuns(ctx context.Context) ([]string, error)
}

var _ vqe.RunSink = Store(nil)
