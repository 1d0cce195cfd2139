package store

import (
	"github.com/pkg/errors"
	"github.com/theapemachine/vqe"
)

func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, errors.Errorf("unsupported store backend: %s", kind)
	}
}

// FromConfig builds the store selected by the run configuration.
func FromConfig(config vqe.StoreConfig) (Store, error) {
	return NewStore(config.Kind, config.Path)
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
