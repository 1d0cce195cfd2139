package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/theapemachine/vqe"
)

var errNotInitialized = errors.New("store is not initialized")

/*
MemoryStore keeps encoded runs in a map. Runs are stored encoded so a caller
mutating a snapshot's slices after saving cannot change what was persisted.
*/
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string][]byte)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run vqe.RecordSnapshot) error {
	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = payload
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (vqe.RecordSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return vqe.RecordSnapshot{}, false, errNotInitialized
	}

	payload, ok := s.runs[id]
	if !ok {
		return vqe.RecordSnapshot{}, false, nil
	}

	run, err := DecodeRun(payload)
	if err != nil {
		return vqe.RecordSnapshot{}, false, err
	}
	return run, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
