//go:build sqlite

package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	"github.com/theapemachine/vqe"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrap(err, "open run database")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "ping run database")
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			method TEXT NOT NULL,
			final_energy REAL,
			exact_energy REAL,
			payload BLOB NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create runs table")
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run vqe.RecordSnapshot) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, schema_version, method, final_energy, exact_energy, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			method = excluded.method,
			final_energy = excluded.final_energy,
			exact_energy = excluded.exact_energy,
			payload = excluded.payload
	`, run.ID, CurrentSchemaVersion, run.Method, nullable(run.FinalEnergy), nullable(run.ExactEnergy), payload)
	return errors.Wrapf(err, "save run %s", run.ID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (vqe.RecordSnapshot, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return vqe.RecordSnapshot{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vqe.RecordSnapshot{}, false, nil
		}
		return vqe.RecordSnapshot{}, false, errors.Wrapf(err, "get run %s", id)
	}

	run, err := DecodeRun(payload)
	if err != nil {
		return vqe.RecordSnapshot{}, false, errors.Wrapf(err, "decode run %s", id)
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "list runs")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "list runs")
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return errors.Wrap(err, "close run database")
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
