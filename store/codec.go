package store

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/theapemachine/vqe"
)

const CurrentSchemaVersion = 1

var (
	ErrVersionMismatch = errors.New("run record version mismatch")
	ErrMissingID       = errors.New("run record has no id")
)

// envelope tags a snapshot with the schema it was written under.
type envelope struct {
	SchemaVersion int                `json:"schema_version"`
	Run           vqe.RecordSnapshot `json:"run"`
}

func EncodeRun(run vqe.RecordSnapshot) ([]byte, error) {
	if run.ID == "" {
		return nil, ErrMissingID
	}
	data, err := json.Marshal(envelope{SchemaVersion: CurrentSchemaVersion, Run: run})
	return data, errors.Wrapf(err, "encode run %s", run.ID)
}

func DecodeRun(data []byte) (vqe.RecordSnapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return vqe.RecordSnapshot{}, errors.Wrap(err, "decode run")
	}
	if env.SchemaVersion != CurrentSchemaVersion {
		return vqe.RecordSnapshot{}, errors.Wrapf(ErrVersionMismatch, "schema %d", env.SchemaVersion)
	}
	return env.Run, nil
}
