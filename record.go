package vqe

import (
	"fmt"
	"math"
	"time"
)

/*
RunRecord is the convergence log of one optimization run. Energies are
appended in the exact order the optimizer requested them; the final and exact
energies are each set once. Error is derived on demand.

A record belongs to a single run and is not safe for concurrent writers.
*/
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	hamiltonian *Hamiltonian
	depth       int
	method      Method
	energies    []float64
	sources     []Source
	finalEnergy *float64
	exactEnergy *float64
}

func NewRunRecord(h *Hamiltonian, depth int, method Method) *RunRecord {
	return &RunRecord{
		StartedAt:   time.Now(),
		hamiltonian: h,
		depth:       depth,
		method:      method,
	}
}

func (r *RunRecord) Hamiltonian() *Hamiltonian { return r.hamiltonian }
func (r *RunRecord) Depth() int                { return r.depth }
func (r *RunRecord) Method() Method            { return r.method }
func (r *RunRecord) Len() int                  { return len(r.energies) }

// Append logs one evaluation.
func (r *RunRecord) Append(ev Evaluation) {
	r.energies = append(r.energies, ev.Energy)
	r.sources = append(r.sources, ev.Source)
}

// Energies returns a copy of the observed energies in call order.
func (r *RunRecord) Energies() []float64 {
	return append([]float64(nil), r.energies...)
}

// Sources returns which path served each energy, index-aligned with Energies.
func (r *RunRecord) Sources() []Source {
	return append([]Source(nil), r.sources...)
}

func (r *RunRecord) SetFinalEnergy(energy float64) error {
	if r.finalEnergy != nil {
		return fmt.Errorf("final energy: %w", ErrAlreadySet)
	}
	r.finalEnergy = &energy
	return nil
}

func (r *RunRecord) SetExactEnergy(energy float64) error {
	if r.exactEnergy != nil {
		return fmt.Errorf("exact energy: %w", ErrAlreadySet)
	}
	r.exactEnergy = &energy
	r.FinishedAt = time.Now()
	return nil
}

func (r *RunRecord) FinalEnergy() (float64, bool) {
	if r.finalEnergy == nil {
		return 0, false
	}
	return *r.finalEnergy, true
}

func (r *RunRecord) ExactEnergy() (float64, bool) {
	if r.exactEnergy == nil {
		return 0, false
	}
	return *r.exactEnergy, true
}

// Error is |final - exact|; it needs both energies.
func (r *RunRecord) Error() (float64, error) {
	if r.finalEnergy == nil || r.exactEnergy == nil {
		return 0, ErrRecordIncomplete
	}
	return math.Abs(*r.finalEnergy - *r.exactEnergy), nil
}

/*
RecordSnapshot is the plain value handed to reporting and persistence.
Unset energies are nil.
*/
type RecordSnapshot struct {
	ID          string      `json:"id"`
	Hamiltonian []PauliTerm `json:"hamiltonian"`
	Depth       int         `json:"depth"`
	Method      string      `json:"method"`
	Energies    []float64   `json:"energies"`
	Sources     []string    `json:"sources"`
	FinalEnergy *float64    `json:"final_energy"`
	ExactEnergy *float64    `json:"exact_energy"`
	Error       *float64    `json:"error"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
}

func (r *RunRecord) Snapshot() RecordSnapshot {
	snap := RecordSnapshot{
		ID:         r.ID,
		Depth:      r.depth,
		Method:     r.method.String(),
		Energies:   r.Energies(),
		Sources:    make([]string, len(r.sources)),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}

	if r.hamiltonian != nil {
		snap.Hamiltonian = r.hamiltonian.Terms()
	}

	for i, s := range r.sources {
		snap.Sources[i] = s.String()
	}

	if v, ok := r.FinalEnergy(); ok {
		snap.FinalEnergy = &v
	}
	if v, ok := r.ExactEnergy(); ok {
		snap.ExactEnergy = &v
	}
	if v, err := r.Error(); err == nil {
		snap.Error = &v
	}

	return snap
}

// SeriesPoint is one point of the convergence curve.
type SeriesPoint struct {
	Iteration int     `json:"iteration"`
	Energy    float64 `json:"energy"`
}

// Series returns the convergence curve for a reporting collaborator.
func (r *RunRecord) Series() []SeriesPoint {
	points := make([]SeriesPoint, len(r.energies))
	for i, e := range r.energies {
		points[i] = SeriesPoint{Iteration: i, Energy: e}
	}
	return points
}
