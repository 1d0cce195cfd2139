package vqe

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Source tells which path produced an energy.
type Source int

const (
	SourceSimulator Source = iota
	SourceHardware
)

func (s Source) String() string {
	if s == SourceHardware {
		return "hardware"
	}
	return "simulator"
}

/*
Evaluation is the value of one cost-function call together with how it was
obtained. The evaluator returns it; recording it is the caller's job.
*/
type Evaluation struct {
	Energy      float64
	Source      Source
	Backend     string
	HardwareErr error // failure absorbed by the fallback, nil otherwise
	Regulated   bool  // hardware skipped by a regulator
	Elapsed     time.Duration
}

// Fallback reports whether a hardware backend was supplied but not used.
func (ev Evaluation) Fallback() bool {
	return ev.Source == SourceSimulator && ev.HardwareErr != nil
}

/*
Evaluator is the cost function of a run: the ansatz and Hamiltonian are fixed,
the parameter vector varies. When a hardware backend is present every call
tries it first and, on any failure at all, falls back to the local exact
simulator for that call only. The simulator is the backstop and only fails on
malformed input.
*/
type Evaluator struct {
	ansatz      *Ansatz
	hamiltonian *Hamiltonian
	hardware    Backend
	simulator   Simulator
	regulators  []Regulator
	retry       RetryPolicy
	logger      *log.Logger
}

type EvaluatorOption func(*Evaluator)

func WithEvaluatorLogger(logger *log.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHardwareRegulators installs regulators in front of the hardware path.
func WithHardwareRegulators(regulators ...Regulator) EvaluatorOption {
	return func(e *Evaluator) {
		e.regulators = append(e.regulators, regulators...)
	}
}

/*
NewEvaluator binds the cost function to a layout and a Hamiltonian. hardware
may be nil, in which case every call is served by the simulator.
*/
func NewEvaluator(ansatz *Ansatz, h *Hamiltonian, hardware Backend, opts ...EvaluatorOption) (*Evaluator, error) {
	if ansatz == nil || h == nil {
		return nil, fmt.Errorf("%w: evaluator needs an ansatz and a hamiltonian", ErrInvalidConfig)
	}

	if ansatz.NumQubits() != h.NumQubits() {
		return nil, fmt.Errorf("%w: ansatz has %d qubits, hamiltonian has %d",
			ErrDimensionMismatch, ansatz.NumQubits(), h.NumQubits())
	}

	e := &Evaluator{
		ansatz:      ansatz,
		hamiltonian: h,
		hardware:    hardware,
		logger:      defaultLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// observe hands the run's metrics to every regulator.
func (e *Evaluator) observe(metrics *Metrics) {
	for _, r := range e.regulators {
		r.Observe(metrics)
	}
}

/*
Evaluate returns the energy of the ansatz state for params. It never returns
a hardware failure; an error means the local simulation itself could not run,
which is fatal for the run.
*/
func (e *Evaluator) Evaluate(ctx context.Context, params []float64) (Evaluation, error) {
	start := time.Now()

	circuit, err := e.ansatz.Bind(params)
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{Backend: e.simulator.Name()}

	if e.hardware != nil {
		outcome, regulated := e.tryHardware(ctx, circuit)
		if outcome.OK() {
			ev.Energy = outcome.Value
			ev.Source = SourceHardware
			ev.Backend = e.hardware.Name()
			ev.Elapsed = time.Since(start)
			return ev, nil
		}

		ev.HardwareErr = outcome.Err
		ev.Regulated = regulated
		if !regulated {
			e.logger.Warn("hardware evaluation failed, falling back to simulator",
				"backend", e.hardware.Name(), "err", outcome.Err)
		}
	}

	energy, err := e.simulator.Estimate(ctx, circuit, e.hamiltonian)
	if err != nil {
		return Evaluation{}, fmt.Errorf("local simulation: %w", err)
	}

	ev.Energy = energy
	ev.Source = SourceSimulator
	ev.Elapsed = time.Since(start)
	return ev, nil
}

func (e *Evaluator) tryHardware(ctx context.Context, circuit *Circuit) (Outcome, bool) {
	for _, r := range e.regulators {
		r.Renormalize()
		if r.Limit() {
			return Failure(ErrHardwareRegulated), true
		}
	}

	outcome := e.retry.run(ctx, func() (float64, error) {
		return e.hardware.Estimate(ctx, circuit, e.hamiltonian)
	})

	for _, r := range e.regulators {
		if recorder, ok := r.(outcomeRecorder); ok {
			if outcome.OK() {
				recorder.RecordSuccess()
			} else {
				recorder.RecordFailure()
			}
		}
	}

	return outcome, false
}
