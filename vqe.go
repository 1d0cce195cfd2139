package vqe

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/theapemachine/errnie"
)

/*
VQE ties the pieces of a run together: it builds the ansatz for the
Hamiltonian, drives the optimizer over it, and validates the outcome against
the exact ground energy.
*/
type VQE struct {
	hamiltonian *Hamiltonian
	config      *Config
	ansatz      *Ansatz
	driver      *Driver
	logger      *log.Logger
	telemetry   *Telemetry
	regulators  []Regulator
	retryFilter func(error) bool
	sink        RunSink
}

// RunSink receives the snapshot of every finished run. store.Store satisfies it.
type RunSink interface {
	SaveRun(ctx context.Context, run RecordSnapshot) error
}

type Option func(*VQE)

func WithLogger(logger *log.Logger) Option {
	return func(v *VQE) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithRegistry exports run telemetry to the given Prometheus registerer.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(v *VQE) {
		v.telemetry = NewTelemetry(reg)
	}
}

// WithRegulators adds hardware regulators on top of those the config enables.
func WithRegulators(regulators ...Regulator) Option {
	return func(v *VQE) {
		v.regulators = append(v.regulators, regulators...)
	}
}

/*
WithRetryFilter limits hardware retries to the failures filter accepts, for
instance transient transport errors. Without it every failure is retried.
*/
func WithRetryFilter(filter func(error) bool) Option {
	return func(v *VQE) {
		v.retryFilter = filter
	}
}

// WithSink persists every finished run.
func WithSink(sink RunSink) Option {
	return func(v *VQE) {
		v.sink = sink
	}
}

/*
New validates the configuration and prepares a run. A nil Hamiltonian falls
back to the terms in the configuration, and to DefaultHamiltonian when the
configuration has none either. A nil config uses NewConfig.
*/
func New(h *Hamiltonian, config *Config, opts ...Option) (*VQE, error) {
	if config == nil {
		config = NewConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if h == nil {
		var err error
		if h, err = hamiltonianFromConfig(config); err != nil {
			return nil, err
		}
	}

	method, err := ParseMethod(config.Method)
	if err != nil {
		return nil, err
	}

	v := &VQE{
		hamiltonian: h,
		config:      config,
		logger:      defaultLogger(),
	}

	for _, opt := range opts {
		opt(v)
	}

	v.ansatz, _ = BuildAnsatz(h.NumQubits(), config.Depth)

	regulators := append(config.regulators(v.logger), v.regulators...)

	driverOpts := []DriverOption{
		WithDriverLogger(v.logger),
		WithProgressEvery(config.ProgressEvery),
		WithTelemetry(v.telemetry),
		WithEvaluatorOptions(
			WithHardwareRegulators(regulators...),
			WithHardwareRetry(config.retryPolicy(v.retryFilter)),
		),
	}
	if config.Seed != nil {
		driverOpts = append(driverOpts, WithSeed(*config.Seed))
	}

	v.driver = NewDriver(method, config.MaxIter, driverOpts...)

	errnie.Info(
		"NewVQE - qubits %d, depth %d, params %d, method %s",
		h.NumQubits(), config.Depth, v.ansatz.ParamCount(), method,
	)

	return v, nil
}

func hamiltonianFromConfig(config *Config) (*Hamiltonian, error) {
	if len(config.Hamiltonian) == 0 {
		return DefaultHamiltonian(), nil
	}

	h, err := NewHamiltonian(config.Hamiltonian...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return h, nil
}

func (v *VQE) Hamiltonian() *Hamiltonian { return v.hamiltonian }
func (v *VQE) Ansatz() *Ansatz           { return v.ansatz }
func (v *VQE) Config() *Config           { return v.config }

/*
Run optimizes with the given hardware backend, or the simulator alone when
backend is nil, and returns the finished record.
*/
func (v *VQE) Run(ctx context.Context, backend Backend) (*RunRecord, error) {
	result, err := v.RunResult(ctx, backend)
	if err != nil {
		return nil, err
	}
	return result.Record, nil
}

// RunResult is Run that also hands back the best parameters and the metrics.
func (v *VQE) RunResult(ctx context.Context, backend Backend) (*Result, error) {
	result, err := v.driver.Run(ctx, v.ansatz, v.hamiltonian, backend)
	if err != nil {
		return nil, err
	}

	record := result.Record
	record.ID = uuid.NewString()

	exact, err := ExactGroundEnergy(v.hamiltonian)
	if err != nil {
		return nil, err
	}

	if err := record.SetExactEnergy(exact); err != nil {
		return nil, err
	}

	final, _ := record.FinalEnergy()
	runErr, err := record.Error()
	if err != nil {
		return nil, err
	}

	v.telemetry.observeError(runErr)

	v.logger.Info("run finished",
		"id", record.ID,
		"evaluations", record.Len(),
		"vqe", fmt.Sprintf("%.6f", final),
		"exact", fmt.Sprintf("%.6f", exact),
		"error", fmt.Sprintf("%.6f", runErr),
	)

	snapshot := record.Snapshot()

	if v.logger.GetLevel() <= log.DebugLevel {
		v.logger.Debug("run record", "snapshot", spew.Sdump(snapshot))
	}

	if v.sink != nil {
		if err := v.sink.SaveRun(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("save run %s: %w", record.ID, err)
		}
	}

	return result, nil
}
