package vqe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

/*
Method is the closed set of classical minimisers the driver supports. All of
them are derivative-free: a hardware estimate has no usable gradient.
*/
type Method int

const (
	// MethodCOBYLA is a linear-approximation trust-region method.
	MethodCOBYLA Method = iota
	// MethodNelderMead is the downhill simplex method.
	MethodNelderMead
)

func (m Method) String() string {
	switch m {
	case MethodCOBYLA:
		return "COBYLA"
	case MethodNelderMead:
		return "Nelder-Mead"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a configuration string onto a Method.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "")) {
	case "", "cobyla":
		return MethodCOBYLA, nil
	case "neldermead", "nm":
		return MethodNelderMead, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

func (m Method) minimizer() (minimizer, error) {
	switch m {
	case MethodCOBYLA:
		return newLinearApprox(), nil
	case MethodNelderMead:
		return nelderMead{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
	}
}

// minimizer drives an objective until it converges or the budget runs out.
type minimizer interface {
	minimize(obj *objective, x0 []float64) error
}

var errBudgetExhausted = errors.New("evaluation budget exhausted")

/*
objective is the bookkeeping side of the cost function for one run: it owns
the call counter, enforces the evaluation cap and remembers the best point.
*/
type objective struct {
	fn      func(x []float64) (float64, error)
	calls   int
	maxIter int
	bestX   []float64
	bestF   float64
	err     error
}

func (o *objective) exhausted() bool { return o.calls >= o.maxIter }

func (o *objective) eval(x []float64) (float64, error) {
	if o.err != nil {
		return math.Inf(1), o.err
	}
	if o.exhausted() {
		return math.Inf(1), errBudgetExhausted
	}

	o.calls++

	f, err := o.fn(x)
	if err != nil {
		o.err = err
		return math.Inf(1), err
	}

	if o.bestX == nil || f < o.bestF {
		o.bestX = append(o.bestX[:0], x...)
		o.bestF = f
	}

	return f, nil
}

/*
Result is what a run of the driver hands back: the best parameters seen, their
energy, the record of every evaluation and the run's metrics.
*/
type Result struct {
	Params      []float64
	Energy      float64
	Evaluations int
	Record      *RunRecord
	Metrics     *Metrics
}

/*
Driver runs a classical minimiser over the Evaluator. Every Run call gets its
own counter, record and metrics, so one Driver may serve concurrent runs.
*/
type Driver struct {
	method        Method
	maxIter       int
	seed          *int64
	progressEvery int
	logger        *log.Logger
	telemetry     *Telemetry
	evalOpts      []EvaluatorOption
}

type DriverOption func(*Driver)

// WithSeed makes the initial parameter vector reproducible.
func WithSeed(seed int64) DriverOption {
	return func(d *Driver) {
		d.seed = &seed
	}
}

func WithProgressEvery(n int) DriverOption {
	return func(d *Driver) {
		d.progressEvery = n
	}
}

func WithDriverLogger(logger *log.Logger) DriverOption {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithTelemetry(t *Telemetry) DriverOption {
	return func(d *Driver) {
		d.telemetry = t
	}
}

// WithEvaluatorOptions forwards options to the evaluator built for each run.
func WithEvaluatorOptions(opts ...EvaluatorOption) DriverOption {
	return func(d *Driver) {
		d.evalOpts = append(d.evalOpts, opts...)
	}
}

func NewDriver(method Method, maxIter int, opts ...DriverOption) *Driver {
	d := &Driver{
		method:        method,
		maxIter:       maxIter,
		progressEvery: 10,
		logger:        defaultLogger(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) rng() *rand.Rand {
	if d.seed != nil {
		s := uint64(*d.seed)
		return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, rand.Uint64()))
}

/*
Run minimises the energy of the ansatz state over its parameters.

The Hamiltonian and ansatz must act on the same number of qubits; this is
checked before the first evaluation. The minimiser is capped at maxIter cost
evaluations, so the record never holds more than maxIter energies. ctx is only
passed to the hardware backend, which enforces its own timeouts.
*/
func (d *Driver) Run(ctx context.Context, ansatz *Ansatz, h *Hamiltonian, hardware Backend) (*Result, error) {
	if d.maxIter < 1 {
		return nil, fmt.Errorf("%w: maxIter must be at least 1, got %d", ErrInvalidConfig, d.maxIter)
	}

	solver, err := d.method.minimizer()
	if err != nil {
		return nil, err
	}

	opts := append([]EvaluatorOption{WithEvaluatorLogger(d.logger)}, d.evalOpts...)
	evaluator, err := NewEvaluator(ansatz, h, hardware, opts...)
	if err != nil {
		return nil, err
	}

	record := NewRunRecord(h, ansatz.Depth(), d.method)
	metrics := NewMetrics()
	evaluator.observe(metrics)

	obj := &objective{
		maxIter: d.maxIter,
		fn: func(x []float64) (float64, error) {
			ev, err := evaluator.Evaluate(ctx, x)
			if err != nil {
				return 0, err
			}

			record.Append(ev)
			metrics.recordEvaluation(ev)
			d.telemetry.observe(ev)

			if n := record.Len(); d.progressEvery > 0 && n%d.progressEvery == 0 {
				d.logger.Info("progress", "iter", n, "energy", fmt.Sprintf("%.6f", ev.Energy), "source", ev.Source)
			}

			return ev.Energy, nil
		},
	}

	x0 := make([]float64, ansatz.ParamCount())
	rng := d.rng()
	for i := range x0 {
		x0[i] = -math.Pi + 2*math.Pi*rng.Float64()
	}

	if err := solver.minimize(obj, x0); err != nil && !errors.Is(err, errBudgetExhausted) {
		return nil, fmt.Errorf("%s minimizer: %w", d.method, err)
	}

	if obj.err != nil {
		return nil, fmt.Errorf("%s minimizer: %w", d.method, obj.err)
	}

	if obj.bestX == nil {
		return nil, fmt.Errorf("%s minimizer: finished without evaluating the cost function", d.method)
	}

	if err := record.SetFinalEnergy(obj.bestF); err != nil {
		return nil, err
	}

	return &Result{
		Params:      obj.bestX,
		Energy:      obj.bestF,
		Evaluations: obj.calls,
		Record:      record,
		Metrics:     metrics,
	}, nil
}
