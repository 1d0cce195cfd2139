package vqe

/*
Regulator guards the hardware path of the evaluator. Before every hardware
attempt the evaluator renormalizes each regulator and asks whether it limits
the call; a limited call goes straight to the simulator, exactly as if the
hardware had failed.

No regulator is installed by default, in which case every evaluation with a
backend attempts the hardware first.
*/
type Regulator interface {
	// Observe hands the regulator the metrics of the run it guards. A
	// regulator that does not need them may ignore the call.
	Observe(metrics *Metrics)

	// Limit reports whether the next hardware attempt should be skipped.
	Limit() bool

	// Renormalize lets the regulator move back towards normal operation,
	// for instance a circuit breaker leaving the open state after its timeout.
	Renormalize()
}

/*
outcomeRecorder is implemented by regulators that learn from the result of
hardware attempts.
*/
type outcomeRecorder interface {
	RecordSuccess()
	RecordFailure()
}
