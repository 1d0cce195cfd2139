package vqe

import "errors"

var (
	ErrEmptyHamiltonian  = errors.New("hamiltonian has no terms")
	ErrMalformedPauli    = errors.New("malformed pauli term")
	ErrDimensionMismatch = errors.New("hamiltonian and ansatz qubit counts differ")
	ErrParamCount        = errors.New("parameter vector length does not match ansatz")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnknownMethod     = errors.New("unknown optimizer method")
	ErrAlreadySet        = errors.New("record field already set")
	ErrRecordIncomplete  = errors.New("record is not finalized")

	// ErrHardwareRegulated is the failure reason recorded when a regulator
	// kept the evaluation away from the hardware backend.
	ErrHardwareRegulated = errors.New("hardware path limited by regulator")
	ErrNonFiniteEnergy   = errors.New("non-finite energy")
)
