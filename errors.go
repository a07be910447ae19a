package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQubitIndex is matched by every *QubitIndexError.
	ErrInvalidQubitIndex = errors.New("invalid qubit index")

	// ErrMarkedIndex is matched by every *MarkedIndexError.
	ErrMarkedIndex = errors.New("duplicate or out-of-range marked index")

	// ErrUnitarityViolation is matched by every *UnitarityError.
	ErrUnitarityViolation = errors.New("unitarity violation")

	// ErrInvalidShotCount is returned when a negative shot count is requested.
	ErrInvalidShotCount = errors.New("shot count must not be negative")

	// ErrInvalidQubitCount is returned when a register size is outside [1, MaxQubits].
	ErrInvalidQubitCount = errors.New("invalid qubit count")

	// ErrEmptyState is returned when a gate is applied to a zero-length vector.
	ErrEmptyState = errors.New("state vector is not initialized")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid config")
)

// QubitIndexError reports a gate that references a qubit outside the register
// or an ill-formed control set.
type QubitIndexError struct {
	Gate      GateKind
	Qubit     int
	NumQubits int
	Reason    string
}

func (e *QubitIndexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid qubit index %d for %s on %d qubits: %s", e.Qubit, e.Gate, e.NumQubits, e.Reason)
	}
	return fmt.Sprintf("invalid qubit index %d for %s on %d qubits", e.Qubit, e.Gate, e.NumQubits)
}

func (e *QubitIndexError) Is(target error) bool { return target == ErrInvalidQubitIndex }

// MarkedIndexError reports a marked index that is negative, too large or repeated.
type MarkedIndexError struct {
	Index     int
	NumQubits int
	Duplicate bool
}

func (e *MarkedIndexError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("marked index %d is duplicated", e.Index)
	}
	return fmt.Sprintf("marked index %d out of range [0, %d)", e.Index, 1<<e.NumQubits)
}

func (e *MarkedIndexError) Is(target error) bool { return target == ErrMarkedIndex }

// UnitarityError carries the probability sum that failed the tolerance check.
type UnitarityError struct {
	Sum       float64
	Tolerance float64
}

func (e *UnitarityError) Error() string {
	return fmt.Sprintf("probabilities sum to %.12f, outside 1±%g", e.Sum, e.Tolerance)
}

func (e *UnitarityError) Is(target error) bool { return target == ErrUnitarityViolation }
