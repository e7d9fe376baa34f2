package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidArgument is the parent of every argument validation failure.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrInvalidStep indicates a non-positive step size.
	ErrInvalidStep = fmt.Errorf("%w: step size h must be positive", ErrInvalidArgument)

	// ErrInvalidInterval indicates t1 <= t0.
	ErrInvalidInterval = fmt.Errorf("%w: t1 must be greater than t0", ErrInvalidArgument)

	// ErrSingularMatrix is reported by strict linear solves on a zero or tiny pivot.
	ErrSingularMatrix = errors.New("dynamo: singular matrix")

	// ErrDidNotConverge is reported by strict Newton solves that exhaust their iterations.
	ErrDidNotConverge = errors.New("dynamo: iteration did not converge")

	// ErrDimensionMismatch indicates mismatched vector or matrix dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with integration context.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
