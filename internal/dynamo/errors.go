package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrUnstable indicates the integration produced NaN or Inf values.
	ErrUnstable = errors.New("dynamo: simulation unstable (NaN or Inf in state)")

	// ErrStepTooSmall indicates adaptive timestep fell below the minimum.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates the initial state does not match the system.
	ErrDimensionMismatch = errors.New("dynamo: state dimension does not match system")
)

// SimulationError wraps an error with step and time context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
