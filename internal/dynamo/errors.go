package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState means a position or velocity went NaN or infinite,
	// typically after a close pass with no softening.
	ErrInvalidState = errors.New("dynamo: non-finite position or velocity")

	ErrParameterBounds = errors.New("dynamo: parameter out of range")

	// ErrDimensionMismatch means a state's length does not fit the body count.
	ErrDimensionMismatch = errors.New("dynamo: state length does not match body count")
)

// SimulationError records the step at which a run broke down. Time is in
// simulated seconds.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.0fs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }
