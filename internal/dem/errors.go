package dem

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("dem: simulation canceled")

	// ErrSnapshot indicates the snapshot writer failed.
	ErrSnapshot = errors.New("dem: snapshot write failed")
)

// SimulationError wraps an error with the step and clock at which the run stopped.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
