package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for kinematics operations.
var (
	// ErrUnbound indicates an orbit whose energy and angular momentum do not
	// admit a bound radial or vertical oscillation.
	ErrUnbound = errors.New("dynamo: orbit is unbound")

	// ErrPotential indicates a force or derivative the model cannot provide
	// in the requested dimensionality.
	ErrPotential = errors.New("dynamo: potential does not support this evaluation")

	// ErrNoPotential indicates a distribution function built without a potential.
	ErrNoPotential = errors.New("dynamo: potential must be set")

	// ErrNoActionAngle indicates a distribution function built without an
	// action-angle transform.
	ErrNoActionAngle = errors.New("dynamo: action-angle transform must be set")

	// ErrPotentialMismatch indicates the transform is bound to a different
	// potential than the one supplied.
	ErrPotentialMismatch = errors.New("dynamo: action-angle potential differs from the given potential")

	// ErrOddNGL indicates a Gauss-Legendre order that is odd or below 2.
	ErrOddNGL = errors.New("dynamo: ngl must be even and at least 2")

	// ErrShape indicates array inputs whose lengths cannot be broadcast.
	ErrShape = errors.New("dynamo: input arrays have mismatched shapes")

	// ErrCoords indicates an evaluation point that is neither actions nor phase space.
	ErrCoords = errors.New("dynamo: expected 3 actions or 5 phase-space coordinates")

	// ErrZeroDensity indicates moments requested where the density vanishes.
	ErrZeroDensity = errors.New("dynamo: density vanishes at this position")

	// ErrInvalidParam indicates a scale parameter outside its valid range.
	ErrInvalidParam = errors.New("dynamo: parameter out of valid bounds")
)

// EvalError wraps an error with the position at which it occurred.
type EvalError struct {
	Op      string
	R       float64
	Z       float64
	Wrapped error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s at (R=%g, z=%g): %v", e.Op, e.R, e.Z, e.Wrapped)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
