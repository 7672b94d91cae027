package actionangle

import (
	"fmt"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
)

// DefaultOrder is the Gauss-Legendre order of the action integrals.
const DefaultOrder = 24

// Transform maps phase space to actions in a fixed potential.
type Transform interface {
	Actions(w dynamo.PhaseSpace) (dynamo.Actions, error)
	Potential() potential.Potential
}

// ByName builds a named transform bound to pot. delta is only used by the
// Staeckel transform.
func ByName(name string, pot potential.Potential, delta float64) (Transform, error) {
	switch name {
	case "adiabatic":
		return NewAdiabatic(pot), nil
	case "staeckel":
		if delta <= 0 {
			return nil, fmt.Errorf("%w: staeckel delta=%g", dynamo.ErrInvalidParam, delta)
		}
		return NewStaeckel(pot, delta), nil
	default:
		return nil, fmt.Errorf("unknown action-angle transform: %s", name)
	}
}

func Names() []string {
	return []string{"adiabatic", "staeckel"}
}

func unbound(R, z float64) error {
	return &dynamo.EvalError{Op: "actions", R: R, Z: z, Wrapped: dynamo.ErrUnbound}
}
