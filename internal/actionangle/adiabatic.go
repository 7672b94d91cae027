package actionangle

import (
	"errors"
	"math"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
	"github.com/san-kum/galkin/internal/quadrature"
)

var fixed = quadrature.Fixed

// Adiabatic computes Jz from the vertical oscillation at fixed R and Jr from
// planar radial motion with effective angular momentum |Lz| + Gamma·Jz.
type Adiabatic struct {
	pot   potential.Potential
	Gamma float64
	Order int
}

func NewAdiabatic(pot potential.Potential) *Adiabatic {
	return &Adiabatic{pot: pot, Gamma: 1, Order: DefaultOrder}
}

func (a *Adiabatic) Potential() potential.Potential { return a.pot }

func (a *Adiabatic) Actions(w dynamo.PhaseSpace) (dynamo.Actions, error) {
	lz := w.Lz()
	jz, err := a.vertical(w)
	if err != nil {
		return dynamo.Actions{}, err
	}
	jr, err := a.radial(w, math.Abs(lz)+a.Gamma*jz)
	if err != nil {
		return dynamo.Actions{}, err
	}
	return dynamo.Actions{Jr: jr, Lz: lz, Jz: jz}, nil
}

func (a *Adiabatic) vertical(w dynamo.PhaseSpace) (float64, error) {
	phi0 := potential.EvaluatePotentials(a.pot, w.R, 0)
	ez := potential.EvaluatePotentials(a.pot, w.R, w.Z) - phi0 + 0.5*w.VZ*w.VZ
	if ez <= 0 {
		return 0, nil
	}
	h := func(z float64) float64 {
		return 2 * (ez - (potential.EvaluatePotentials(a.pot, w.R, z) - phi0))
	}
	zmax, err := outerTurningPoint(h, math.Abs(w.Z), 1e4)
	if err != nil {
		return 0, a.wrap(w, err)
	}
	jz := fixed(func(phi float64) float64 {
		c := math.Cos(phi)
		return math.Sqrt(math.Max(h(zmax*math.Sin(phi)), 0)) * zmax * c
	}, 0, math.Pi/2, a.Order)
	return 2 / math.Pi * jz, nil
}

func (a *Adiabatic) radial(w dynamo.PhaseSpace, l float64) (float64, error) {
	l2 := l * l
	e := potential.EvaluatePotentials(a.pot, w.R, 0) + 0.5*w.VR*w.VR + 0.5*l2/(w.R*w.R)
	h := func(r float64) float64 {
		return 2*(e-potential.EvaluatePotentials(a.pot, r, 0)) - l2/(r*r)
	}
	rperi, rap, err := turningPoints(h, w.R, 0, 1e6)
	if err != nil {
		return 0, a.wrap(w, err)
	}
	return radialIntegral(h, rperi, rap, a.Order) / math.Pi, nil
}

func (a *Adiabatic) wrap(w dynamo.PhaseSpace, err error) error {
	if errors.Is(err, dynamo.ErrUnbound) {
		return unbound(w.R, w.Z)
	}
	return &dynamo.EvalError{Op: "adiabatic actions", R: w.R, Z: w.Z, Wrapped: err}
}
