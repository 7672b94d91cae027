package potential

import (
	"fmt"
	"reflect"

	"github.com/san-kum/galkin/internal/dynamo"
)

// Potential is an axisymmetric potential Φ(R, z). Forces are -∂Φ, second
// derivatives are +∂²Φ.
type Potential interface {
	Evaluate(R, z float64) float64
	Rforce(R, z float64) float64
	Zforce(R, z float64) float64
	R2deriv(R, z float64) float64
	Z2deriv(R, z float64) float64
	Dens(R, z float64) float64
}

// Planar is implemented by potentials restricted to the mid-plane.
type Planar interface {
	PlanarRforce(R float64) float64
	PlanarR2deriv(R float64) float64
}

// Combined is the sum of its components.
type Combined []Potential

func (c Combined) Evaluate(R, z float64) float64 {
	return c.sum(func(p Potential) float64 { return p.Evaluate(R, z) })
}

func (c Combined) Rforce(R, z float64) float64 {
	return c.sum(func(p Potential) float64 { return p.Rforce(R, z) })
}

func (c Combined) Zforce(R, z float64) float64 {
	return c.sum(func(p Potential) float64 { return p.Zforce(R, z) })
}

func (c Combined) R2deriv(R, z float64) float64 {
	return c.sum(func(p Potential) float64 { return p.R2deriv(R, z) })
}

func (c Combined) Z2deriv(R, z float64) float64 {
	return c.sum(func(p Potential) float64 { return p.Z2deriv(R, z) })
}

func (c Combined) Dens(R, z float64) float64 {
	return c.sum(func(p Potential) float64 { return p.Dens(R, z) })
}

func (c Combined) sum(fn func(Potential) float64) float64 {
	total := 0.0
	for _, p := range c {
		total += fn(p)
	}
	return total
}

func EvaluatePotentials(pot Potential, R, z float64) float64 { return pot.Evaluate(R, z) }
func EvaluateRforces(pot Potential, R, z float64) float64    { return pot.Rforce(R, z) }
func EvaluatezForces(pot Potential, R, z float64) float64    { return pot.Zforce(R, z) }
func EvaluateR2derivs(pot Potential, R, z float64) float64   { return pot.R2deriv(R, z) }
func Evaluatez2derivs(pot Potential, R, z float64) float64   { return pot.Z2deriv(R, z) }
func EvaluateDensities(pot Potential, R, z float64) float64  { return pot.Dens(R, z) }

// EvaluatePlanarRforces returns the mid-plane radial force, or ErrPotential
// when pot is not a planar potential.
func EvaluatePlanarRforces(pot any, R float64) (float64, error) {
	p, ok := pot.(Planar)
	if !ok {
		return 0, fmt.Errorf("%w: %T has no planar Rforce", dynamo.ErrPotential, pot)
	}
	return p.PlanarRforce(R), nil
}

// EvaluatePlanarR2derivs returns the mid-plane ∂²Φ/∂R², or ErrPotential when
// pot is not a planar potential.
func EvaluatePlanarR2derivs(pot any, R float64) (float64, error) {
	p, ok := pot.(Planar)
	if !ok {
		return 0, fmt.Errorf("%w: %T has no planar R2deriv", dynamo.ErrPotential, pot)
	}
	return p.PlanarR2deriv(R), nil
}

type midplane struct {
	pot Potential
}

func (m midplane) PlanarRforce(R float64) float64  { return EvaluateRforces(m.pot, R, 0) }
func (m midplane) PlanarR2deriv(R float64) float64 { return EvaluateR2derivs(m.pot, R, 0) }

// ToPlanar reduces pot to the mid-plane. Planar inputs are returned as is.
func ToPlanar(pot any) (Planar, error) {
	switch p := pot.(type) {
	case Planar:
		return p, nil
	case Potential:
		return midplane{pot: p}, nil
	default:
		return nil, fmt.Errorf("%w: cannot reduce %T to the plane", dynamo.ErrPotential, pot)
	}
}

// Equal reports whether a and b describe the same potential.
func Equal(a, b Potential) bool {
	return reflect.DeepEqual(a, b)
}
