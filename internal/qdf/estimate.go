package qdf

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/galkin/internal/potential"
	"github.com/san-kum/galkin/internal/quadrature"
)

const (
	// DefaultHzBound is the height up to which IsothermalHz integrates the
	// potential's density.
	DefaultHzBound = 0.125

	estimateStep = 1e-4

	surfaceZMax  = 1.0
	surfaceOrder = 8
	hzOrder      = 20
)

// scaleLength returns -1/(d ln q/dx) at x with the given difference formula.
func scaleLength(lnq func(float64) (float64, error), x float64, formula fd.Formula) (float64, error) {
	var ferr error
	f := func(x float64) float64 {
		v, err := lnq(x)
		if err != nil && ferr == nil {
			ferr = err
		}
		return v
	}
	deriv := fd.Derivative(f, x, &fd.Settings{Formula: formula, Step: estimateStep})
	if ferr != nil {
		return 0, ferr
	}
	return -1 / deriv, nil
}

// EstimateHr estimates the radial scale length of the density at (R, z).
// A nil z uses the surface density instead.
func (d *DF) EstimateHr(R float64, z *float64, opts ...MomentOption) (float64, error) {
	if z == nil {
		return scaleLength(func(r float64) (float64, error) {
			s, err := d.SurfaceMassZ(r, opts...)
			return math.Log(s), err
		}, R, fd.Central)
	}
	zz := *z
	return scaleLength(func(r float64) (float64, error) {
		rho, err := d.Density(r, zz, opts...)
		return math.Log(rho), err
	}, R, fd.Central)
}

// EstimateHz estimates the vertical scale height of the density at (R, z).
// At z = 0 the density is flat, so a forward difference is used there and
// the result is large but finite.
func (d *DF) EstimateHz(R, z float64, opts ...MomentOption) (float64, error) {
	formula := fd.Central
	if z == 0 {
		formula = fd.Forward
	}
	return scaleLength(func(zz float64) (float64, error) {
		rho, err := d.Density(R, zz, opts...)
		return math.Log(rho), err
	}, z, formula)
}

// EstimateHsr estimates the radial scale length of σR at (R, z).
func (d *DF) EstimateHsr(R, z float64, opts ...MomentOption) (float64, error) {
	return scaleLength(func(r float64) (float64, error) {
		s2, err := d.SigmaR2(r, z, opts...)
		return 0.5 * math.Log(s2), err
	}, R, fd.Central)
}

// EstimateHsz estimates the radial scale length of σz at (R, z).
func (d *DF) EstimateHsz(R, z float64, opts ...MomentOption) (float64, error) {
	return scaleLength(func(r float64) (float64, error) {
		s2, err := d.Sigmaz2(r, z, opts...)
		return 0.5 * math.Log(s2), err
	}, R, fd.Central)
}

// SurfaceMassZ is the density integrated over |z| < 1 at R.
func (d *DF) SurfaceMassZ(R float64, opts ...MomentOption) (float64, error) {
	var ferr error
	s := quadrature.Fixed(func(z float64) float64 {
		rho, err := d.Density(R, z, opts...)
		if err != nil && ferr == nil {
			ferr = err
		}
		return rho
	}, 0, surfaceZMax, surfaceOrder)
	return 2 * s, ferr
}

// IsothermalHz is the scale height σz²/(4π ∫₀^zBound ρ dz) of an
// isothermal layer in the potential's own density at R.
func IsothermalHz(pot potential.Potential, R, sigmaZ, zBound float64) float64 {
	col := quadrature.Fixed(func(z float64) float64 {
		return potential.EvaluateDensities(pot, R, z)
	}, 0, zBound, hzOrder)
	return sigmaZ * sigmaZ / 2 / col / (2 * math.Pi)
}
