package potential

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/numeric"
)

// planarRforce evaluates the mid-plane force, retrying once on the planar
// reduction when pot is a full 3D model.
func planarRforce(pot Potential, R float64) (float64, error) {
	f, err := EvaluatePlanarRforces(pot, R)
	if errors.Is(err, dynamo.ErrPotential) {
		p, perr := ToPlanar(pot)
		if perr != nil {
			return 0, perr
		}
		return EvaluatePlanarRforces(p, R)
	}
	return f, err
}

func planarR2deriv(pot Potential, R float64) (float64, error) {
	d, err := EvaluatePlanarR2derivs(pot, R)
	if errors.Is(err, dynamo.ErrPotential) {
		p, perr := ToPlanar(pot)
		if perr != nil {
			return 0, perr
		}
		return EvaluatePlanarR2derivs(p, R)
	}
	return d, err
}

// Vcirc is the circular velocity √(-R·F_R) in the mid-plane.
func Vcirc(pot Potential, R float64) (float64, error) {
	f, err := planarRforce(pot, R)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(-R * f), nil
}

// DvcircdR is the radial derivative of the circular velocity.
func DvcircdR(pot Potential, R float64) (float64, error) {
	f, err := planarRforce(pot, R)
	if err != nil {
		return 0, err
	}
	d2, err := planarR2deriv(pot, R)
	if err != nil {
		return 0, err
	}
	return 0.5 * (-f + R*d2) / math.Sqrt(-R*f), nil
}

// Omegac is the circular angular frequency.
func Omegac(pot Potential, R float64) (float64, error) {
	f, err := planarRforce(pot, R)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(-f / R), nil
}

// Epifreq is the epicycle frequency κ.
func Epifreq(pot Potential, R float64) (float64, error) {
	f, err := planarRforce(pot, R)
	if err != nil {
		return 0, err
	}
	d2, err := planarR2deriv(pot, R)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(d2 - 3*f/R), nil
}

// Verticalfreq is the vertical oscillation frequency ν at the mid-plane.
func Verticalfreq(pot Potential, R float64) float64 {
	return math.Sqrt(Evaluatez2derivs(pot, R, 0))
}

// Rl is the radius of the circular orbit with angular momentum |lz|.
func Rl(pot Potential, lz float64) (float64, error) {
	lz = math.Abs(lz)
	if lz == 0 {
		return 0, nil
	}

	var ferr error
	f := func(R float64) float64 {
		vc, err := Vcirc(pot, R)
		if err != nil && ferr == nil {
			ferr = err
		}
		return lz - R*vc
	}

	lo, hi, err := numeric.BracketOut(f, 1e-8, 0.01, 1.5, 1e6)
	if ferr != nil {
		return 0, ferr
	}
	if err != nil {
		return 0, fmt.Errorf("guiding radius for Lz=%g: %w", lz, err)
	}
	r, err := numeric.Brent(f, lo, hi, 1e-12)
	if ferr != nil {
		return 0, ferr
	}
	return r, err
}

// CalcRotcurve evaluates vc at each radius.
func CalcRotcurve(pot Potential, Rs []float64) ([]float64, error) {
	out := make([]float64, len(Rs))
	for i, R := range Rs {
		vc, err := Vcirc(pot, R)
		if err != nil {
			return nil, fmt.Errorf("rotation curve at R=%g: %w", R, err)
		}
		out[i] = vc
	}
	return out, nil
}
