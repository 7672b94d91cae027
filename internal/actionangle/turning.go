package actionangle

import (
	"math"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/numeric"
)

const rootTol = 1e-12

func offset(x0 float64) float64 {
	return 1e-8 * math.Max(math.Abs(x0), 1e-3)
}

// outerTurningPoint finds the zero of h above x0, where h(x0) >= 0 is a
// squared momentum. x0 is returned when it is itself the turning point.
func outerTurningPoint(h func(float64) float64, x0, limit float64) (float64, error) {
	x := x0 + offset(x0)
	if h(x) <= 0 {
		return x0, nil
	}
	a, b, err := numeric.BracketOut(h, x, 0.05*math.Max(x0, 1e-2), 1.5, limit)
	if err != nil {
		return 0, dynamo.ErrUnbound
	}
	return numeric.Brent(h, a, b, rootTol)
}

// innerTurningPoint finds the zero of h below x0, or floor when h stays
// positive all the way down.
func innerTurningPoint(h func(float64) float64, x0, floor float64) (float64, error) {
	x := x0 - offset(x0)
	if x <= floor || h(x) <= 0 {
		return x0, nil
	}
	a, b, err := numeric.BracketIn(h, x, floor)
	if err != nil {
		return floor, nil
	}
	return numeric.Brent(h, a, b, rootTol)
}

func turningPoints(h func(float64) float64, x0, floor, limit float64) (lo, hi float64, err error) {
	if hi, err = outerTurningPoint(h, x0, limit); err != nil {
		return 0, 0, err
	}
	if lo, err = innerTurningPoint(h, x0, floor); err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// radialIntegral is ∫_lo^hi √max(h, 0) dx with x = mid - half·cos φ.
func radialIntegral(h func(float64) float64, lo, hi float64, n int) float64 {
	if hi <= lo {
		return 0
	}
	mid := 0.5 * (hi + lo)
	half := 0.5 * (hi - lo)
	return fixed(func(phi float64) float64 {
		return math.Sqrt(math.Max(h(mid-half*math.Cos(phi)), 0)) * half * math.Sin(phi)
	}, 0, math.Pi, n)
}
