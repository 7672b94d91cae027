// Package numeric provides scalar root finding for turning-point searches.
package numeric

import (
	"errors"
	"math"
)

var (
	// ErrNoBracket indicates the function does not change sign on the interval.
	ErrNoBracket = errors.New("numeric: root is not bracketed")

	// ErrMaxIter indicates the solver ran out of iterations.
	ErrMaxIter = errors.New("numeric: maximum iterations exceeded")
)

const maxIter = 200

// Brent finds a root of f in [a, b] with Brent's method. f(a) and f(b) must
// have opposite signs (or one of them be zero).
func Brent(f func(float64) float64, a, b, tol float64) (float64, error) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, ErrNoBracket
	}

	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < maxIter; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*math.SmallestNonzeroFloat64 + 0.5*tol + 4e-16*math.Abs(b)
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// inverse quadratic interpolation, or secant when a == c
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else if xm > 0 {
			b += tol1
		} else {
			b -= tol1
		}
		fb = f(b)
	}

	return b, ErrMaxIter
}

// BracketOut walks from x0 upward, multiplying the step by grow, until f
// becomes negative. It returns the last non-negative point and the first
// negative one. Walking stops with ErrNoBracket once x exceeds limit.
func BracketOut(f func(float64) float64, x0, step, grow, limit float64) (lo, hi float64, err error) {
	lo = x0
	x := x0 + step
	for x <= limit {
		if f(x) < 0 {
			return lo, x, nil
		}
		lo = x
		step *= grow
		x = lo + step
	}
	return lo, x, ErrNoBracket
}

// BracketIn walks from x0 toward floor, halving the distance to floor each
// time, until f becomes negative. It returns the first negative point and the
// last non-negative one. If f stays non-negative down to floor, floor is
// returned as both ends with ErrNoBracket.
func BracketIn(f func(float64) float64, x0, floor float64) (lo, hi float64, err error) {
	hi = x0
	for i := 0; i < 64; i++ {
		x := floor + 0.5*(hi-floor)
		if x == hi || x <= floor {
			break
		}
		if f(x) < 0 {
			return x, hi, nil
		}
		hi = x
	}
	return floor, floor, ErrNoBracket
}
