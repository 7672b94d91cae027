package qdf

import (
	"fmt"

	"github.com/san-kum/galkin/internal/dynamo"
)

// Map evaluates fn at every (R, z) pair. The slices must have equal length,
// or one of them length 1, in which case it is broadcast.
func Map(Rs, zs []float64, fn func(R, z float64) (float64, error)) ([]float64, error) {
	n := len(Rs)
	switch {
	case len(Rs) == len(zs):
	case len(Rs) == 1:
		n = len(zs)
	case len(zs) == 1:
	default:
		return nil, fmt.Errorf("%w: len(R)=%d len(z)=%d", dynamo.ErrShape, len(Rs), len(zs))
	}

	at := func(xs []float64, i int) float64 {
		if len(xs) == 1 {
			return xs[0]
		}
		return xs[i]
	}

	out := make([]float64, n)
	errs := make([]error, n)
	dynamo.ParallelFor(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			out[i], errs[i] = fn(at(Rs, i), at(zs, i))
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
