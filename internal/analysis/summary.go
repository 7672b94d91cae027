package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/galkin/internal/dynamo"
)

// Stats summarises a sample.
type Stats struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

func (s Stats) String() string {
	return fmt.Sprintf("n=%d mean=%.5g std=%.5g min=%.5g max=%.5g", s.N, s.Mean, s.Std, s.Min, s.Max)
}

// Summary returns the sample statistics of xs. The standard deviation is
// zero for fewer than two values.
func Summary(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	s := Stats{N: len(xs), Min: floats.Min(xs), Max: floats.Max(xs)}
	if len(xs) == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(xs, nil)
	return s
}

// Histogram holds bin edges (one more than counts) and counts.
type Histogram struct {
	Edges  []float64
	Counts []float64
}

// VelocityHistogram bins component (0 = vR, 1 = vT, 2 = vz) of the samples
// into equal-width bins spanning their range.
func VelocityHistogram(samples [][3]float64, component, bins int) (Histogram, error) {
	if component < 0 || component > 2 || bins < 1 {
		return Histogram{}, fmt.Errorf("%w: component=%d bins=%d", dynamo.ErrInvalidParam, component, bins)
	}
	if len(samples) == 0 {
		return Histogram{}, fmt.Errorf("%w: no samples", dynamo.ErrShape)
	}

	xs := make([]float64, len(samples))
	for i, v := range samples {
		xs[i] = v[component]
	}
	sort.Float64s(xs)

	lo, hi := xs[0], xs[len(xs)-1]
	if hi == lo {
		lo, hi = lo-0.5, hi+0.5
	}
	// The last divider is exclusive.
	hi += 1e-9 * (hi - lo)

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[0], edges[bins] = lo, hi
	return Histogram{Edges: edges, Counts: stat.Histogram(nil, edges, xs, nil)}, nil
}
