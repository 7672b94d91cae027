package qdf

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
	"github.com/san-kum/galkin/internal/quadrature"
)

const maxProposalsPerSample = 1000

// SampleV draws n velocities (vR, vT, vz) at (R, z) by rejection sampling
// from a Gaussian envelope twice as wide as the local dispersions, centred
// on the most probable vT. A nil rng uses a source seeded with the DF seed.
func (d *DF) SampleV(R, z float64, n int, rng *rand.Rand) ([][3]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n=%d", dynamo.ErrInvalidParam, n)
	}
	if n == 0 {
		return nil, nil
	}
	if rng == nil {
		rng = quadrature.NewSource(d.seed)
	}

	mode, maxLog, err := d.modeVT(R, z)
	if err != nil {
		return nil, err
	}
	if maxLog == LogZero {
		return nil, &dynamo.EvalError{Op: "sample velocities", R: R, Z: z, Wrapped: dynamo.ErrZeroDensity}
	}

	sr, sz := d.sigmas(R)
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	cache := newFreqCache()
	out := make([][3]float64, 0, n)
	proposed := 0

	for len(out) < n {
		if proposed > maxProposalsPerSample*n {
			return nil, &dynamo.EvalError{
				Op: "sample velocities", R: R, Z: z,
				Wrapped: fmt.Errorf("%w: accepted %d of %d proposals", dynamo.ErrZeroDensity, len(out), proposed),
			}
		}

		m := 2*(n-len(out)) + 16
		props := make([][3]float64, m)
		us := make([]float64, m)
		for i := range props {
			props[i] = [3]float64{norm.Rand() * 2 * sr, norm.Rand()*2*sr + mode, norm.Rand() * 2 * sz}
			us[i] = rng.Float64()
		}

		logs := make([]float64, m)
		errs := make([]error, m)
		dynamo.ParallelFor(m, 8, func(start, end int) {
			for i := start; i < end; i++ {
				v := props[i]
				ev, err := d.evalPhaseSpace(dynamo.PhaseSpace{R: R, VR: v[0], VT: v[1], Z: z, VZ: v[2]}, EvalOptions{Log: true}, cache)
				logs[i], errs[i] = ev.Value, err
			}
		})

		for i, v := range props {
			if errs[i] != nil {
				return nil, errs[i]
			}
			if len(out) == n {
				break
			}
			dvT := v[1] - mode
			ratio := logs[i] - maxLog + 0.5*(v[0]*v[0]/(4*sr*sr)+v[2]*v[2]/(4*sz*sz)+dvT*dvT/(4*sr*sr))
			if math.Exp(ratio) > us[i] {
				out = append(out, v)
			}
		}
		proposed += m
	}

	d.logger.Debug("sampled velocities", "R", R, "z", z, "n", n,
		"acceptance", float64(n)/float64(proposed))
	return out, nil
}

// modeVT maximises ln f(R, 0, vT, z, 0) over vT.
func (d *DF) modeVT(R, z float64) (mode, maxLog float64, err error) {
	vc, err := potential.Vcirc(d.pot, R)
	if err != nil {
		return 0, 0, err
	}
	start := vc - d.asymmetricDrift(R, vc)

	var ferr error
	logf := func(vT float64) float64 {
		ev, err := d.EvalPhaseSpace(dynamo.PhaseSpace{R: R, VT: vT, Z: z}, EvalOptions{Log: true})
		if err != nil && ferr == nil {
			ferr = err
		}
		return ev.Value
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return -logf(x[0]) },
	}
	res, err := optimize.Minimize(problem, []float64{start}, nil, &optimize.NelderMead{})
	if ferr != nil {
		return 0, 0, ferr
	}
	if res == nil {
		return 0, 0, fmt.Errorf("locating most probable vT: %w", err)
	}
	mode = res.X[0]
	return mode, logf(mode), nil
}
