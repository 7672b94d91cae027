package qdf

import (
	"math"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
	"github.com/san-kum/galkin/internal/quadrature"
)

// gamma is the ratio σT/σR assumed by the Monte Carlo proposal.
var gamma = math.Sqrt(0.5)

// axis is a set of quadrature nodes along one velocity component.
type axis struct {
	x, w []float64
}

func point(v float64) axis {
	return axis{x: []float64{v}, w: []float64{1}}
}

func symmetricAxis(ngl int, scale float64) (axis, error) {
	x, w, err := quadrature.HalfNodes(ngl, scale)
	return axis{x: x, w: w}, err
}

func tangentialAxis(ngl int, vTmax float64) axis {
	x, w := quadrature.Interval(ngl, 0, vTmax)
	return axis{x: x, w: w}
}

// grid holds the velocity nodes at one (R, z) together with their
// quadrature weights, densities and actions.
type grid struct {
	R, z float64
	v    [][3]float64
	w    []float64
	f    []float64
	acts []dynamo.Actions
}

func productGrid(R, z float64, vr, vt, vz axis) *grid {
	n := len(vr.x) * len(vt.x) * len(vz.x)
	g := &grid{R: R, z: z, v: make([][3]float64, 0, n), w: make([]float64, 0, n)}
	for i := range vr.x {
		for j := range vt.x {
			for k := range vz.x {
				g.v = append(g.v, [3]float64{vr.x[i], vt.x[j], vz.x[k]})
				g.w = append(g.w, vr.w[i]*vt.w[j]*vz.w[k])
			}
		}
	}
	return g
}

// glGrid is the full three-dimensional Gauss-Legendre grid: vR and vz on
// ±nσ·σ(R) split into symmetric halves, vT on [0, vTmax].
func (d *DF) glGrid(R, z float64, c *momentConfig) (*grid, error) {
	sr, sz := d.sigmas(R)
	if c.sigmaR1 > 0 {
		sr = c.sigmaR1
	}
	vr, err := symmetricAxis(c.ngl, c.nsigma*sr)
	if err != nil {
		return nil, err
	}
	vz, err := symmetricAxis(c.ngl, c.nsigma*sz)
	if err != nil {
		return nil, err
	}
	return productGrid(R, z, vr, tangentialAxis(c.ngl, c.vTmax), vz), nil
}

// AsymmetricDrift is the lag of the mean rotation behind vc at R implied by
// the radial Jeans equation for the local dispersion and scale lengths.
// Estimates larger than σR are reported as zero.
func (d *DF) AsymmetricDrift(R float64) (float64, error) {
	vc, err := potential.Vcirc(d.pot, R)
	if err != nil {
		return 0, err
	}
	return d.asymmetricDrift(R, vc), nil
}

func (d *DF) asymmetricDrift(R, vc float64) float64 {
	sr, _ := d.sigmas(R)
	va := sr * sr / (2 * vc) * (gamma*gamma - 1 + R*(1/d.params.Hr+2/d.params.HsigmaR))
	if math.Abs(va) > sr {
		return 0
	}
	return va
}

// mcGrid draws standard-normal triples and maps them to velocities around
// the expected mean rotation. Weights turn the sum into an unbiased estimate
// of the velocity-space integral.
func (d *DF) mcGrid(R, z float64, c *momentConfig) (*grid, error) {
	sr, sz := d.sigmas(R)
	vc, err := potential.Vcirc(d.pot, R)
	if err != nil {
		return nil, err
	}
	mvT := (vc - d.asymmetricDrift(R, vc)) / gamma / sr
	jac := sr * sr * gamma * sz * math.Pow(2*math.Pi, 1.5)

	xs := quadrature.NewGaussianProposal(c.rng).Draw(c.nmc)
	g := &grid{R: R, z: z, v: make([][3]float64, len(xs)), w: make([]float64, len(xs))}
	for i, x := range xs {
		g.v[i] = [3]float64{x[0] * sr, (x[1] + mvT) * sr * gamma, x[2] * sz}
		g.w[i] = jac * quadrature.InverseWeight(x, c.nmc)
	}
	return g, nil
}

func (d *DF) momentGrid(R, z float64, c *momentConfig) (*grid, error) {
	var (
		g   *grid
		err error
	)
	if c.method == quadrature.MC {
		g, err = d.mcGrid(R, z, c)
	} else {
		g, err = d.glGrid(R, z, c)
	}
	if err != nil {
		return nil, err
	}
	if err := d.evaluate(g, c.fn); err != nil {
		return nil, err
	}
	return g, nil
}

// evaluate fills the densities and actions of every node.
func (d *DF) evaluate(g *grid, fn func(jr, lz, jz float64) float64) error {
	n := len(g.v)
	g.f = make([]float64, n)
	g.acts = make([]dynamo.Actions, n)
	errs := make([]error, n)
	cache := newFreqCache()
	opts := EvalOptions{Func: fn}

	dynamo.ParallelFor(n, 32, func(start, end int) {
		for i := start; i < end; i++ {
			v := g.v[i]
			ev, err := d.evalPhaseSpace(dynamo.PhaseSpace{R: g.R, VR: v[0], VT: v[1], Z: g.z, VZ: v[2]}, opts, cache)
			if err != nil {
				errs[i] = err
				continue
			}
			g.f[i] = ev.Value
			g.acts[i] = ev.Actions
		}
	})

	for _, err := range errs {
		if err != nil {
			return &dynamo.EvalError{Op: "velocity grid", R: g.R, Z: g.z, Wrapped: err}
		}
	}
	return nil
}

// sum is Σ w f h(i) over the nodes.
func (g *grid) sum(h func(i int) float64) float64 {
	total := 0.0
	for i := range g.v {
		if g.f[i] == 0 {
			continue
		}
		total += g.w[i] * g.f[i] * h(i)
	}
	return total
}
