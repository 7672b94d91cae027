package qdf

import (
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/quadrature"
)

// MomentOption configures a moment, marginal or estimator call.
type MomentOption func(*momentConfig)

type momentConfig struct {
	method  quadrature.Method
	ngl     int
	nmc     int
	rng     *rand.Rand
	nsigma  float64
	vTmax   float64
	fn      func(jr, lz, jz float64) float64
	sigmaR1 float64
}

// GL integrates on a Gauss-Legendre grid of order ngl per velocity axis.
// ngl = 0 keeps the default order of the operation.
func GL(ngl int) MomentOption {
	return func(c *momentConfig) {
		c.method = quadrature.GL
		if ngl != 0 {
			c.ngl = ngl
		}
	}
}

// MC integrates by Monte Carlo importance sampling with n draws.
func MC(n int) MomentOption {
	return func(c *momentConfig) {
		c.method = quadrature.MC
		if n > 0 {
			c.nmc = n
		}
	}
}

// WithRand supplies the random source for Monte Carlo integration. Without
// it every call draws from a fresh source seeded with the DF seed.
func WithRand(r *rand.Rand) MomentOption {
	return func(c *momentConfig) { c.rng = r }
}

// NSigma sets the half-width of the vR and vz quadrature ranges in units of
// the local dispersion.
func NSigma(n float64) MomentOption {
	return func(c *momentConfig) { c.nsigma = n }
}

// VTMax sets the upper limit of the vT quadrature range.
func VTMax(v float64) MomentOption {
	return func(c *momentConfig) { c.vTmax = v }
}

// WithFunc weights every node by fn(Jr, Lz, Jz).
func WithFunc(fn func(jr, lz, jz float64) float64) MomentOption {
	return func(c *momentConfig) { c.fn = fn }
}

// SigmaR1 overrides the radial dispersion that sets the vR quadrature range.
func SigmaR1(s float64) MomentOption {
	return func(c *momentConfig) { c.sigmaR1 = s }
}

func (d *DF) configure(method quadrature.Method, ngl int, opts []MomentOption) (*momentConfig, error) {
	c := &momentConfig{
		method: method,
		ngl:    ngl,
		nmc:    quadrature.DefaultNMC,
		nsigma: quadrature.DefaultNSigma,
		vTmax:  quadrature.DefaultVTMax,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.method == quadrature.GL {
		if err := quadrature.CheckOrder(c.ngl); err != nil {
			return nil, err
		}
	}
	if c.nsigma <= 0 || c.vTmax <= 0 || c.sigmaR1 < 0 {
		return nil, fmt.Errorf("%w: nsigma=%g vTmax=%g sigmaR1=%g",
			dynamo.ErrInvalidParam, c.nsigma, c.vTmax, c.sigmaR1)
	}
	if c.rng == nil {
		c.rng = quadrature.NewSource(d.seed)
	}
	return c, nil
}
