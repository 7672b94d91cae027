package quadrature

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewSource returns a reproducible PCG source for the seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GaussianProposal draws standard-normal triples for Monte Carlo integration.
type GaussianProposal struct {
	norm distuv.Normal
}

func NewGaussianProposal(src rand.Source) *GaussianProposal {
	return &GaussianProposal{norm: distuv.Normal{Mu: 0, Sigma: 1, Src: src}}
}

// Draw returns n triples.
func (g *GaussianProposal) Draw(n int) [][3]float64 {
	out := make([][3]float64, n)
	for i := range out {
		out[i] = [3]float64{g.norm.Rand(), g.norm.Rand(), g.norm.Rand()}
	}
	return out
}

// InverseWeight is 1/N times the reciprocal of the unnormalised standard
// normal density of the triple, without the (2π)^{3/2} factor.
func InverseWeight(x [3]float64, n int) float64 {
	return math.Exp(0.5*(x[0]*x[0]+x[1]*x[1]+x[2]*x[2])) / float64(n)
}
