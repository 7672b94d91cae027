package qdf

import (
	"math"
	"sync"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
)

type epicycle struct {
	kappa, nu float64
}

// freqCache memoises rg(|Lz|) and (κ, ν)(rg) for the duration of one
// moment or marginal evaluation. Keys are exact float bits.
type freqCache struct {
	mu  sync.Mutex
	rg  map[uint64]float64
	epi map[uint64]epicycle
}

func newFreqCache() *freqCache {
	return &freqCache{
		rg:  make(map[uint64]float64),
		epi: make(map[uint64]epicycle),
	}
}

// frequencies returns rg, κ, ν and Ω = |Lz|/rg² for the angular momentum.
// A nil cache computes everything directly.
func (d *DF) frequencies(lz float64, c *freqCache) (dynamo.Frequencies, error) {
	alz := math.Abs(lz)

	rg, ok := c.lookupRg(alz)
	if !ok {
		var err error
		if rg, err = d.Rg(alz); err != nil {
			return dynamo.Frequencies{}, err
		}
		c.storeRg(alz, rg)
	}
	if rg <= 0 {
		return dynamo.Frequencies{Rg: rg}, nil
	}

	epi, ok := c.lookupEpi(rg)
	if !ok {
		kappa, err := potential.Epifreq(d.pot, rg)
		if err != nil {
			return dynamo.Frequencies{}, err
		}
		epi = epicycle{kappa: kappa, nu: potential.Verticalfreq(d.pot, rg)}
		c.storeEpi(rg, epi)
	}

	return dynamo.Frequencies{Rg: rg, Kappa: epi.kappa, Nu: epi.nu, Omega: alz / (rg * rg)}, nil
}

func (c *freqCache) lookupRg(alz float64) (float64, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rg, ok := c.rg[math.Float64bits(alz)]
	return rg, ok
}

func (c *freqCache) storeRg(alz, rg float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.rg[math.Float64bits(alz)] = rg
	c.mu.Unlock()
}

func (c *freqCache) lookupEpi(rg float64) (epicycle, bool) {
	if c == nil {
		return epicycle{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.epi[math.Float64bits(rg)]
	return e, ok
}

func (c *freqCache) storeEpi(rg float64, e epicycle) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.epi[math.Float64bits(rg)] = e
	c.mu.Unlock()
}
