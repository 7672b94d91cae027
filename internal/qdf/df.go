package qdf

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/galkin/internal/actionangle"
	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
)

const (
	DefaultRefR = 1.0
	DefaultLo   = 10.0 / 220.0 / 8.0
	DefaultNLz  = 201

	rgTableLzMin = 0.01
)

// Params are the scale parameters of the distribution function.
type Params struct {
	Hr      float64 `yaml:"hr" json:"hr"`
	SigmaR  float64 `yaml:"sigma_r" json:"sigma_r"`
	SigmaZ  float64 `yaml:"sigma_z" json:"sigma_z"`
	HsigmaR float64 `yaml:"hsigma_r" json:"hsigma_r"`
	HsigmaZ float64 `yaml:"hsigma_z" json:"hsigma_z"`
}

func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"hr", p.Hr}, {"sigma_r", p.SigmaR}, {"sigma_z", p.SigmaZ},
		{"hsigma_r", p.HsigmaR}, {"hsigma_z", p.HsigmaZ},
	}
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s=%g", dynamo.ErrInvalidParam, f.name, f.value)
		}
	}
	return nil
}

// DF is a quasi-isothermal distribution function bound to a potential and
// an action-angle transform.
type DF struct {
	params Params
	pot    potential.Potential
	aa     actionangle.Transform

	cutCounter   bool
	precomputeRg bool
	rgMax        float64
	nLz          int
	refR         float64
	lo           float64
	seed         uint64
	logger       *slog.Logger

	rgOnce  sync.Once
	rgTable *rgTable
}

type rgTable struct {
	lzMin, lzMax float64
	spline       interp.NaturalCubic
}

type Option func(*DF)

// WithCutCounter suppresses counter-rotating orbits (Lz < 0).
func WithCutCounter(cut bool) Option {
	return func(d *DF) { d.cutCounter = cut }
}

// WithPrecomputeRg toggles the interpolated guiding-radius table.
func WithPrecomputeRg(on bool) Option {
	return func(d *DF) { d.precomputeRg = on }
}

// WithRgGrid sets the outer radius and the number of Lz samples of the
// guiding-radius table.
func WithRgGrid(rmax float64, nLz int) Option {
	return func(d *DF) {
		d.rgMax = rmax
		d.nLz = nLz
	}
}

func WithRefR(r0 float64) Option {
	return func(d *DF) { d.refR = r0 }
}

// WithLo sets the angular-momentum scale of the rotation term.
func WithLo(lo float64) Option {
	return func(d *DF) { d.lo = lo }
}

// WithSeed seeds the Monte Carlo sources used when a call supplies none.
func WithSeed(seed uint64) Option {
	return func(d *DF) { d.seed = seed }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *DF) { d.logger = l }
}

// New builds a distribution function. The transform must be bound to pot.
func New(p Params, pot potential.Potential, aa actionangle.Transform, opts ...Option) (*DF, error) {
	if pot == nil {
		return nil, dynamo.ErrNoPotential
	}
	if aa == nil {
		return nil, dynamo.ErrNoActionAngle
	}
	if !potential.Equal(aa.Potential(), pot) {
		return nil, dynamo.ErrPotentialMismatch
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d := &DF{
		params:       p,
		pot:          pot,
		aa:           aa,
		precomputeRg: true,
		rgMax:        5 * math.Max(math.Max(p.Hr, p.HsigmaR), math.Max(p.HsigmaZ, 1)),
		nLz:          DefaultNLz,
		refR:         DefaultRefR,
		lo:           DefaultLo,
		seed:         1,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.nLz < 4 {
		return nil, fmt.Errorf("%w: nLz=%d", dynamo.ErrInvalidParam, d.nLz)
	}
	if !(d.lo > 0) || !(d.rgMax > 0) {
		return nil, fmt.Errorf("%w: lo=%g rmax=%g", dynamo.ErrInvalidParam, d.lo, d.rgMax)
	}
	return d, nil
}

func (d *DF) Params() Params                     { return d.params }
func (d *DF) Potential() potential.Potential     { return d.pot }
func (d *DF) ActionAngle() actionangle.Transform { return d.aa }
func (d *DF) CutCounter() bool                   { return d.cutCounter }

// Rg returns the guiding-centre radius for angular momentum |lz|.
func (d *DF) Rg(lz float64) (float64, error) {
	lz = math.Abs(lz)
	if d.precomputeRg {
		d.rgOnce.Do(d.buildRgTable)
		if t := d.rgTable; t != nil && lz >= t.lzMin && lz <= t.lzMax {
			return t.spline.Predict(lz), nil
		}
	}
	return potential.Rl(d.pot, lz)
}

func (d *DF) buildRgTable() {
	vc, err := potential.Vcirc(d.pot, d.rgMax)
	if err != nil {
		d.logger.Warn("guiding-radius table disabled", "error", err)
		return
	}
	lzMax := d.rgMax * vc
	lzs := make([]float64, d.nLz)
	rgs := make([]float64, d.nLz)
	step := (lzMax - rgTableLzMin) / float64(d.nLz-1)
	for i := range lzs {
		lzs[i] = rgTableLzMin + float64(i)*step
		rg, err := potential.Rl(d.pot, lzs[i])
		if err != nil {
			d.logger.Warn("guiding-radius table disabled", "lz", lzs[i], "error", err)
			return
		}
		rgs[i] = rg
	}

	t := &rgTable{lzMin: lzs[0], lzMax: lzs[len(lzs)-1]}
	if err := t.spline.Fit(lzs, rgs); err != nil {
		d.logger.Warn("guiding-radius table disabled", "error", err)
		return
	}
	d.rgTable = t
	d.logger.Debug("built guiding-radius table", "n", d.nLz, "lz_max", lzMax)
}

// Dispersions returns the input dispersions σR(R) and σz(R).
func (d *DF) Dispersions(R float64) (sr, sz float64) { return d.sigmas(R) }

func (d *DF) sigmas(R float64) (sr, sz float64) {
	sr = d.params.SigmaR * math.Exp((d.refR-R)/d.params.HsigmaR)
	sz = d.params.SigmaZ * math.Exp((d.refR-R)/d.params.HsigmaZ)
	return sr, sz
}
