package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/galkin/internal/analysis"
	"github.com/san-kum/galkin/internal/config"
	"github.com/san-kum/galkin/internal/qdf"
	"github.com/san-kum/galkin/internal/quadrature"
)

// Experiment is a distribution function built from a configuration.
type Experiment struct {
	cfg    *config.Config
	df     *qdf.DF
	logger *slog.Logger
}

// New validates cfg and builds its potential, transform and DF. A nil
// logger uses slog.Default().
func New(cfg *config.Config, reg *Registry, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	pot, err := reg.GetPotential(cfg.Potential)
	if err != nil {
		return nil, err
	}
	aa, err := reg.GetTransform(cfg.ActionAngle.Name, pot, cfg.ActionAngle.Delta)
	if err != nil {
		return nil, err
	}

	params := qdf.Params{
		Hr:      cfg.DF.Hr,
		SigmaR:  cfg.DF.SigmaR,
		SigmaZ:  cfg.DF.SigmaZ,
		HsigmaR: cfg.DF.HsigmaR,
		HsigmaZ: cfg.DF.HsigmaZ,
	}
	df, err := qdf.New(params, pot, aa,
		qdf.WithCutCounter(cfg.DF.CutCounter),
		qdf.WithPrecomputeRg(cfg.DF.PrecomputeRg),
		qdf.WithSeed(cfg.Seed),
		qdf.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Experiment{cfg: cfg, df: df, logger: logger}, nil
}

func (e *Experiment) DF() *qdf.DF            { return e.df }
func (e *Experiment) Config() *config.Config { return e.cfg }

// MomentOptions translates the quadrature settings into moment options.
func (e *Experiment) MomentOptions() []qdf.MomentOption {
	q := e.cfg.Quadrature
	opts := []qdf.MomentOption{qdf.NSigma(q.NSigma), qdf.VTMax(q.VTMax)}
	if e.cfg.Method() == quadrature.MC {
		return append(opts, qdf.MC(q.NMC))
	}
	return append(opts, qdf.GL(q.NGL))
}

// MarginalOptions are the quadrature settings that apply to marginal
// densities, which keep their own default order.
func (e *Experiment) MarginalOptions() []qdf.MomentOption {
	return []qdf.MomentOption{qdf.NSigma(e.cfg.Quadrature.NSigma), qdf.VTMax(e.cfg.Quadrature.VTMax)}
}

// Radii returns the profile grid.
func (e *Experiment) Radii() []float64 {
	p := e.cfg.Profile
	if p.NR == 1 {
		return []float64{p.RMin}
	}
	return floats.Span(make([]float64, p.NR), p.RMin, p.RMax)
}

// Profile computes the moments at every radius of the profile grid. It
// stops between radii when ctx is cancelled.
func (e *Experiment) Profile(ctx context.Context) (analysis.Profile, error) {
	radii := e.Radii()
	z := e.cfg.Profile.Z
	opts := e.MomentOptions()

	p := make(analysis.Profile, 0, len(radii))
	for _, R := range radii {
		select {
		case <-ctx.Done():
			return p, ctx.Err()
		default:
		}

		row, err := analysis.RowAt(e.df, R, z, opts...)
		if err != nil {
			return p, fmt.Errorf("profile at R=%g: %w", R, err)
		}
		e.logger.Debug("profile row", "R", R, "z", z, "mean_vt", row.MeanVT)
		p = append(p, row)
	}
	return p, nil
}
