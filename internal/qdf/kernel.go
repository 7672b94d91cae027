package qdf

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/galkin/internal/dynamo"
)

// LogZero is the log-density reported for zero density.
const LogZero = -math.MaxFloat64

// EvalOptions control a single evaluation of the distribution function.
type EvalOptions struct {
	// Log returns ln f instead of f.
	Log bool
	// Func multiplies the density. It receives the actions of the point.
	Func func(jr, lz, jz float64) float64
	// Freqs skips the guiding-radius and frequency computation.
	Freqs *dynamo.Frequencies
}

// Evaluation is a density value together with the actions and frequencies
// it was computed from.
type Evaluation struct {
	Value   float64
	Actions dynamo.Actions
	Freqs   dynamo.Frequencies
}

// Eval evaluates the distribution function at 3 actions (Jr, Lz, Jz) or at 5
// phase-space coordinates (R, vR, vT, z, vz).
func (d *DF) Eval(opts EvalOptions, coords ...float64) (Evaluation, error) {
	acts, w, err := dynamo.Coordinates(coords)
	if err != nil {
		return Evaluation{}, err
	}
	if acts != nil {
		return d.EvalActions(*acts, opts)
	}
	return d.EvalPhaseSpace(*w, opts)
}

// EvalActions evaluates the distribution function at the given actions.
func (d *DF) EvalActions(a dynamo.Actions, opts EvalOptions) (Evaluation, error) {
	return d.evalActions(a, opts, nil)
}

// EvalPhaseSpace converts w to actions with the bound transform and
// evaluates the distribution function there. Unbound orbits have zero
// density.
func (d *DF) EvalPhaseSpace(w dynamo.PhaseSpace, opts EvalOptions) (Evaluation, error) {
	return d.evalPhaseSpace(w, opts, nil)
}

func (d *DF) evalPhaseSpace(w dynamo.PhaseSpace, opts EvalOptions, c *freqCache) (Evaluation, error) {
	if !w.IsValid() {
		return Evaluation{}, &dynamo.EvalError{
			Op: "evaluate", R: w.R, Z: w.Z,
			Wrapped: fmt.Errorf("%w: phase-space point %s", dynamo.ErrInvalidParam, w),
		}
	}
	if d.cutCounter && w.Lz() < 0 {
		return zeroEvaluation(opts.Log, dynamo.Actions{Lz: w.Lz()}), nil
	}
	acts, err := d.aa.Actions(w)
	if errors.Is(err, dynamo.ErrUnbound) {
		return zeroEvaluation(opts.Log, dynamo.Actions{Lz: w.Lz()}), nil
	}
	if err != nil {
		return Evaluation{}, err
	}
	return d.evalActions(acts, opts, c)
}

func (d *DF) evalActions(a dynamo.Actions, opts EvalOptions, c *freqCache) (Evaluation, error) {
	if d.cutCounter && a.Lz < 0 {
		return zeroEvaluation(opts.Log, a), nil
	}

	var fr dynamo.Frequencies
	if opts.Freqs != nil {
		fr = *opts.Freqs
	} else {
		var err error
		if fr, err = d.frequencies(a.Lz, c); err != nil {
			return Evaluation{}, fmt.Errorf("frequencies for Lz=%g: %w", a.Lz, err)
		}
	}

	logf := d.logDensity(a, fr)
	ev := Evaluation{Actions: a, Freqs: fr}
	if logf == LogZero {
		if opts.Log {
			ev.Value = LogZero
		}
		return ev, nil
	}

	if opts.Log {
		ev.Value = logf
		if opts.Func != nil {
			ev.Value = addLog(logf, opts.Func(a.Jr, a.Lz, a.Jz))
		}
		return ev, nil
	}
	ev.Value = math.Exp(logf)
	if opts.Func != nil {
		ev.Value *= opts.Func(a.Jr, a.Lz, a.Jz)
	}
	return ev, nil
}

// logDensity is ln f for the given actions and frequencies.
func (d *DF) logDensity(a dynamo.Actions, fr dynamo.Frequencies) float64 {
	if fr.Rg <= 0 || fr.Omega <= 0 || fr.Kappa <= 0 || fr.Nu <= 0 {
		return LogZero
	}
	p := d.params
	lnSurf := (d.refR - fr.Rg) / p.Hr
	lnSR := math.Log(p.SigmaR) + (d.refR-fr.Rg)/p.HsigmaR
	lnSZ := math.Log(p.SigmaZ) + (d.refR-fr.Rg)/p.HsigmaZ

	radial := math.Log(fr.Omega) + lnSurf - 2*lnSR - math.Log(math.Pi) - math.Log(fr.Kappa) +
		lnOnePlusTanh(a.Lz/d.lo) - fr.Kappa*a.Jr/math.Exp(2*lnSR)
	vertical := math.Log(fr.Nu) - math.Log(2*math.Pi) - 2*lnSZ - fr.Nu*a.Jz/math.Exp(2*lnSZ)

	logf := radial + vertical
	if math.IsNaN(logf) || logf < LogZero {
		return LogZero
	}
	return logf
}

// lnOnePlusTanh is ln(1 + tanh x) = ln 2 - ln(1 + e^{-2x}), finite for all x.
func lnOnePlusTanh(x float64) float64 {
	y := -2 * x
	if y > 0 {
		return math.Ln2 - (y + math.Log1p(math.Exp(-y)))
	}
	return math.Ln2 - math.Log1p(math.Exp(y))
}

// addLog is logf + ln x, with non-positive x mapped to LogZero.
func addLog(logf, x float64) float64 {
	if !(x > 0) {
		return LogZero
	}
	v := logf + math.Log(x)
	if math.IsNaN(v) || v < LogZero {
		return LogZero
	}
	return v
}

func zeroEvaluation(log bool, a dynamo.Actions) Evaluation {
	ev := Evaluation{Actions: a}
	if log {
		ev.Value = LogZero
	}
	return ev
}
