package actionangle

import (
	"errors"
	"math"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
)

// Staeckel approximates the potential around each point by a Staeckel
// potential with focal length Delta, using the point's own u as u0.
type Staeckel struct {
	pot   potential.Potential
	Delta float64
	Order int
}

func NewStaeckel(pot potential.Potential, delta float64) *Staeckel {
	return &Staeckel{pot: pot, Delta: delta, Order: DefaultOrder}
}

func (s *Staeckel) Potential() potential.Potential { return s.pot }

// UV converts (R, z) to prolate spheroidal (u, v) with v in [0, π].
func UV(R, z, delta float64) (u, v float64) {
	d1 := math.Hypot(R, z+delta)
	d2 := math.Hypot(R, z-delta)
	u = math.Acosh(math.Max((d1+d2)/(2*delta), 1))
	v = math.Acos(math.Max(math.Min((d1-d2)/(2*delta), 1), -1))
	return u, v
}

func (s *Staeckel) phiUV(u, v float64) float64 {
	R := s.Delta * math.Sinh(u) * math.Sin(v)
	z := s.Delta * math.Cosh(u) * math.Cos(v)
	return potential.EvaluatePotentials(s.pot, R, z)
}

func (s *Staeckel) Actions(w dynamo.PhaseSpace) (dynamo.Actions, error) {
	d := s.Delta
	lz := w.Lz()
	e := potential.EvaluatePotentials(s.pot, w.R, w.Z) + w.KineticEnergy()

	ux, vx := UV(w.R, w.Z, d)
	shu, chu := math.Sinh(ux), math.Cosh(ux)
	sv, cv := math.Sin(vx), math.Cos(vx)
	pux := d * (w.VR*chu*sv + w.VZ*shu*cv)
	pvx := d * (w.VR*shu*cv - w.VZ*chu*sv)
	if vx > math.Pi/2 {
		vx = math.Pi - vx
		sv = math.Sin(vx)
	}

	u0 := ux
	ch2u0 := chu * chu
	sh2u0 := shu * shu
	phiu0 := s.phiUV(u0, math.Pi/2)

	d2 := d * d
	lzTerm := func(sin2 float64) float64 {
		if lz == 0 {
			return 0
		}
		return lz * lz / sin2
	}
	dU := func(u float64) float64 {
		c := math.Cosh(u)
		return c*c*s.phiUV(u, math.Pi/2) - ch2u0*phiu0
	}
	dV := func(v float64) float64 {
		sn := math.Sin(v)
		return ch2u0*phiu0 - (sh2u0+sn*sn)*s.phiUV(u0, v)
	}

	i3u := e*sh2u0 - pux*pux/(2*d2) - lzTerm(sh2u0)/(2*d2) - dU(ux)
	i3v := -e*sv*sv + pvx*pvx/(2*d2) + lzTerm(sv*sv)/(2*d2) - dV(vx)

	pu2 := func(u float64) float64 {
		sh := math.Sinh(u)
		return 2*d2*(e*sh*sh-i3u-dU(u)) - lzTerm(sh*sh)
	}
	pv2 := func(v float64) float64 {
		sn := math.Sin(v)
		return 2*d2*(e*sn*sn+i3v+dV(v)) - lzTerm(sn*sn)
	}

	umin, umax, err := turningPoints(pu2, ux, 0, 20)
	if err != nil {
		return dynamo.Actions{}, s.wrap(w, err)
	}
	jr := radialIntegral(pu2, umin, umax, s.Order) / math.Pi

	vmin, err := innerTurningPoint(pv2, vx, 0)
	if err != nil {
		return dynamo.Actions{}, s.wrap(w, err)
	}
	jz := 0.0
	if span := math.Pi/2 - vmin; span > 0 {
		jz = fixed(func(phi float64) float64 {
			v := math.Pi/2 - span*math.Cos(phi)
			return math.Sqrt(math.Max(pv2(v), 0)) * span * math.Sin(phi)
		}, 0, math.Pi/2, s.Order) * 2 / math.Pi
	}
	if math.IsNaN(jr) || math.IsNaN(jz) {
		return dynamo.Actions{}, unbound(w.R, w.Z)
	}
	return dynamo.Actions{Jr: jr, Lz: lz, Jz: jz}, nil
}

func (s *Staeckel) wrap(w dynamo.PhaseSpace, err error) error {
	if errors.Is(err, dynamo.ErrUnbound) {
		return unbound(w.R, w.Z)
	}
	return &dynamo.EvalError{Op: "staeckel actions", R: w.R, Z: w.Z, Wrapped: err}
}
