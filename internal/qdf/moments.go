package qdf

import (
	"math"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/quadrature"
)

// MomentSet holds the velocity moments at one (R, z), all computed from a
// single evaluated grid. Second moments are central moments.
type MomentSet struct {
	Density float64 `json:"density"`
	MeanVR  float64 `json:"mean_vr"`
	MeanVT  float64 `json:"mean_vt"`
	MeanVz  float64 `json:"mean_vz"`
	SigmaR2 float64 `json:"sigma_r2"`
	SigmaT2 float64 `json:"sigma_t2"`
	Sigmaz2 float64 `json:"sigma_z2"`
	SigmaRz float64 `json:"sigma_rz"`
	Tilt    float64 `json:"tilt"`
	MeanJr  float64 `json:"mean_jr"`
	MeanLz  float64 `json:"mean_lz"`
	MeanJz  float64 `json:"mean_jz"`
}

func momentsFromGrid(g *grid) (MomentSet, error) {
	s0 := g.sum(func(int) float64 { return 1 })
	if !(s0 > 0) {
		return MomentSet{}, &dynamo.EvalError{Op: "moments", R: g.R, Z: g.z, Wrapped: dynamo.ErrZeroDensity}
	}
	mean := func(h func(i int) float64) float64 { return g.sum(h) / s0 }

	m := MomentSet{Density: s0}
	m.MeanVR = mean(func(i int) float64 { return g.v[i][0] })
	m.MeanVT = mean(func(i int) float64 { return g.v[i][1] })
	m.MeanVz = mean(func(i int) float64 { return g.v[i][2] })
	m.SigmaR2 = mean(func(i int) float64 { return g.v[i][0] * g.v[i][0] }) - m.MeanVR*m.MeanVR
	m.SigmaT2 = mean(func(i int) float64 { return g.v[i][1] * g.v[i][1] }) - m.MeanVT*m.MeanVT
	m.Sigmaz2 = mean(func(i int) float64 { return g.v[i][2] * g.v[i][2] }) - m.MeanVz*m.MeanVz
	m.SigmaRz = mean(func(i int) float64 { return g.v[i][0] * g.v[i][2] }) - m.MeanVR*m.MeanVz
	m.Tilt = tilt(m.SigmaR2, m.Sigmaz2, m.SigmaRz)
	m.MeanJr = mean(func(i int) float64 { return g.acts[i].Jr })
	m.MeanLz = mean(func(i int) float64 { return g.acts[i].Lz })
	m.MeanJz = mean(func(i int) float64 { return g.acts[i].Jz })
	return m, nil
}

// tilt is the vertex angle of the velocity ellipsoid in degrees.
func tilt(sR2, sz2, sRz float64) float64 {
	return 0.5 * math.Atan2(2*sRz, sR2-sz2) * 180 / math.Pi
}

// Moments computes every first and second velocity moment at (R, z).
func (d *DF) Moments(R, z float64, opts ...MomentOption) (MomentSet, error) {
	return d.moments(R, z, quadrature.GL, opts)
}

func (d *DF) moments(R, z float64, method quadrature.Method, opts []MomentOption) (MomentSet, error) {
	c, err := d.configure(method, quadrature.DefaultNGL, opts)
	if err != nil {
		return MomentSet{}, err
	}
	g, err := d.momentGrid(R, z, c)
	if err != nil {
		return MomentSet{}, err
	}
	return momentsFromGrid(g)
}

// VMomentDensity is ∫ vR^n vT^m vz^o f d³v at (R, z).
func (d *DF) VMomentDensity(R, z, n, m, o float64, opts ...MomentOption) (float64, error) {
	c, err := d.configure(quadrature.GL, quadrature.DefaultNGL, opts)
	if err != nil {
		return 0, err
	}
	g, err := d.momentGrid(R, z, c)
	if err != nil {
		return 0, err
	}
	return g.sum(func(i int) float64 {
		v := g.v[i]
		return math.Pow(v[0], n) * math.Pow(v[1], m) * math.Pow(v[2], o)
	}), nil
}

// Density is the zeroth velocity moment at (R, z). Unlike the other
// moments it is zero rather than an error where the population vanishes.
func (d *DF) Density(R, z float64, opts ...MomentOption) (float64, error) {
	return d.VMomentDensity(R, z, 0, 0, 0, opts...)
}

func (d *DF) pick(R, z float64, method quadrature.Method, opts []MomentOption, field func(MomentSet) float64) (float64, error) {
	m, err := d.moments(R, z, method, opts)
	if err != nil {
		return 0, err
	}
	return field(m), nil
}

func (d *DF) MeanVR(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.MeanVR })
}

func (d *DF) MeanVT(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.MeanVT })
}

func (d *DF) MeanVz(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.MeanVz })
}

func (d *DF) SigmaR2(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.SigmaR2 })
}

func (d *DF) SigmaT2(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.SigmaT2 })
}

func (d *DF) Sigmaz2(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.Sigmaz2 })
}

func (d *DF) SigmaRz(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.SigmaRz })
}

// Tilt is ½·atan2(2σRz, σR² − σz²) in degrees.
func (d *DF) Tilt(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.GL, opts, func(m MomentSet) float64 { return m.Tilt })
}

// MeanJr is the density-weighted mean radial action. Monte Carlo
// integration is the default for the action means.
func (d *DF) MeanJr(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.MC, opts, func(m MomentSet) float64 { return m.MeanJr })
}

func (d *DF) MeanLz(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.MC, opts, func(m MomentSet) float64 { return m.MeanLz })
}

func (d *DF) MeanJz(R, z float64, opts ...MomentOption) (float64, error) {
	return d.pick(R, z, quadrature.MC, opts, func(m MomentSet) float64 { return m.MeanJz })
}
