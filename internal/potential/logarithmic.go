package potential

import "math"

// LogarithmicHalo is Φ = amp/2·ln(R² + (z/q)² + core²). With core = 0 the
// rotation curve is flat.
type LogarithmicHalo struct {
	Amp  float64
	Q    float64
	Core float64
}

// NewLogarithmicHalo returns a halo whose contribution to vc² at R = 1 is norm.
func NewLogarithmicHalo(q, core, norm float64) *LogarithmicHalo {
	return &LogarithmicHalo{Amp: norm * (1 + core*core), Q: q, Core: core}
}

func (l *LogarithmicHalo) s(R, z float64) float64 {
	zq := z / l.Q
	return R*R + zq*zq + l.Core*l.Core
}

func (l *LogarithmicHalo) Evaluate(R, z float64) float64 {
	return 0.5 * l.Amp * math.Log(l.s(R, z))
}

func (l *LogarithmicHalo) Rforce(R, z float64) float64 {
	return -l.Amp * R / l.s(R, z)
}

func (l *LogarithmicHalo) Zforce(R, z float64) float64 {
	return -l.Amp * z / (l.Q * l.Q * l.s(R, z))
}

func (l *LogarithmicHalo) R2deriv(R, z float64) float64 {
	s := l.s(R, z)
	return l.Amp * (1/s - 2*R*R/(s*s))
}

func (l *LogarithmicHalo) Z2deriv(R, z float64) float64 {
	s := l.s(R, z)
	q2 := l.Q * l.Q
	return l.Amp * (1/(q2*s) - 2*z*z/(q2*q2*s*s))
}

func (l *LogarithmicHalo) Dens(R, z float64) float64 {
	s := l.s(R, z)
	return (l.Amp*(2/s-2*R*R/(s*s)) + l.Z2deriv(R, z)) / (4 * math.Pi)
}
