package potential

import "math"

// MiyamotoNagai is the flattened disk potential Φ = -amp/√(R² + (a + √(z² + b²))²).
type MiyamotoNagai struct {
	Amp float64
	A   float64
	B   float64
}

// NewMiyamotoNagai returns a disk whose contribution to vc² at R = 1 is norm.
func NewMiyamotoNagai(a, b, norm float64) *MiyamotoNagai {
	d := math.Hypot(1, a+b)
	return &MiyamotoNagai{Amp: norm * d * d * d, A: a, B: b}
}

func (m *MiyamotoNagai) terms(R, z float64) (s, d float64) {
	s = math.Hypot(z, m.B)
	d = math.Hypot(R, m.A+s)
	return s, d
}

func (m *MiyamotoNagai) Evaluate(R, z float64) float64 {
	_, d := m.terms(R, z)
	return -m.Amp / d
}

func (m *MiyamotoNagai) Rforce(R, z float64) float64 {
	_, d := m.terms(R, z)
	return -m.Amp * R / (d * d * d)
}

func (m *MiyamotoNagai) Zforce(R, z float64) float64 {
	s, d := m.terms(R, z)
	return -m.Amp * z * (m.A + s) / (s * d * d * d)
}

func (m *MiyamotoNagai) R2deriv(R, z float64) float64 {
	_, d := m.terms(R, z)
	d3 := d * d * d
	return m.Amp * (1/d3 - 3*R*R/(d3*d*d))
}

func (m *MiyamotoNagai) Z2deriv(R, z float64) float64 {
	s, d := m.terms(R, z)
	d3 := d * d * d
	as := m.A + s
	return m.Amp * ((1+m.A*m.B*m.B/(s*s*s))/d3 - 3*z*z*as*as/(s*s*d3*d*d))
}

func (m *MiyamotoNagai) Dens(R, z float64) float64 {
	s, d := m.terms(R, z)
	as := m.A + s
	d5 := d * d * d * d * d
	return m.Amp * m.B * m.B / (4 * math.Pi) * (m.A*R*R + (m.A+3*s)*as*as) / (d5 * s * s * s)
}
