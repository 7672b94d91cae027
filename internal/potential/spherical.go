package potential

import "math"

// Spherical profiles only need Φ(r), the enclosed mass M(r) = r²Φ'(r) and the
// density. The cylindrical derivatives follow from those.

func sphericalRforce(m, R, z float64) float64 {
	r := math.Hypot(R, z)
	return -m * R / (r * r * r)
}

func sphericalZforce(m, R, z float64) float64 {
	r := math.Hypot(R, z)
	return -m * z / (r * r * r)
}

// ∂²Φ/∂x² along a cylindrical axis x, where y is the other coordinate.
func sphericalSecond(m, rho, x, y float64) float64 {
	r2 := x*x + y*y
	r := math.Sqrt(r2)
	d1 := m / r2
	d2 := 4*math.Pi*rho - 2*m/(r2*r)
	return d2*x*x/r2 + d1*y*y/(r2*r)
}

// NFW is the Navarro-Frenk-White halo Φ = -amp·ln(1 + r/a)/r.
type NFW struct {
	Amp float64
	A   float64
}

// NewNFW returns a halo whose contribution to vc² at R = 1 is norm.
func NewNFW(a, norm float64) *NFW {
	n := &NFW{Amp: 1, A: a}
	n.Amp = norm / n.mass(1)
	return n
}

func (n *NFW) mass(r float64) float64 {
	x := r / n.A
	return n.Amp * (math.Log1p(x) - x/(1+x))
}

func (n *NFW) rho(r float64) float64 {
	x := r / n.A
	return n.Amp / (4 * math.Pi * n.A * n.A * n.A) / (x * (1 + x) * (1 + x))
}

func (n *NFW) Evaluate(R, z float64) float64 {
	r := math.Hypot(R, z)
	return -n.Amp * math.Log1p(r/n.A) / r
}

func (n *NFW) Rforce(R, z float64) float64 {
	return sphericalRforce(n.mass(math.Hypot(R, z)), R, z)
}

func (n *NFW) Zforce(R, z float64) float64 {
	return sphericalZforce(n.mass(math.Hypot(R, z)), R, z)
}

func (n *NFW) R2deriv(R, z float64) float64 {
	r := math.Hypot(R, z)
	return sphericalSecond(n.mass(r), n.rho(r), R, z)
}

func (n *NFW) Z2deriv(R, z float64) float64 {
	r := math.Hypot(R, z)
	return sphericalSecond(n.mass(r), n.rho(r), z, R)
}

func (n *NFW) Dens(R, z float64) float64 {
	return n.rho(math.Hypot(R, z))
}

// Hernquist is the bulge profile Φ = -amp/(r + a).
type Hernquist struct {
	Amp float64
	A   float64
}

// NewHernquist returns a bulge whose contribution to vc² at R = 1 is norm.
func NewHernquist(a, norm float64) *Hernquist {
	return &Hernquist{Amp: norm * (1 + a) * (1 + a), A: a}
}

func (h *Hernquist) mass(r float64) float64 {
	return h.Amp * r * r / ((r + h.A) * (r + h.A))
}

func (h *Hernquist) rho(r float64) float64 {
	ra := r + h.A
	return h.Amp * h.A / (2 * math.Pi * r * ra * ra * ra)
}

func (h *Hernquist) Evaluate(R, z float64) float64 {
	return -h.Amp / (math.Hypot(R, z) + h.A)
}

func (h *Hernquist) Rforce(R, z float64) float64 {
	return sphericalRforce(h.mass(math.Hypot(R, z)), R, z)
}

func (h *Hernquist) Zforce(R, z float64) float64 {
	return sphericalZforce(h.mass(math.Hypot(R, z)), R, z)
}

func (h *Hernquist) R2deriv(R, z float64) float64 {
	r := math.Hypot(R, z)
	return sphericalSecond(h.mass(r), h.rho(r), R, z)
}

func (h *Hernquist) Z2deriv(R, z float64) float64 {
	r := math.Hypot(R, z)
	return sphericalSecond(h.mass(r), h.rho(r), z, R)
}

func (h *Hernquist) Dens(R, z float64) float64 {
	return h.rho(math.Hypot(R, z))
}
