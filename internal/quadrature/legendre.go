package quadrature

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/galkin/internal/dynamo"
)

const (
	DefaultNGL    = 10
	DefaultNGL2   = 20
	DefaultNMC    = 10000
	DefaultNSigma = 4.0
	DefaultVTMax  = 1.5
)

// Method selects how velocity space is integrated.
type Method int

const (
	GL Method = iota
	MC
)

func (m Method) String() string {
	switch m {
	case GL:
		return "gl"
	case MC:
		return "mc"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod maps "gl" and "mc" to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "gl", "GL", "":
		return GL, nil
	case "mc", "MC":
		return MC, nil
	default:
		return GL, fmt.Errorf("unknown integration method %q", s)
	}
}

// CheckOrder rejects odd or degenerate Gauss-Legendre orders.
func CheckOrder(ngl int) error {
	if ngl < 2 || ngl%2 != 0 {
		return fmt.Errorf("%w: ngl=%d", dynamo.ErrOddNGL, ngl)
	}
	return nil
}

type rule struct {
	x, w []float64
}

var (
	cacheMu sync.Mutex
	cache   = make(map[int]rule)
)

// Legendre returns the n-point Gauss-Legendre nodes and weights on [-1, 1].
// The returned slices are shared and must not be modified.
func Legendre(n int) (x, w []float64) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if r, ok := cache[n]; ok {
		return r.x, r.w
	}
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	cache[n] = rule{x: x, w: w}
	return x, w
}

// Interval maps the n-point rule onto [lo, hi]. Weights include the Jacobian.
func Interval(n int, lo, hi float64) (x, w []float64) {
	gx, gw := Legendre(n)
	half := 0.5 * (hi - lo)
	mid := 0.5 * (hi + lo)
	x = make([]float64, n)
	w = make([]float64, n)
	for i := range gx {
		x[i] = mid + half*gx[i]
		w[i] = half * gw[i]
	}
	return x, w
}

// HalfNodes builds the symmetric split rule on [-scale, scale]: ngl/2 nodes on
// [0, scale] followed by their mirror images on [-scale, 0]. Weights include
// the Jacobian scale/2.
func HalfNodes(ngl int, scale float64) (x, w []float64, err error) {
	if err := CheckOrder(ngl); err != nil {
		return nil, nil, err
	}
	gx, gw := Legendre(ngl / 2)
	n := len(gx)
	x = make([]float64, 2*n)
	w = make([]float64, 2*n)
	for i := range gx {
		node := 0.5 * (gx[i] + 1) * scale
		x[i] = node
		x[n+i] = -node
		w[i] = 0.5 * scale * gw[i]
		w[n+i] = w[i]
	}
	return x, w, nil
}

// Fixed integrates f over [lo, hi] with an n-point Gauss-Legendre rule.
func Fixed(f func(float64) float64, lo, hi float64, n int) float64 {
	if hi == lo {
		return 0
	}
	if hi < lo {
		return -quad.Fixed(f, hi, lo, n, quad.Legendre{}, 1)
	}
	return quad.Fixed(f, lo, hi, n, quad.Legendre{}, 1)
}
