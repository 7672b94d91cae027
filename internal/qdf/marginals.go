package qdf

import (
	"fmt"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/quadrature"
)

// marginal integrates f over the axes that are not fixed. Fixed components
// are passed as single-node axes.
func (d *DF) marginal(R, z float64, opts []MomentOption, build func(c *momentConfig, sr, sz float64) (vr, vt, vz axis, err error)) (float64, error) {
	c, err := d.configure(quadrature.GL, quadrature.DefaultNGL2, opts)
	if err != nil {
		return 0, err
	}
	if c.method != quadrature.GL {
		return 0, fmt.Errorf("%w: marginal densities use Gauss-Legendre quadrature only", dynamo.ErrInvalidParam)
	}
	sr, sz := d.sigmas(R)
	if c.sigmaR1 > 0 {
		sr = c.sigmaR1
	}
	vr, vt, vz, err := build(c, sr, sz)
	if err != nil {
		return 0, err
	}
	g := productGrid(R, z, vr, vt, vz)
	if err := d.evaluate(g, c.fn); err != nil {
		return 0, err
	}
	return g.sum(func(int) float64 { return 1 }), nil
}

// PvR is the distribution of vR at (R, z), integrated over vT and vz.
func (d *DF) PvR(vR, R, z float64, opts ...MomentOption) (float64, error) {
	return d.marginal(R, z, opts, func(c *momentConfig, sr, sz float64) (axis, axis, axis, error) {
		vz, err := symmetricAxis(c.ngl, c.nsigma*sz)
		return point(vR), tangentialAxis(c.ngl, c.vTmax), vz, err
	})
}

// PvT is the distribution of vT at (R, z), integrated over vR and vz.
func (d *DF) PvT(vT, R, z float64, opts ...MomentOption) (float64, error) {
	return d.marginal(R, z, opts, func(c *momentConfig, sr, sz float64) (axis, axis, axis, error) {
		vr, err := symmetricAxis(c.ngl, c.nsigma*sr)
		if err != nil {
			return axis{}, axis{}, axis{}, err
		}
		vz, err := symmetricAxis(c.ngl, c.nsigma*sz)
		return vr, point(vT), vz, err
	})
}

// Pvz is the distribution of vz at (R, z), integrated over vR and vT.
func (d *DF) Pvz(vz, R, z float64, opts ...MomentOption) (float64, error) {
	return d.marginal(R, z, opts, func(c *momentConfig, sr, sz float64) (axis, axis, axis, error) {
		vr, err := symmetricAxis(c.ngl, c.nsigma*sr)
		return vr, tangentialAxis(c.ngl, c.vTmax), point(vz), err
	})
}

// PvRvT is the joint distribution of (vR, vT), integrated over vz.
func (d *DF) PvRvT(vR, vT, R, z float64, opts ...MomentOption) (float64, error) {
	return d.marginal(R, z, opts, func(c *momentConfig, sr, sz float64) (axis, axis, axis, error) {
		vz, err := symmetricAxis(c.ngl, c.nsigma*sz)
		return point(vR), point(vT), vz, err
	})
}

// PvTvz is the joint distribution of (vT, vz), integrated over vR.
func (d *DF) PvTvz(vT, vz, R, z float64, opts ...MomentOption) (float64, error) {
	return d.marginal(R, z, opts, func(c *momentConfig, sr, sz float64) (axis, axis, axis, error) {
		vr, err := symmetricAxis(c.ngl, c.nsigma*sr)
		return vr, point(vT), point(vz), err
	})
}

// PvRvz is the joint distribution of (vR, vz), integrated over vT.
func (d *DF) PvRvz(vR, vz, R, z float64, opts ...MomentOption) (float64, error) {
	return d.marginal(R, z, opts, func(c *momentConfig, sr, sz float64) (axis, axis, axis, error) {
		return point(vR), tangentialAxis(c.ngl, c.vTmax), point(vz), nil
	})
}
