package qdf_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
	"github.com/san-kum/galkin/internal/qdf"
)

var _ = Describe("Moments", func() {
	DescribeTable("mean radial and vertical velocities vanish",
		func(name string, opt qdf.MomentOption, tol float64, zs ...float64) {
			df := dfByName(name)
			for _, z := range zs {
				Expect(math.Abs(must(df.MeanVR(0.9, z, opt)))).To(BeNumerically("<", tol), "meanvR at z=%g", z)
				Expect(math.Abs(must(df.MeanVz(0.9, z, opt)))).To(BeNumerically("<", tol), "meanvz at z=%g", z)
			}
		},
		Entry("adiabatic, gl", "adiabatic", qdf.GL(0), 0.01, 0.0, 0.2, -0.25),
		Entry("staeckel, gl", "staeckel", qdf.GL(0), 0.01, 0.0, 0.2, -0.25),
		Entry("adiabatic, mc", "adiabatic", qdf.MC(0), 0.02, 0.0),
		Entry("staeckel, mc", "staeckel", qdf.MC(0), 0.02, 0.0),
	)

	DescribeTable("mean rotation lags the circular velocity",
		func(name string, opt qdf.MomentOption) {
			df := dfByName(name)
			vc := must(potential.Vcirc(mw, 0.9))
			va := must(df.AsymmetricDrift(0.9))
			vt := must(df.MeanVT(0.9, 0, opt))
			Expect(vt).To(BeNumerically("<", vc))
			Expect(vt).To(BeNumerically("~", vc-va, 0.05))
		},
		Entry("adiabatic, gl", "adiabatic", qdf.GL(0)),
		Entry("staeckel, gl", "staeckel", qdf.GL(0)),
		Entry("staeckel, mc", "staeckel", qdf.MC(0)),
	)

	It("recovers the input radial dispersion in the plane", func() {
		s2 := must(staeckelDF.SigmaR2(0.9, 0))
		ldiff := math.Log(s2) - 2*math.Log(0.2) - 0.2
		Expect(math.Abs(ldiff)).To(BeNumerically("<", 0.2))
	})

	It("follows the epicycle ratio for the tangential dispersion", func() {
		omega := must(potential.Omegac(mw, 0.9))
		kappa := must(potential.Epifreq(mw, 0.9))
		m, err := staeckelDF.Moments(0.9, 0)
		Expect(err).NotTo(HaveOccurred())
		ldiff := math.Log(m.SigmaT2/m.SigmaR2) + 2*math.Log(2*omega/kappa)
		Expect(math.Abs(ldiff)).To(BeNumerically("<", 0.3))
	})

	It("has a vertical dispersion just below the input", func() {
		s2 := must(staeckelDF.Sigmaz2(0.9, 0))
		Expect(math.Log(s2)).To(BeNumerically("<", 2*math.Log(0.1)+0.2))
		ldiff := math.Log(s2) - 2*math.Log(0.1) - 0.2
		Expect(math.Abs(ldiff)).To(BeNumerically("<", 0.5))
	})

	DescribeTable("the velocity ellipsoid is aligned in the plane",
		func(name string) {
			df := dfByName(name)
			Expect(math.Abs(must(df.SigmaRz(0.9, 0)))).To(BeNumerically("<", 0.05))
			Expect(math.Abs(must(df.Tilt(0.9, 0)))).To(BeNumerically("<", 0.05))
		},
		Entry("adiabatic", "adiabatic"),
		Entry("staeckel", "staeckel"),
	)

	It("never tilts for adiabatic actions", func() {
		for _, z := range []float64{0.2, -0.25} {
			Expect(math.Abs(must(adiabaticDF.Tilt(0.9, z)))).To(BeNumerically("<", 0.05))
		}
	})

	It("tilts roughly toward the centre for Staeckel actions", func() {
		for _, tc := range []struct{ z, tol float64 }{{0.1, 2}, {-0.25, 4}} {
			expected := math.Atan(tc.z/0.9) * 180 / math.Pi
			Expect(must(staeckelDF.Tilt(0.9, tc.z))).To(BeNumerically("~", expected, tc.tol), "z=%g", tc.z)
		}
	})

	It("agrees with and without the guiding-radius table", func() {
		direct := mustDF(fiducial, aaS, qdf.WithPrecomputeRg(false))
		a, err := staeckelDF.Moments(0.9, 0.1)
		Expect(err).NotTo(HaveOccurred())
		b, err := direct.Moments(0.9, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Density).To(BeNumerically("~", a.Density, 1e-5*a.Density))
		Expect(b.MeanVT).To(BeNumerically("~", a.MeanVT, 1e-5))
		Expect(b.SigmaR2).To(BeNumerically("~", a.SigmaR2, 1e-5))
		Expect(b.Sigmaz2).To(BeNumerically("~", a.Sigmaz2, 1e-5))
		Expect(b.SigmaRz).To(BeNumerically("~", a.SigmaRz, 1e-5))
	})

	It("is consistent between the moment set and single moments", func() {
		m, err := staeckelDF.Moments(0.9, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(must(staeckelDF.MeanVT(0.9, 0.1))).To(BeNumerically("~", m.MeanVT, 1e-12))
		Expect(must(staeckelDF.SigmaR2(0.9, 0.1))).To(BeNumerically("~", m.SigmaR2, 1e-12))
		Expect(must(staeckelDF.Density(0.9, 0.1))).To(BeNumerically("~", m.Density, 1e-12*m.Density))

		first := must(staeckelDF.VMomentDensity(0.9, 0.1, 0, 1, 0))
		Expect(first / m.Density).To(BeNumerically("~", m.MeanVT, 1e-12))
	})

	It("reports vanishing density as an error for moments but not for the density", func() {
		zero := qdf.WithFunc(func(jr, lz, jz float64) float64 { return 0 })
		Expect(must(staeckelDF.Density(0.9, 0, zero))).To(BeZero())
		_, err := staeckelDF.MeanVT(0.9, 0, zero)
		Expect(err).To(MatchError(dynamo.ErrZeroDensity))
	})

	It("rejects odd Gauss-Legendre orders", func() {
		_, err := staeckelDF.Moments(0.9, 0, qdf.GL(11))
		Expect(err).To(MatchError(dynamo.ErrOddNGL))
	})

	It("reproduces Monte Carlo moments for the same seed", func() {
		a := must(adiabaticDF.MeanVR(0.9, 0, qdf.MC(2000)))
		b := must(adiabaticDF.MeanVR(0.9, 0, qdf.MC(2000)))
		Expect(a).To(Equal(b))

		seeded := mustDF(fiducial, aaA, qdf.WithSeed(7))
		c := must(seeded.MeanVR(0.9, 0, qdf.MC(2000)))
		Expect(c).NotTo(Equal(a))
	})

	It("estimates the density by Monte Carlo", func() {
		gl := must(staeckelDF.Density(0.9, 0))
		mc := must(staeckelDF.Density(0.9, 0, qdf.MC(0)))
		Expect(mc).To(BeNumerically("~", gl, 0.1*gl))
	})
})

var _ = Describe("Mean actions", func() {
	It("has a radial action near the epicycle estimate", func() {
		for _, tc := range []struct{ R, shift float64 }{{0.9, 0.2}, {0.5, 1}} {
			kappa := must(potential.Epifreq(mw, tc.R))
			jr := must(staeckelDF.MeanJr(tc.R, 0))
			ldiff := math.Log(jr) - 2*math.Log(0.2) - tc.shift + math.Log(kappa)
			Expect(math.Abs(ldiff)).To(BeNumerically("<", 0.4), "R=%g", tc.R)
		}
	})

	It("has an angular momentum near R times the lagging rotation", func() {
		for _, tc := range []struct{ R, tol float64 }{{0.9, 0.1}, {0.5, 0.2}} {
			vc := must(potential.Vcirc(mw, tc.R))
			va := must(staeckelDF.AsymmetricDrift(tc.R))
			lz := must(staeckelDF.MeanLz(tc.R, 0))
			ldiff := math.Log(lz) - math.Log(tc.R*(vc-va))
			Expect(math.Abs(ldiff)).To(BeNumerically("<", tc.tol), "R=%g", tc.R)
		}
	})

	It("has a vertical action below, but within an e-fold of, the harmonic estimate", func() {
		for _, tc := range []struct{ R, shift float64 }{{0.9, 0.2}, {0.5, 1}} {
			nu := potential.Verticalfreq(mw, tc.R)
			jz := must(staeckelDF.MeanJz(tc.R, 0))
			ldiff := math.Log(jz) - 2*math.Log(0.1) - tc.shift + math.Log(nu)
			Expect(ldiff).To(And(BeNumerically(">", -1), BeNumerically("<", 0)), "R=%g", tc.R)
		}
	})
})
