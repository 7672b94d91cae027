package qdf_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/qdf"
)

var _ = Describe("Marginals", func() {
	const R, z = 0.8, 0.1

	DescribeTable("integrates pvR to the moments",
		func(ngl int) {
			mean, std := riemann(span(-1, 1, 51), func(vR float64) (float64, error) {
				return staeckelDF.PvR(vR, R, z, qdf.GL(ngl))
			})
			Expect(math.Abs(mean)).To(BeNumerically("<", 0.01))
			Expect(math.Log(std)).To(BeNumerically("~", 0.5*math.Log(must(staeckelDF.SigmaR2(R, z))), 0.01))
		},
		Entry("default order", 0),
		Entry("order 10", 10),
		Entry("order 40", 40),
	)

	It("integrates pvT to the moments", func() {
		mean, std := riemann(span(0, 1.5, 101), func(vT float64) (float64, error) {
			return adiabaticDF.PvT(vT, R, z)
		})
		Expect(mean).To(BeNumerically("~", must(adiabaticDF.MeanVT(R, z)), 0.01))
		Expect(math.Log(std)).To(BeNumerically("~", 0.5*math.Log(must(adiabaticDF.SigmaT2(R, z))), 0.01))
	})

	It("integrates pvz to the moments with a narrower vR range", func() {
		s2 := must(staeckelDF.Sigmaz2(R, z))
		sigmaR1 := 0.95 * math.Sqrt(must(staeckelDF.SigmaR2(R, z)))
		mean, std := riemann(span(-1, 1, 51), func(vz float64) (float64, error) {
			return staeckelDF.Pvz(vz, R, z, qdf.SigmaR1(sigmaR1))
		})
		Expect(math.Abs(mean)).To(BeNumerically("<", 0.01))
		Expect(math.Log(std)).To(BeNumerically("~", 0.5*math.Log(s2), 0.01))
	})

	DescribeTable("integrates pvz to the moments",
		func(ngl int) {
			mean, std := riemann(span(-1, 1, 51), func(vz float64) (float64, error) {
				return staeckelDF.Pvz(vz, R, z, qdf.GL(ngl))
			})
			Expect(math.Abs(mean)).To(BeNumerically("<", 0.01))
			Expect(math.Log(std)).To(BeNumerically("~", 0.5*math.Log(must(staeckelDF.Sigmaz2(R, z))), 0.01))
		},
		Entry("default order", 0),
		Entry("order 10", 10),
		Entry("order 40", 40),
	)

	DescribeTable("integrates pvRvT to the moments",
		func(name string, ngl int) {
			df := dfByName(name)
			mvR, mvT, sR, sT, rho := joint(span(-1, 1, 21), span(0, 1.5, 51), func(vR, vT float64) (float64, error) {
				return df.PvRvT(vR, vT, R, z, qdf.GL(ngl))
			})
			Expect(math.Abs(mvR)).To(BeNumerically("<", 0.01))
			Expect(mvT).To(BeNumerically("~", must(df.MeanVT(R, z)), 0.01))
			Expect(math.Log(sR)).To(BeNumerically("~", 0.5*math.Log(must(df.SigmaR2(R, z))), 0.01))
			Expect(math.Log(sT)).To(BeNumerically("~", 0.5*math.Log(must(df.SigmaT2(R, z))), 0.01))
			Expect(math.Abs(rho)).To(BeNumerically("<", 0.01))
		},
		Entry("adiabatic", "adiabatic", 0),
		Entry("staeckel", "staeckel", 0),
		Entry("staeckel, order 10", "staeckel", 10),
		Entry("staeckel, order 40", "staeckel", 40),
	)

	DescribeTable("integrates pvTvz to the moments",
		func(ngl int) {
			mvT, mvz, sT, sz, rho := joint(span(0, 1.5, 51), span(-1, 1, 21), func(vT, vz float64) (float64, error) {
				return staeckelDF.PvTvz(vT, vz, R, z, qdf.GL(ngl))
			})
			Expect(mvT).To(BeNumerically("~", must(staeckelDF.MeanVT(R, z)), 0.01))
			Expect(math.Abs(mvz)).To(BeNumerically("<", 0.01))
			Expect(math.Log(sT)).To(BeNumerically("~", 0.5*math.Log(must(staeckelDF.SigmaT2(R, z))), 0.01))
			Expect(math.Log(sz)).To(BeNumerically("~", 0.5*math.Log(must(staeckelDF.Sigmaz2(R, z))), 0.01))
			Expect(math.Abs(rho)).To(BeNumerically("<", 0.01))
		},
		Entry("default order", 0),
		Entry("order 10", 10),
		Entry("order 40", 40),
	)

	DescribeTable("integrates pvRvz to the moments",
		func(ngl int) {
			mvR, mvz, sR, sz, rho := joint(span(-1, 1, 21), span(-1, 1, 21), func(vR, vz float64) (float64, error) {
				return staeckelDF.PvRvz(vR, vz, R, z, qdf.GL(ngl))
			})
			sR2 := must(staeckelDF.SigmaR2(R, z))
			sz2 := must(staeckelDF.Sigmaz2(R, z))
			Expect(math.Abs(mvR)).To(BeNumerically("<", 0.01))
			Expect(math.Abs(mvz)).To(BeNumerically("<", 0.01))
			Expect(math.Log(sR)).To(BeNumerically("~", 0.5*math.Log(sR2), 0.01))
			Expect(math.Log(sz)).To(BeNumerically("~", 0.5*math.Log(sz2), 0.01))
			Expect(rho).To(BeNumerically("~", must(staeckelDF.SigmaRz(R, z))/math.Sqrt(sR2*sz2), 0.01))
		},
		Entry("default order", 0),
		Entry("order 10", 10),
		Entry("order 40", 40),
	)

	It("converges with the quadrature order", func() {
		for _, vT := range []float64{0.7, 0.9, 1.1} {
			lo := must(staeckelDF.PvT(vT, R, z, qdf.GL(20)))
			hi := must(staeckelDF.PvT(vT, R, z, qdf.GL(40)))
			Expect(lo).To(BeNumerically("~", hi, 0.01*hi), "vT=%g", vT)
		}
		for _, vz := range []float64{0, 0.1} {
			lo := must(staeckelDF.PvRvz(0.05, vz, R, z, qdf.GL(10)))
			hi := must(staeckelDF.PvRvz(0.05, vz, R, z, qdf.GL(40)))
			Expect(lo).To(BeNumerically("~", hi, 0.01*hi), "vz=%g", vz)
		}
	})

	It("has symmetric joint distributions in vz", func() {
		a := must(staeckelDF.PvTvz(0.9, 0.05, R, 0))
		b := must(staeckelDF.PvTvz(0.9, -0.05, R, 0))
		Expect(a).To(BeNumerically("~", b, 1e-10*a))
	})

	DescribeTable("rejects odd quadrature orders",
		func(eval func() (float64, error)) {
			_, err := eval()
			Expect(err).To(MatchError(dynamo.ErrOddNGL))
		},
		Entry("pvR", func() (float64, error) { return staeckelDF.PvR(0.1, R, z, qdf.GL(11)) }),
		Entry("pvT", func() (float64, error) { return staeckelDF.PvT(0.9, R, z, qdf.GL(11)) }),
		Entry("pvz", func() (float64, error) { return staeckelDF.Pvz(0.1, R, z, qdf.GL(11)) }),
		Entry("pvRvT", func() (float64, error) { return staeckelDF.PvRvT(0.1, 0.9, R, z, qdf.GL(11)) }),
		Entry("pvTvz", func() (float64, error) { return staeckelDF.PvTvz(0.9, 0.1, R, z, qdf.GL(11)) }),
		Entry("pvRvz", func() (float64, error) { return staeckelDF.PvRvz(0.1, 0.1, R, z, qdf.GL(11)) }),
		Entry("vmomentdensity", func() (float64, error) { return staeckelDF.VMomentDensity(R, z, 0, 0, 0, qdf.GL(11)) }),
	)

	It("rejects Monte Carlo integration", func() {
		_, err := staeckelDF.Pvz(0.1, R, z, qdf.MC(100))
		Expect(err).To(MatchError(dynamo.ErrInvalidParam))
	})
})

var _ = Describe("Map", func() {
	It("broadcasts scalars against arrays", func() {
		pvz := func(R, z float64) (float64, error) { return staeckelDF.Pvz(0.05, R, z) }
		out, err := qdf.Map([]float64{0.8, 0.8}, []float64{0.1}, pvz)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(2))
		scalar := must(pvz(0.8, 0.1))
		Expect(out).To(HaveEach(BeNumerically("~", scalar, 1e-10*scalar)))
	})

	It("rejects mismatched lengths", func() {
		_, err := qdf.Map([]float64{1, 2}, []float64{1, 2, 3}, func(R, z float64) (float64, error) { return R + z, nil })
		Expect(err).To(MatchError(dynamo.ErrShape))
	})

	It("returns the first evaluation error", func() {
		_, err := qdf.Map([]float64{0.9}, []float64{0, 0.1}, func(R, z float64) (float64, error) {
			return staeckelDF.PvR(0, R, z, qdf.GL(3))
		})
		Expect(err).To(MatchError(dynamo.ErrOddNGL))
	})
})
