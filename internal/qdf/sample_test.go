package qdf_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/quadrature"
)

var _ = Describe("SampleV", func() {
	const R, z = 0.8, 0.1

	It("draws velocities with the moments of the distribution", func() {
		samples, err := staeckelDF.SampleV(R, z, 4000, quadrature.NewSource(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(samples).To(HaveLen(4000))

		col := func(k int) []float64 {
			out := make([]float64, len(samples))
			for i, v := range samples {
				out[i] = v[k]
			}
			return out
		}
		m, err := staeckelDF.Moments(R, z)
		Expect(err).NotTo(HaveOccurred())

		mvR, sR := stat.MeanStdDev(col(0), nil)
		Expect(math.Abs(mvR)).To(BeNumerically("<", 0.02))
		Expect(math.Log(sR)).To(BeNumerically("~", 0.5*math.Log(m.SigmaR2), 0.05))

		mvT, sT := stat.MeanStdDev(col(1), nil)
		Expect(mvT).To(BeNumerically("~", m.MeanVT, 0.015))
		Expect(math.Log(sT)).To(BeNumerically("~", 0.5*math.Log(m.SigmaT2), 0.05))

		mvz, sz := stat.MeanStdDev(col(2), nil)
		Expect(math.Abs(mvz)).To(BeNumerically("<", 0.01))
		Expect(math.Log(sz)).To(BeNumerically("~", 0.5*math.Log(m.Sigmaz2), 0.05))
	})

	It("is reproducible for a seeded source", func() {
		a, err := adiabaticDF.SampleV(R, z, 50, quadrature.NewSource(3))
		Expect(err).NotTo(HaveOccurred())
		b, err := adiabaticDF.SampleV(R, z, 50, quadrature.NewSource(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("returns nothing for a zero count", func() {
		s, err := adiabaticDF.SampleV(R, z, 0, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeEmpty())
	})

	It("rejects a negative count", func() {
		_, err := adiabaticDF.SampleV(R, z, -1, nil)
		Expect(err).To(MatchError(dynamo.ErrInvalidParam))
	})
})
