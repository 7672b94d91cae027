package qdf_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galkin/internal/qdf"
)

var _ = Describe("Scale estimators", func() {
	It("recovers the radial scale length from the density", func() {
		z := 0.0
		Expect(must(staeckelDF.EstimateHr(0.9, &z))).To(BeNumerically("~", 0.25, 0.025))
	})

	It("recovers the radial scale length from the surface density", func() {
		p := fiducial
		p.Hr = 0.5
		Expect(must(mustDF(p, aaS).EstimateHr(0.9, nil))).To(BeNumerically("~", 0.5, 0.075))

		p.Hr = 1
		Expect(must(mustDF(p, aaS).EstimateHr(0.9, nil))).To(BeNumerically("~", 1, 0.3))
	})

	It("matches the isothermal scale height", func() {
		expected := qdf.IsothermalHz(mw, 0.9, 0.1, qdf.DefaultHzBound)
		Expect(must(staeckelDF.EstimateHz(0.9, 0.125))).To(BeNumerically("~", expected, 0.1*expected))
		Expect(must(staeckelDF.EstimateHz(0.9, 0))).To(BeNumerically(">", 1))

		p := fiducial
		p.SigmaR, p.SigmaZ = 0.3, 0.2
		expected = qdf.IsothermalHz(mw, 0.9, 0.2, qdf.DefaultHzBound)
		Expect(must(mustDF(p, aaS).EstimateHz(0.9, 0.125))).To(BeNumerically("~", expected, 0.15*expected))
	})

	It("recovers the dispersion scale lengths", func() {
		Expect(must(staeckelDF.EstimateHsr(0.9, 0))).To(BeNumerically("~", 1, 0.25))
		Expect(must(staeckelDF.EstimateHsz(0.9, 0))).To(BeNumerically("~", 1, 0.25))

		wide := qdf.Params{Hr: 0.5, SigmaR: 0.2, SigmaZ: 0.1, HsigmaR: 2, HsigmaZ: 1}
		Expect(must(mustDF(wide, aaS).EstimateHsr(0.9, 0.05))).To(BeNumerically("~", 2, 0.5))

		wide.HsigmaR, wide.HsigmaZ = 1, 2
		Expect(must(mustDF(wide, aaS).EstimateHsz(0.9, 0.05))).To(BeNumerically("~", 2, 0.5))
	})
})
