package qdf_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galkin/internal/actionangle"
	"github.com/san-kum/galkin/internal/dynamo"
	"github.com/san-kum/galkin/internal/potential"
	"github.com/san-kum/galkin/internal/qdf"
)

var _ = Describe("New", func() {
	It("requires a potential", func() {
		_, err := qdf.New(fiducial, nil, aaS)
		Expect(err).To(MatchError(dynamo.ErrNoPotential))
	})

	It("requires an action-angle transform", func() {
		_, err := qdf.New(fiducial, mw, nil)
		Expect(err).To(MatchError(dynamo.ErrNoActionAngle))
	})

	It("rejects a transform bound to another potential", func() {
		_, err := qdf.New(fiducial, potential.NewLogarithmicHalo(0.9, 0, 1), aaS)
		Expect(err).To(MatchError(dynamo.ErrPotentialMismatch))
	})

	It("rejects non-positive scale parameters", func() {
		p := fiducial
		p.SigmaZ = 0
		_, err := qdf.New(p, mw, aaS)
		Expect(err).To(MatchError(dynamo.ErrInvalidParam))
	})

	It("accepts an equal potential built separately", func() {
		_, err := qdf.New(fiducial, potential.MWPotential(), aaS)
		Expect(err).NotTo(HaveOccurred())
	})

	It("interpolates the guiding radius to within 1e-5 of the root", func() {
		direct := mustDF(fiducial, aaS, qdf.WithPrecomputeRg(false))
		Expect(must(staeckelDF.Rg(1.1))).To(BeNumerically("~", must(direct.Rg(1.1)), 1e-5))
	})
})

var _ = Describe("Eval", func() {
	var direct *qdf.DF

	BeforeEach(func() {
		direct = mustDF(fiducial, aaS, qdf.WithPrecomputeRg(false))
	})

	It("rejects coordinate lists of the wrong length", func() {
		_, err := staeckelDF.Eval(qdf.EvalOptions{}, 0.1, 0.2, 0.3, 0.4)
		Expect(err).To(MatchError(dynamo.ErrCoords))
	})

	It("reuses supplied frequencies", func() {
		ev, err := direct.Eval(qdf.EvalOptions{}, 0.03, 0.9, 0.02)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value).To(BeNumerically(">", 0))

		again, err := direct.Eval(qdf.EvalOptions{Freqs: &ev.Freqs}, 0.03, 0.9, 0.02)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Value).To(BeNumerically("~", ev.Value, 1e-8))

		rg := ev.Freqs.Rg
		kappa := must(potential.Epifreq(mw, rg))
		omega := must(potential.Omegac(mw, rg))
		fr := dynamo.Frequencies{Rg: rg, Kappa: kappa, Nu: potential.Verticalfreq(mw, rg), Omega: omega}
		fresh, err := direct.Eval(qdf.EvalOptions{Freqs: &fr}, 0.03, 0.9, 0.02)
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh.Value).To(BeNumerically("~", ev.Value, 1e-8))
	})

	It("agrees between phase-space and action inputs", func() {
		ev, err := staeckelDF.Eval(qdf.EvalOptions{}, 0.9, 0.1, 0.95, 0.1, 0.08)
		Expect(err).NotTo(HaveOccurred())

		acts, err := aaS.Actions(dynamo.PhaseSpace{R: 0.9, VR: 0.1, VT: 0.95, Z: 0.1, VZ: 0.08})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Actions.Jr).To(BeNumerically("~", acts.Jr, 1e-8))
		Expect(ev.Actions.Lz).To(BeNumerically("~", acts.Lz, 1e-8))
		Expect(ev.Actions.Jz).To(BeNumerically("~", acts.Jz, 1e-8))

		byActions, err := staeckelDF.EvalActions(acts, qdf.EvalOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(byActions.Value).To(BeNumerically("~", ev.Value, 1e-8))
	})

	It("gives zero density for unbound orbits", func() {
		w := dynamo.PhaseSpace{R: 0.9, VR: 10, VT: -20, Z: 0.1, VZ: 10}
		_, err := aaS.Actions(w)
		Expect(err).To(MatchError(dynamo.ErrUnbound))

		ev, err := staeckelDF.EvalPhaseSpace(w, qdf.EvalOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value).To(BeZero())

		ev, err = staeckelDF.EvalPhaseSpace(w, qdf.EvalOptions{Log: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value).To(Equal(qdf.LogZero))
	})

	It("cuts counter-rotating orbits only when asked", func() {
		a := dynamo.Actions{Jr: 0.03, Lz: -0.1, Jz: 0.02}
		ev, err := staeckelDF.EvalActions(a, qdf.EvalOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value).To(BeZero())

		ev, err = staeckelDF.EvalActions(a, qdf.EvalOptions{Log: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value).To(Equal(qdf.LogZero))

		both, err := qdf.New(fiducial, mw, aaS)
		Expect(err).NotTo(HaveOccurred())
		ev, err = both.EvalActions(a, qdf.EvalOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value).To(BeNumerically(">", 0))
	})

	It("gives zero density at zero angular momentum", func() {
		ev, err := staeckelDF.EvalActions(dynamo.Actions{Jr: 0.03, Jz: 0.02}, qdf.EvalOptions{Log: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Value).To(Equal(qdf.LogZero))
	})

	DescribeTable("rejects malformed phase-space points",
		func(w dynamo.PhaseSpace) {
			_, err := staeckelDF.EvalPhaseSpace(w, qdf.EvalOptions{})
			Expect(err).To(MatchError(dynamo.ErrInvalidParam))
			var ee *dynamo.EvalError
			Expect(errors.As(err, &ee)).To(BeTrue())
			Expect(ee.Op).To(Equal("evaluate"))
		},
		Entry("negative radius", dynamo.PhaseSpace{R: -0.9, VT: 1}),
		Entry("NaN velocity", dynamo.PhaseSpace{R: 0.9, VR: math.NaN(), VT: 1}),
		Entry("infinite height", dynamo.PhaseSpace{R: 0.9, VT: 1, Z: math.Inf(1)}),
	)

	It("multiplies by the weight function", func() {
		fn := func(jr, lz, jz float64) float64 { return math.Sin(jr) * math.Cos(lz) * math.Exp(jz) }
		w := math.Sin(0.03) * math.Cos(0.9) * math.Exp(0.02)

		val, err := staeckelDF.Eval(qdf.EvalOptions{}, 0.03, 0.9, 0.02)
		Expect(err).NotTo(HaveOccurred())
		fval, err := staeckelDF.Eval(qdf.EvalOptions{Func: fn}, 0.03, 0.9, 0.02)
		Expect(err).NotTo(HaveOccurred())
		Expect(fval.Value).To(BeNumerically("~", val.Value*w, 1e-8))

		lval, err := staeckelDF.Eval(qdf.EvalOptions{Log: true}, 0.03, 0.9, 0.02)
		Expect(err).NotTo(HaveOccurred())
		lfval, err := staeckelDF.Eval(qdf.EvalOptions{Log: true, Func: fn}, 0.03, 0.9, 0.02)
		Expect(err).NotTo(HaveOccurred())
		Expect(lfval.Value).To(BeNumerically("~", lval.Value+math.Log(w), 1e-8))
		Expect(lval.Value).To(BeNumerically("~", math.Log(val.Value), 1e-8))
	})

	It("uses the named transform registry", func() {
		aa, err := actionangle.ByName("staeckel", mw, 0.5)
		Expect(err).NotTo(HaveOccurred())
		df := mustDF(fiducial, aa)
		a, err := df.Eval(qdf.EvalOptions{}, 0.9, 0.1, 0.95, 0.1, 0.08)
		Expect(err).NotTo(HaveOccurred())
		b, err := staeckelDF.Eval(qdf.EvalOptions{}, 0.9, 0.1, 0.95, 0.1, 0.08)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Value).To(BeNumerically("~", b.Value, 1e-12))
	})
})
