// Package qdf evaluates the quasi-isothermal distribution function of a disk
// population and derives its observable kinematics.
//
// A [DF] is built from five scale parameters, a [potential.Potential] and an
// [actionangle.Transform] bound to that same potential. It is immutable and
// safe for concurrent use; the only lazily built state is the guiding-radius
// table, which is guarded by a [sync.Once].
//
// The density of an orbit is
//
//	f = Ω Σ(rg) / (π κ σR²(rg)) · (1 + tanh(Lz/L0)) · exp(-κ Jr/σR²(rg))
//	  · ν / (2π σz²(rg)) · exp(-ν Jz/σz²(rg))
//
// with Σ(rg) = exp((R0 - rg)/hr) and σR(rg) = σR0 exp((R0 - rg)/hσR), σz
// likewise. [DF.Eval] evaluates it at actions or at a phase-space point.
//
// Velocity moments ([DF.Moments], [DF.MeanVT], [DF.SigmaR2], ...) integrate f
// over velocity space at fixed (R, z), either on a Gauss-Legendre grid or by
// Monte Carlo importance sampling. All moments of one call share a single
// evaluated grid. Marginal distributions ([DF.PvR], [DF.PvRvT], ...) always
// use Gauss-Legendre quadrature over the remaining components.
package qdf
