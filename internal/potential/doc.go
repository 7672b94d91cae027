// Package potential provides the axisymmetric gravitational potentials the
// kinematics engine evaluates forces, densities and orbital frequencies in.
//
// Every model implements [Potential]. Models are immutable and combine
// additively through [Combined]. The planar helpers
// [EvaluatePlanarRforces] and [EvaluatePlanarR2derivs] only accept models
// that implement [Planar]; the frequency evaluators fall back once to the
// mid-plane reduction returned by [ToPlanar] when they do not.
//
// All quantities are in natural units with G = 1, where each model is
// normalised by its contribution to vc² at R = 1.
package potential
