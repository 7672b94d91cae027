// Package quadrature holds the integration primitives shared by the moment
// and marginal evaluators.
//
// Gauss-Legendre rules come from gonum's [quad.Legendre] and are cached per
// order. [HalfNodes] produces the symmetric split rule used for the radial and
// vertical velocity axes, [Interval] maps a rule onto an arbitrary range, and
// [GaussianProposal] draws the standard-normal triples used by Monte Carlo
// integration.
//
// The order of a rule is validated with [CheckOrder]; odd orders are rejected
// rather than rounded.
package quadrature
