// Package actionangle converts phase-space points to actions (Jr, Lz, Jz).
//
// A [Transform] is bound to one potential at construction. Two strategies
// are provided: [Adiabatic], which separates vertical oscillation at fixed R
// from planar radial motion, and [Staeckel], which approximates the potential
// locally by a Staeckel potential in prolate spheroidal coordinates.
//
// Orbits whose energy does not admit an outer turning point return an error
// wrapping [dynamo.ErrUnbound].
package actionangle
