// Package dynamo provides the core types shared by the kinematics engine.
//
// The package defines the coordinates and orbit invariants that flow between
// the potential, the action-angle transforms and the distribution function:
//
//   - [PhaseSpace]: galactocentric cylindrical coordinates (R, vR, vT, z, vz)
//   - [Actions]: radial action, angular momentum and vertical action
//   - [Frequencies]: guiding-centre radius with its epicyclic, vertical and
//     circular frequencies
//   - [ParallelFor]: chunked parallel loop for independent evaluations
//
// Distances are in units of the reference radius and velocities in units of
// the circular velocity there, so the reference radius is 1.
//
// # Errors
//
// Sentinel errors ([ErrUnbound], [ErrPotential], [ErrOddNGL], ...) are
// comparable with errors.Is. [EvalError] carries the position at which an
// evaluation failed.
package dynamo
