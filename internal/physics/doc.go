// Package physics implements Newtonian point-mass gravity as a
// [dynamo.System], together with the conserved quantities used to judge
// integrator quality.
//
// Accelerations are summed directly over all pairs. Coincident bodies exert
// no force on each other unless Softening is set.
package physics
