// Package dynamo provides the core primitives shared by the gravity
// simulation.
//
// The package defines the interfaces and types every other package builds on:
//
//   - [State]: flat vector of interleaved body positions and velocities
//   - [System]: an ODE system dX/dt = f(X, t)
//   - [Integrator]: a fixed-step numerical stepper
//   - [Metric] and [Observer]: hooks called once per step
//
// # Example
//
//	sys := physics.NewGravity(body.Masses(bodies))
//	integ, _ := integrators.New("symplectic")
//	x := body.Pack(bodies)
//	x = integ.Step(sys, x, 0, 3600)
//
// # Layout
//
// A state for n bodies has 4n entries: x, y, vx, vy for body 0, then body 1,
// and so on. [Stride] is the per-body width.
package dynamo
