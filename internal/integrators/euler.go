package integrators

import "github.com/san-kum/planetsim/internal/dynamo"

// Euler is the explicit forward Euler method. It is not symplectic and
// gains energy on orbits; it exists for comparison.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// SymplecticEuler updates velocity from the current acceleration and then
// position from the new velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Step(sys dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	result := make(dynamo.State, len(x))
	for o := 0; o+dynamo.Stride <= len(x); o += dynamo.Stride {
		vx := x[o+2] + dx[o+2]*dt
		vy := x[o+3] + dx[o+3]*dt
		result[o] = x[o] + vx*dt
		result[o+1] = x[o+1] + vy*dt
		result[o+2] = vx
		result[o+3] = vy
	}
	return result
}
