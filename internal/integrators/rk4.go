package integrators

import "github.com/san-kum/planetsim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. It is not symplectic,
// so long orbits slowly lose energy, but each step is far more accurate than
// the Euler family.
//
// Derive must return a fresh slice: the slopes are kept across calls while
// the stage buffer is overwritten.
type RK4 struct {
	stage dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// slopeAt fills r.stage with x + h*k and evaluates the slope there.
func (r *RK4) slopeAt(sys dynamo.System, x, k dynamo.State, t, h float64) dynamo.State {
	for i := range x {
		r.stage[i] = x[i] + h*k[i]
	}
	return sys.Derive(r.stage, t+h)
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	if len(r.stage) != len(x) {
		r.stage = make(dynamo.State, len(x))
	}
	half := dt / 2

	k1 := sys.Derive(x, t)
	k2 := r.slopeAt(sys, x, k1, t, half)
	k3 := r.slopeAt(sys, x, k2, t, half)
	k4 := r.slopeAt(sys, x, k3, t, dt)

	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt/6*(k1[i]+2*(k2[i]+k3[i])+k4[i])
	}
	return next
}
