package integrators

import "github.com/san-kum/planetsim/internal/dynamo"

// Verlet is velocity Verlet. Accelerations must not depend on velocity.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	v.ensureScratch(n)

	result := make(dynamo.State, n)
	dx := sys.Derive(x, t)
	dt2 := dt * dt

	for o := 0; o+dynamo.Stride <= n; o += dynamo.Stride {
		result[o] = x[o] + x[o+2]*dt + 0.5*dx[o+2]*dt2
		result[o+1] = x[o+1] + x[o+3]*dt + 0.5*dx[o+3]*dt2

		v.scratch[o] = result[o]
		v.scratch[o+1] = result[o+1]
		v.scratch[o+2] = x[o+2]
		v.scratch[o+3] = x[o+3]
	}

	dxNew := sys.Derive(v.scratch, t+dt)

	halfDt := 0.5 * dt
	for o := 0; o+dynamo.Stride <= n; o += dynamo.Stride {
		result[o+2] = x[o+2] + (dx[o+2]+dxNew[o+2])*halfDt
		result[o+3] = x[o+3] + (dx[o+3]+dxNew[o+3])*halfDt
	}

	return result
}

// Leapfrog is kick-drift-kick leapfrog.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)

	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := sys.Derive(x, t)
	halfDt := dt * 0.5

	for o := 0; o+dynamo.Stride <= n; o += dynamo.Stride {
		l.scratch[o+2] = x[o+2] + dx[o+2]*halfDt
		l.scratch[o+3] = x[o+3] + dx[o+3]*halfDt

		result[o] = x[o] + l.scratch[o+2]*dt
		result[o+1] = x[o+1] + l.scratch[o+3]*dt
		l.scratch[o] = result[o]
		l.scratch[o+1] = result[o+1]
	}

	dxNew := sys.Derive(l.scratch, t+dt)

	for o := 0; o+dynamo.Stride <= n; o += dynamo.Stride {
		result[o+2] = l.scratch[o+2] + dxNew[o+2]*halfDt
		result[o+3] = l.scratch[o+3] + dxNew[o+3]*halfDt
	}

	return result
}
