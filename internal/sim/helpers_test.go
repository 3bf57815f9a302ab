package sim_test

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/dynamo"
)

// drift moves bodies at constant velocity.
type drift struct{ n int }

func (d *drift) StateDim() int { return d.n * dynamo.Stride }
func (d *drift) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	for o := 0; o < len(x); o += dynamo.Stride {
		dx[o] = x[o+2]
		dx[o+1] = x[o+3]
	}
	return dx
}

// poisoned turns the state into NaN once more than after calls were made.
type poisoned struct {
	drift
	calls int
	after int
}

func (p *poisoned) Derive(x dynamo.State, t float64) dynamo.State {
	p.calls++
	dx := p.drift.Derive(x, t)
	if p.calls > p.after {
		dx[0] = math.NaN()
	}
	return dx
}

type stepCounter struct{ steps int }

func (s *stepCounter) OnStep(x dynamo.State, t float64) { s.steps++ }

func movingBody() body.Set {
	return body.Set{{Name: "tracer", Mass: 1, Radius: 1, Vel: r2.Vec{X: 1}}}
}
