package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/physics"
)

// MinSeparation records the closest approach between any two bodies, in
// metres. With fewer than two bodies it reports +Inf.
type MinSeparation struct {
	min float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return "min_separation" }

func (m *MinSeparation) Observe(x dynamo.State, t float64) {
	n := x.Bodies()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(x[j*dynamo.Stride]-x[i*dynamo.Stride], x[j*dynamo.Stride+1]-x[i*dynamo.Stride+1])
			if d < m.min {
				m.min = d
			}
		}
	}
}

func (m *MinSeparation) Value() float64 { return m.min }
func (m *MinSeparation) Reset()         { m.min = math.Inf(1) }

// Default returns the metrics recorded for every headless run.
func Default(sys dynamo.System) []dynamo.Metric {
	out := []dynamo.Metric{NewEnergyDrift(sys), NewMinSeparation()}
	if g, ok := sys.(*physics.Gravity); ok {
		out = append(out, NewAngularMomentumDrift(g))
	}
	return out
}
