package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/physics"
)

func TestEnergyDrift(t *testing.T) {
	g := physics.NewGravity([]float64{1, 1})
	g.G = 1
	m := NewEnergyDrift(g)

	x := dynamo.State{0, 0, 0, 0, 1, 0, 0, 2}
	m.Observe(x, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift after one sample, got %f", m.Value())
	}

	e0 := g.Energy(x)
	x2 := dynamo.State{0, 0, 0, 0, 1, 0, 0, 3}
	e1 := g.Energy(x2)
	m.Observe(x2, 1)

	want := math.Abs(e1-e0) / math.Abs(e0)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("drift = %f, want %f", m.Value(), want)
	}

	m.Observe(x, 2)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Error("drift should report the maximum, not the latest value")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	g := physics.NewGravity([]float64{1})
	m := NewAngularMomentumDrift(g)

	m.Observe(dynamo.State{1, 0, 0, 1}, 0)
	m.Observe(dynamo.State{1, 0, 0, 1.5}, 1)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("drift = %f, want 0.5", m.Value())
	}
}

func TestMinSeparation(t *testing.T) {
	m := NewMinSeparation()
	if !math.IsInf(m.Value(), 1) {
		t.Error("expected +Inf before any observation")
	}

	m.Observe(dynamo.State{0, 0, 0, 0, 3, 4, 0, 0, 10, 0, 0, 0}, 0)
	m.Observe(dynamo.State{0, 0, 0, 0, 6, 8, 0, 0, 10, 0, 0, 0}, 1)

	if m.Value() != 5 {
		t.Errorf("min separation = %f, want 5", m.Value())
	}
}

func TestDefault(t *testing.T) {
	g := physics.NewGravity([]float64{1, 2})
	ms := Default(g)
	names := map[string]bool{}
	for _, m := range ms {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy_drift", "min_separation", "angular_momentum_drift"} {
		if !names[want] {
			t.Errorf("Default() missing %s", want)
		}
	}
}
