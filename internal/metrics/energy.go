package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/physics"
)

// EnergyDrift tracks the largest relative deviation of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	sys           dynamo.System
}

func NewEnergyDrift(sys dynamo.System) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		sys:  sys,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	h, ok := e.sys.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// AngularMomentumDrift is the angular-momentum counterpart of EnergyDrift.
type AngularMomentumDrift struct {
	g        *physics.Gravity
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift(g *physics.Gravity) *AngularMomentumDrift {
	return &AngularMomentumDrift{g: g}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(x dynamo.State, t float64) {
	L := a.g.AngularMomentum(x)
	if a.samples == 0 {
		a.initial = L
	}
	a.samples++
	if a.initial != 0 {
		a.maxDrift = math.Max(a.maxDrift, math.Abs(L-a.initial)/math.Abs(a.initial))
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}
