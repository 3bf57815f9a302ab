package sim

import (
	"github.com/san-kum/planetsim/internal/dynamo"
)

// Config controls a headless run.
type Config struct {
	FixedStep     float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		FixedStep:     DefaultFixedStep,
		Duration:      365 * 24 * 3600,
		SampleEvery:   24,
		ValidateState: true,
	}
}

type Result struct {
	States      []dynamo.State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
