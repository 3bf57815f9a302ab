package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/planetsim/internal/dynamo"
)

// Simulator runs a system for a fixed duration without any frame pacing.
type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates x0 for cfg.Duration. On cancellation the states recorded
// so far are returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	sample := cfg.SampleEvery
	if sample < 1 {
		sample = 1
	}

	steps := int(cfg.Duration / cfg.FixedStep)
	result := &Result{
		States:  make([]dynamo.State, 0, steps/sample+2),
		Times:   make([]float64, 0, steps/sample+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.FixedStep

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialEnergy := s.computeEnergy(x)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		newX := s.integrator.Step(s.sys, x, t, dt)

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState})
			break
		}

		x = newX
		t = float64(i+1) * dt
		result.StepsTaken++

		if result.StepsTaken%sample == 0 || i == steps-1 {
			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		}
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(x0 dynamo.State, cfg Config) error {
	if cfg.FixedStep <= 0 {
		return fmt.Errorf("fixed step must be positive, got %f: %w", cfg.FixedStep, dynamo.ErrParameterBounds)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("state has %d entries, system wants %d: %w", len(x0), s.sys.StateDim(), dynamo.ErrDimensionMismatch)
	}
	return nil
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if h, ok := s.sys.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
