package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/dynamo"
)

const (
	// DefaultFixedStep is one hour of simulated time per integration.
	DefaultFixedStep = 60 * 60
	// DefaultTimestep is six hours of simulated time per rendered frame.
	DefaultTimestep = 6 * 60 * 60
	// DefaultMinTimestep is the smallest per-frame timestep Slower reaches.
	DefaultMinTimestep = 60
	// maxStepsPerFrame bounds the default MaxTimestep in units of FixedStep.
	maxStepsPerFrame = 1 << 12
)

// ClockConfig sets the pacing of a Clock.
type ClockConfig struct {
	FixedStep   float64
	Timestep    float64
	MinTimestep float64
	MaxTimestep float64
}

func DefaultClockConfig() ClockConfig {
	return ClockConfig{
		FixedStep:   DefaultFixedStep,
		Timestep:    DefaultTimestep,
		MinTimestep: DefaultMinTimestep,
		MaxTimestep: DefaultFixedStep * maxStepsPerFrame,
	}
}

// Clock drives a simulation from a render loop. Each frame adds Timestep
// seconds to an accumulator and integrates as many whole FixedStep steps as
// fit, carrying the remainder to the next frame.
//
// Clock is not safe for concurrent use.
type Clock struct {
	sys   dynamo.System
	integ dynamo.Integrator

	initial body.Set
	bodies  body.Set
	state   dynamo.State

	cfg      ClockConfig
	timestep float64
	acc      float64
	steps    int
	paused   bool

	observers []dynamo.Observer
}

func NewClock(bodies body.Set, sys dynamo.System, integ dynamo.Integrator, cfg ClockConfig) (*Clock, error) {
	if cfg.FixedStep <= 0 {
		return nil, fmt.Errorf("fixed step must be positive, got %g: %w", cfg.FixedStep, dynamo.ErrParameterBounds)
	}
	if cfg.Timestep <= 0 {
		return nil, fmt.Errorf("timestep must be positive, got %g: %w", cfg.Timestep, dynamo.ErrParameterBounds)
	}
	if cfg.MinTimestep <= 0 {
		cfg.MinTimestep = DefaultMinTimestep
	}
	if cfg.MaxTimestep <= 0 {
		cfg.MaxTimestep = cfg.FixedStep * maxStepsPerFrame
	}
	if cfg.MinTimestep > cfg.MaxTimestep {
		return nil, fmt.Errorf("min timestep %g above max %g: %w", cfg.MinTimestep, cfg.MaxTimestep, dynamo.ErrParameterBounds)
	}

	state := body.Pack(bodies)
	if len(state) != sys.StateDim() {
		return nil, fmt.Errorf("%d bodies for a system of dimension %d: %w", len(bodies), sys.StateDim(), dynamo.ErrDimensionMismatch)
	}

	return &Clock{
		sys:      sys,
		integ:    integ,
		initial:  bodies.Clone(),
		bodies:   bodies.Clone(),
		state:    state,
		cfg:      cfg,
		timestep: clamp(cfg.Timestep, cfg.MinTimestep, cfg.MaxTimestep),
	}, nil
}

func (c *Clock) AddObserver(o dynamo.Observer) { c.observers = append(c.observers, o) }

// Frame advances the simulation by one rendered frame and returns the
// number of fixed steps integrated. A paused clock does not move.
//
// If a step yields a NaN or Inf state, the clock pauses, keeps the last
// valid state and returns an error wrapping dynamo.ErrInvalidState.
func (c *Clock) Frame() (int, error) {
	if c.paused {
		return 0, nil
	}

	c.acc += c.timestep
	n := 0
	for c.acc >= c.cfg.FixedStep {
		if err := c.advance(); err != nil {
			c.acc = 0
			c.paused = true
			c.sync()
			return n, err
		}
		c.acc -= c.cfg.FixedStep
		n++
	}

	if n > 0 {
		c.sync()
	}
	return n, nil
}

// StepOnce integrates exactly one fixed step, paused or not.
func (c *Clock) StepOnce() error {
	if err := c.advance(); err != nil {
		c.paused = true
		return err
	}
	c.sync()
	return nil
}

func (c *Clock) advance() error {
	t := c.Elapsed()
	next := c.integ.Step(c.sys, c.state, t, c.cfg.FixedStep)
	if !next.IsValid() {
		return &dynamo.SimulationError{Step: c.steps, Time: t, Wrapped: dynamo.ErrInvalidState}
	}

	c.state = next
	c.steps++

	for _, obs := range c.observers {
		obs.OnStep(c.state, c.Elapsed())
	}
	return nil
}

func (c *Clock) sync() {
	// Length is checked in NewClock and never changes.
	_ = body.Unpack(c.bodies, c.state)
}

// Reset restores the initial bodies, clears elapsed time and unpauses.
// The timestep is left as is.
func (c *Clock) Reset() {
	c.bodies = c.initial.Clone()
	c.state = body.Pack(c.bodies)
	c.acc = 0
	c.steps = 0
	c.paused = false
}

func (c *Clock) Faster() {
	c.timestep = clamp(c.timestep*2, c.cfg.MinTimestep, c.cfg.MaxTimestep)
}

func (c *Clock) Slower() {
	c.timestep = clamp(c.timestep/2, c.cfg.MinTimestep, c.cfg.MaxTimestep)
}

func (c *Clock) TogglePause()     { c.paused = !c.paused }
func (c *Clock) SetPaused(p bool) { c.paused = p }
func (c *Clock) Paused() bool     { return c.paused }

// Timestep is the simulated time added per frame, in seconds.
func (c *Clock) Timestep() float64  { return c.timestep }
func (c *Clock) FixedStep() float64 { return c.cfg.FixedStep }
func (c *Clock) Steps() int         { return c.steps }

// Elapsed is the simulated time integrated so far, in seconds.
func (c *Clock) Elapsed() float64 { return float64(c.steps) * c.cfg.FixedStep }

// Bodies returns the current bodies. The slice is owned by the clock and is
// overwritten by the next frame; callers must not modify it.
func (c *Clock) Bodies() body.Set { return c.bodies }

func (c *Clock) State() dynamo.State { return c.state.Clone() }

// Energy returns the system's total energy, or NaN if it has none.
func (c *Clock) Energy() float64 {
	if h, ok := c.sys.(dynamo.Hamiltonian); ok {
		return h.Energy(c.state)
	}
	return math.NaN()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
