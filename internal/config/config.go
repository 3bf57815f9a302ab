package config

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/view"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultFPS    = 60
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid scenario")

type Config struct {
	Name       string       `yaml:"name"`
	G          float64      `yaml:"g,omitempty"`
	Softening  float64      `yaml:"softening,omitempty"`
	Integrator string       `yaml:"integrator"`
	FixedStep  float64      `yaml:"fixed_step"`
	Timestep   float64      `yaml:"timestep"`
	AutoOrbit  bool         `yaml:"auto_orbit,omitempty"`
	Window     WindowConfig `yaml:"window"`
	Camera     CameraConfig `yaml:"camera"`
	Bodies     []BodyConfig `yaml:"bodies"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type CameraConfig struct {
	Zoom   float64 `yaml:"zoom"`
	Follow string  `yaml:"follow,omitempty"`
}

// BodyConfig is one body in SI units. Position is metres from the origin,
// velocity m/s.
type BodyConfig struct {
	Name     string     `yaml:"name"`
	Mass     float64    `yaml:"mass"`
	Radius   float64    `yaml:"radius"`
	Position [2]float64 `yaml:"position,flow"`
	Velocity [2]float64 `yaml:"velocity,flow"`
	Color    string     `yaml:"color"`
}

// DefaultConfig is the full solar system.
func DefaultConfig() *Config {
	return &Config{
		Name:       "solar",
		Integrator: integrators.Default,
		FixedStep:  sim.DefaultFixedStep,
		Timestep:   sim.DefaultTimestep,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
		},
		Camera: CameraConfig{Zoom: view.DefaultZoom},
		Bodies: append([]BodyConfig(nil), solarSystem...),
	}
}

// Load reads a scenario file. Unset fields keep their DefaultConfig values,
// except bodies, which replace the default list when present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GravityConstant returns G, falling back to the physical value.
func (c *Config) GravityConstant() float64 {
	if c.G == 0 {
		return physics.G
	}
	return c.G
}

func (c *Config) Validate() error {
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalidConfig, i)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate body name %q", ErrInvalidConfig, b.Name)
		}
		seen[b.Name] = true
		if !(b.Mass > 0) {
			return fmt.Errorf("%w: body %s: mass must be positive", ErrInvalidConfig, b.Name)
		}
		if b.Radius < 0 {
			return fmt.Errorf("%w: body %s: radius must not be negative", ErrInvalidConfig, b.Name)
		}
		if b.Color != "" {
			if _, err := body.ParseColor(b.Color); err != nil {
				return fmt.Errorf("%w: body %s: %v", ErrInvalidConfig, b.Name, err)
			}
		}
	}
	if c.FixedStep <= 0 {
		return fmt.Errorf("%w: fixed_step must be positive", ErrInvalidConfig)
	}
	if c.Timestep <= 0 {
		return fmt.Errorf("%w: timestep must be positive", ErrInvalidConfig)
	}
	if c.G < 0 || c.Softening < 0 {
		return fmt.Errorf("%w: g and softening must not be negative", ErrInvalidConfig)
	}
	if !integrators.Known(c.Integrator) {
		return fmt.Errorf("%w: unknown integrator %q (available: %v)", ErrInvalidConfig, c.Integrator, integrators.Names())
	}
	if c.Camera.Zoom < view.MinZoom || c.Camera.Zoom > view.MaxZoom {
		return fmt.Errorf("%w: zoom %g outside [%g, %g]", ErrInvalidConfig, c.Camera.Zoom, float64(view.MinZoom), float64(view.MaxZoom))
	}
	if c.Camera.Follow != "" && !seen[c.Camera.Follow] {
		return fmt.Errorf("%w: follow target %q is not a body", ErrInvalidConfig, c.Camera.Follow)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 || c.Window.FPS <= 0 {
		return fmt.Errorf("%w: window size and fps must be positive", ErrInvalidConfig)
	}
	return nil
}

// BodySet converts the body list. With AutoOrbit set, every body other than
// the first that has zero velocity is given a circular orbit around the
// first.
func (c *Config) BodySet() (body.Set, error) {
	set := make(body.Set, len(c.Bodies))
	for i, bc := range c.Bodies {
		col := body.Color{R: 200, G: 200, B: 255}
		if bc.Color != "" {
			var err error
			if col, err = body.ParseColor(bc.Color); err != nil {
				return nil, fmt.Errorf("%w: body %s: %v", ErrInvalidConfig, bc.Name, err)
			}
		}
		set[i] = body.Body{
			Name:   bc.Name,
			Mass:   bc.Mass,
			Radius: bc.Radius,
			Pos:    r2.Vec{X: bc.Position[0], Y: bc.Position[1]},
			Vel:    r2.Vec{X: bc.Velocity[0], Y: bc.Velocity[1]},
			Color:  col,
		}
	}

	if c.AutoOrbit && len(set) > 1 {
		central := set[0]
		for i := 1; i < len(set); i++ {
			if set[i].Vel != (r2.Vec{}) {
				continue
			}
			v := physics.CircularVelocity(c.GravityConstant(), central.Mass, central.Pos, set[i].Pos)
			set[i].Vel = r2.Add(central.Vel, v)
		}
	}

	return set, nil
}

// Gravity builds the physics system for the scenario's bodies.
func (c *Config) Gravity(bodies body.Set) *physics.Gravity {
	g := physics.NewGravity(body.Masses(bodies))
	g.G = c.GravityConstant()
	g.Softening = c.Softening
	return g
}

func (c *Config) ClockConfig() sim.ClockConfig {
	cc := sim.DefaultClockConfig()
	cc.FixedStep = c.FixedStep
	cc.Timestep = c.Timestep
	cc.MaxTimestep = c.FixedStep * (sim.DefaultClockConfig().MaxTimestep / sim.DefaultFixedStep)
	return cc
}

// NewClock wires bodies, gravity and integrator into a ready clock.
func (c *Config) NewClock() (*sim.Clock, error) {
	bodies, err := c.BodySet()
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(c.Integrator)
	if err != nil {
		return nil, err
	}
	return sim.NewClock(bodies, c.Gravity(bodies), integ, c.ClockConfig())
}
