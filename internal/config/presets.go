package config

import (
	"sort"

	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/sim"
)

var (
	sun     = BodyConfig{Name: "Sun", Mass: 1.989e30, Radius: 696340000, Color: "#ffcc00"}
	mercury = BodyConfig{Name: "Mercury", Mass: 3.302e23, Radius: 2439700, Position: [2]float64{5.791e10, 0}, Velocity: [2]float64{0, 47362}, Color: "#7b7b7b"}
	venus   = BodyConfig{Name: "Venus", Mass: 4.869e24, Radius: 6051800, Position: [2]float64{1.082e11, 0}, Velocity: [2]float64{0, 35020}, Color: "#e5c29a"}
	earth   = BodyConfig{Name: "Earth", Mass: 5.972e24, Radius: 6371000, Position: [2]float64{1.496e11, 0}, Velocity: [2]float64{0, 29780}, Color: "#3b5c9a"}
	mars    = BodyConfig{Name: "Mars", Mass: 6.42e23, Radius: 3389500, Position: [2]float64{2.279e11, 0}, Velocity: [2]float64{0, 24077}, Color: "#c1440e"}
	jupiter = BodyConfig{Name: "Jupiter", Mass: 1.898e27, Radius: 71492000, Position: [2]float64{7.783e11, 0}, Velocity: [2]float64{0, 13060}, Color: "#d19a6a"}
	saturn  = BodyConfig{Name: "Saturn", Mass: 5.684e26, Radius: 58232000, Position: [2]float64{1.427e12, 0}, Velocity: [2]float64{0, 10118}, Color: "#d1b48c"}
	uranus  = BodyConfig{Name: "Uranus", Mass: 8.681e25, Radius: 25362000, Position: [2]float64{2.871e12, 0}, Velocity: [2]float64{0, 6810}, Color: "#a7c6d9"}
	neptune = BodyConfig{Name: "Neptune", Mass: 1.024e26, Radius: 24622000, Position: [2]float64{4.497e12, 0}, Velocity: [2]float64{0, 5477}, Color: "#4b6f9a"}
)

var solarSystem = []BodyConfig{sun, mercury, venus, earth, mars, jupiter, saturn, uranus, neptune}

func scenario(name string, zoom, fixedStep, timestep float64, bodies ...BodyConfig) *Config {
	return &Config{
		Name:       name,
		Integrator: integrators.Default,
		FixedStep:  fixedStep,
		Timestep:   timestep,
		Window:     WindowConfig{Width: DefaultWidth, Height: DefaultHeight, FPS: DefaultFPS},
		Camera:     CameraConfig{Zoom: zoom},
		Bodies:     bodies,
	}
}

var Presets = map[string]*Config{
	"solar": DefaultConfig(),
	"inner": scenario("inner", 0.01, sim.DefaultFixedStep, sim.DefaultTimestep,
		sun, mercury, venus, earth, mars),
	"outer": scenario("outer", 0.001, sim.DefaultFixedStep, 8*sim.DefaultTimestep,
		sun, jupiter, saturn, uranus, neptune),
	"earth_moon": func() *Config {
		cfg := scenario("earth_moon", 5, 60, 3600,
			BodyConfig{Name: "Earth", Mass: earth.Mass, Radius: earth.Radius, Color: earth.Color},
			BodyConfig{Name: "Moon", Mass: 7.342e22, Radius: 1737400, Position: [2]float64{3.844e8, 0}, Velocity: [2]float64{0, 1022}, Color: "#c8c8c8"},
		)
		cfg.Camera.Follow = "Earth"
		return cfg
	}(),
	// Two equal stars on a shared circular orbit about the origin.
	"binary": scenario("binary", 0.02, sim.DefaultFixedStep, sim.DefaultTimestep,
		BodyConfig{Name: "Alpha", Mass: 1e30, Radius: 6e8, Position: [2]float64{-1e11, 0}, Velocity: [2]float64{0, -12917}, Color: "#ffd27f"},
		BodyConfig{Name: "Beta", Mass: 1e30, Radius: 6e8, Position: [2]float64{1e11, 0}, Velocity: [2]float64{0, 12917}, Color: "#9bb0ff"},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
