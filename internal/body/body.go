// Package body defines the simulated planets and stars and converts them to
// and from the flat state vectors the integrators work on.
package body

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/dynamo"
)

// Color is an opaque RGB colour.
type Color struct {
	R, G, B uint8
}

// ParseColor parses a "#rrggbb" string.
func ParseColor(hex string) (Color, error) {
	var c Color
	if len(hex) != 7 || hex[0] != '#' {
		return c, fmt.Errorf("invalid color %q: want #rrggbb", hex)
	}
	n, err := fmt.Sscanf(strings.ToLower(hex), "#%02x%02x%02x", &c.R, &c.G, &c.B)
	if err != nil || n != 3 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb", hex)
	}
	return c, nil
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Body is a planet or star. Positions are metres, velocities m/s.
type Body struct {
	Name   string
	Mass   float64
	Radius float64
	Pos    r2.Vec
	Vel    r2.Vec
	Color  Color
}

func (b *Body) Speed() float64 { return r2.Norm(b.Vel) }

// Validate reports whether b can take part in a simulation.
func (b *Body) Validate() error {
	switch {
	case b.Name == "":
		return fmt.Errorf("body has no name")
	case !(b.Mass > 0):
		return fmt.Errorf("body %s: mass must be positive, got %g", b.Name, b.Mass)
	case b.Radius < 0:
		return fmt.Errorf("body %s: radius must not be negative, got %g", b.Name, b.Radius)
	}
	return nil
}

// Set is an ordered collection of bodies. Order is draw order and pick
// priority: later bodies are drawn on top.
type Set []Body

func (s Set) Find(name string) int {
	for i := range s {
		if s[i].Name == name {
			return i
		}
	}
	return -1
}

func (s Set) Clone() Set {
	c := make(Set, len(s))
	copy(c, s)
	return c
}

func Masses(s Set) []float64 {
	m := make([]float64, len(s))
	for i := range s {
		m[i] = s[i].Mass
	}
	return m
}

// Pack lays bodies out as [x y vx vy]... for the integrators.
func Pack(s Set) dynamo.State {
	x := make(dynamo.State, len(s)*dynamo.Stride)
	for i, b := range s {
		o := i * dynamo.Stride
		x[o] = b.Pos.X
		x[o+1] = b.Pos.Y
		x[o+2] = b.Vel.X
		x[o+3] = b.Vel.Y
	}
	return x
}

// Unpack copies positions and velocities from x back into s.
func Unpack(s Set, x dynamo.State) error {
	if len(x) != len(s)*dynamo.Stride {
		return fmt.Errorf("unpack %d bodies from state of length %d: %w", len(s), len(x), dynamo.ErrDimensionMismatch)
	}
	for i := range s {
		o := i * dynamo.Stride
		s[i].Pos = r2.Vec{X: x[o], Y: x[o+1]}
		s[i].Vel = r2.Vec{X: x[o+2], Y: x[o+3]}
	}
	return nil
}
