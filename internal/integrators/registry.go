package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/planetsim/internal/dynamo"
)

// Default is the scheme used when a scenario does not name one.
const Default = "symplectic"

var registry = map[string]func() dynamo.Integrator{
	"euler":      func() dynamo.Integrator { return NewEuler() },
	"symplectic": func() dynamo.Integrator { return NewSymplecticEuler() },
	"verlet":     func() dynamo.Integrator { return NewVerlet() },
	"leapfrog":   func() dynamo.Integrator { return NewLeapfrog() },
	"rk4":        func() dynamo.Integrator { return NewRK4() },
}

// New returns a fresh integrator. Integrators keep scratch buffers, so each
// simulation needs its own instance.
func New(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Known(name string) bool {
	_, ok := registry[name]
	return ok
}
