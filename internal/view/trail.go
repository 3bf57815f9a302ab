package view

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
)

// Trails keeps the recent positions of every body, in metres.
type Trails struct {
	capacity int
	every    int
	calls    int
	paths    [][]r2.Vec
}

// NewTrails keeps up to capacity points per body, recording one in every
// calls to Record.
func NewTrails(capacity, every int) *Trails {
	if capacity < 2 {
		capacity = 2
	}
	if every < 1 {
		every = 1
	}
	return &Trails{capacity: capacity, every: every, calls: every - 1}
}

func (t *Trails) Record(bodies body.Set) {
	t.calls++
	if t.calls < t.every {
		return
	}
	t.calls = 0

	if len(t.paths) != len(bodies) {
		t.paths = make([][]r2.Vec, len(bodies))
	}
	for i := range bodies {
		p := t.paths[i]
		if len(p) == t.capacity {
			copy(p, p[1:])
			p = p[:len(p)-1]
		}
		t.paths[i] = append(p, bodies[i].Pos)
	}
}

// Path returns the points for body i, oldest first. The slice is reused by
// later calls to Record.
func (t *Trails) Path(i int) []r2.Vec {
	if i < 0 || i >= len(t.paths) {
		return nil
	}
	return t.paths[i]
}

func (t *Trails) Clear() {
	t.paths = nil
	t.calls = t.every - 1
}
