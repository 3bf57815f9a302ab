package stream

import (
	"github.com/san-kum/planetsim/internal/sim"
)

// Snapshot is the JSON frame sent to clients. Positions are metres and
// velocities m/s.
type Snapshot struct {
	Time     float64     `json:"time"`
	Timestep float64     `json:"timestep"`
	Paused   bool        `json:"paused"`
	Steps    int         `json:"steps"`
	Energy   float64     `json:"energy"`
	Bodies   []BodyState `json:"bodies"`
}

type BodyState struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

func snapshotOf(clock *sim.Clock) Snapshot {
	bodies := clock.Bodies()
	snap := Snapshot{
		Time:     clock.Elapsed(),
		Timestep: clock.Timestep(),
		Paused:   clock.Paused(),
		Steps:    clock.Steps(),
		Energy:   clock.Energy(),
		Bodies:   make([]BodyState, len(bodies)),
	}
	for i, b := range bodies {
		snap.Bodies[i] = BodyState{
			Name:   b.Name,
			X:      b.Pos.X,
			Y:      b.Pos.Y,
			VX:     b.Vel.X,
			VY:     b.Vel.Y,
			Radius: b.Radius,
			Color:  b.Color.Hex(),
		}
	}
	return snap
}
