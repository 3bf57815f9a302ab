package view

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
)

// Duration is a simulated span split into calendar-style parts. Months are
// 30 days and years are 12 months.
type Duration struct {
	Years, Months, Days, Hours, Minutes, Seconds int64
}

func SecondsToTime(seconds float64) Duration {
	s := int64(seconds)
	if s < 0 {
		s = 0
	}
	var d Duration
	d.Minutes, d.Seconds = s/60, s%60
	d.Hours, d.Minutes = d.Minutes/60, d.Minutes%60
	d.Days, d.Hours = d.Hours/24, d.Hours%24
	d.Months, d.Days = d.Days/30, d.Days%30
	d.Years, d.Months = d.Months/12, d.Months%12
	return d
}

// String joins the non-zero parts, largest first, e.g. "1y 2m 3d 4h 5m 6s".
func (d Duration) String() string {
	parts := make([]string, 0, 6)
	add := func(v int64, unit string) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%d%s", v, unit))
		}
	}
	add(d.Years, "y")
	add(d.Months, "m")
	add(d.Days, "d")
	add(d.Hours, "h")
	add(d.Minutes, "m")
	add(d.Seconds, "s")
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

func FormatTime(seconds float64) string {
	return SecondsToTime(seconds).String()
}

// kilo formats a world-unit value in thousands with up to two decimals.
func kilo(v float64) string {
	return trimFloat(math.Round(v/1000*100)/100) + "k"
}

func trimFloat(v float64) string {
	if v == 0 {
		v = 0 // normalise -0
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// FormatCoords renders the mouse world position, the camera offset and the
// zoom for the top HUD line.
func (c *Camera) FormatCoords(mouse r2.Vec) string {
	w := c.ScreenToWorld(mouse)
	return fmt.Sprintf("(%s, %s) - (%s, %s) - %s",
		kilo(w.X), kilo(w.Y),
		kilo(c.Offset.X), kilo(c.Offset.Y),
		trimFloat(math.Round(c.Zoom*10000)/10000))
}

// BodyInfo returns the info panel lines for b: name, position in world
// units and speed in km/s.
func BodyInfo(b *body.Body) []string {
	w := ToWorld(b.Pos)
	return []string{
		"Name: " + b.Name,
		fmt.Sprintf("Pos: (%.0f, %.0f)", math.Round(w.X), math.Round(w.Y)),
		fmt.Sprintf("Vel: %.2f km/s", b.Speed()/1000),
	}
}

// Throttle fires once every N calls. The slow HUD lines use it so they
// stay readable at high frame rates.
type Throttle struct {
	every   int
	counter int
}

// NewThrottle returns a throttle that fires every interval seconds at fps
// frames per second. It fires on the first call.
func NewThrottle(fps int, interval float64) *Throttle {
	every := int(float64(fps) * interval)
	if every < 1 {
		every = 1
	}
	return &Throttle{every: every, counter: every}
}

func (t *Throttle) Tick() bool {
	t.counter++
	if t.counter >= t.every {
		t.counter = 0
		return true
	}
	return false
}

// Force makes the next Tick fire.
func (t *Throttle) Force() { t.counter = t.every }

// HUDLines are the slow-refresh lines: timestep, frame rate and simulated
// time passed.
func HUDLines(timestep float64, fps int, elapsed float64) [3]string {
	return [3]string{
		"Timestep: " + FormatTime(timestep),
		fmt.Sprintf("%d FPS", fps),
		"Time passed: " + FormatTime(elapsed),
	}
}

// InfoTargets lists the bodies that get an info panel: the followed body
// first, then hovered bodies other than it.
func InfoTargets(follow int, hovered []int) []int {
	out := make([]int, 0, len(hovered)+1)
	if follow >= 0 {
		out = append(out, follow)
	}
	for _, i := range hovered {
		if i != follow {
			out = append(out, i)
		}
	}
	return out
}
