package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/view"
	"github.com/san-kum/planetsim/internal/viz"
)

const (
	liveWidth   = 70
	liveHeight  = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a dynamo.Observer that redraws a headless run in the
// terminal at most frameRate times per second.
type LiveRenderer struct {
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time

	bodies body.Set
	canvas *viz.Canvas
	cam    *view.Camera
	trails *view.Trails
	fitted bool
}

func NewLiveRenderer(out io.Writer, name string, bodies body.Set, frameRate int) *LiveRenderer {
	if frameRate < 1 {
		frameRate = 1
	}
	r := &LiveRenderer{
		out:       out,
		name:      name,
		frameRate: frameRate,
		bodies:    bodies.Clone(),
		canvas:    viz.NewCanvas(liveWidth, liveHeight),
		cam:       view.NewCamera(0, 0),
		trails:    view.NewTrails(200, 1),
	}
	r.cam.ZoomFloor = zoomFloor
	fitCamera(r.cam, r.canvas)
	r.cam.Fit(r.bodies)
	return r
}

func (r *LiveRenderer) OnStep(x dynamo.State, t float64) {
	if err := body.Unpack(r.bodies, x); err != nil {
		return
	}

	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	if !r.fitted {
		r.cam.Fit(r.bodies)
		r.fitted = true
	}
	r.trails.Record(r.bodies)
	draw(r.canvas, r.cam, r.bodies, r.trails)
	r.render(t)
}

func (r *LiveRenderer) render(t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%s\n", r.name, view.FormatTime(t))
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	for _, row := range strings.Split(r.canvas.String(), "\n") {
		b.WriteString("  " + row + "\n")
	}

	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	for i := range r.bodies {
		if i >= 4 {
			break
		}
		fmt.Fprintf(&b, "  %-10s %.2f km/s\n", r.bodies[i].Name, r.bodies[i].Speed()/1000)
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
