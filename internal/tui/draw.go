package tui

import (
	"math"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/view"
	"github.com/san-kum/planetsim/internal/viz"
)

const (
	trailColor     = "#444466"
	indicatorColor = "#666688"
)

// draw renders bodies onto canvas through cam. The camera works in canvas
// sub-pixels. Off-screen bodies get an indicator from the centre.
func draw(canvas *viz.Canvas, cam *view.Camera, bodies body.Set, trails *view.Trails) {
	canvas.Clear()

	if trails != nil {
		for i := range bodies {
			for _, p := range trails.Path(i) {
				if s, ok := cam.WorldToScreen(p); ok {
					canvas.SetColor(int(s.X), int(s.Y), trailColor)
				}
			}
		}
	}

	for i := range bodies {
		b := &bodies[i]
		s, ok := cam.WorldToScreen(b.Pos)
		if !ok {
			if from, to, ok := cam.Indicator(b); ok {
				canvas.DrawLine(int(from.X), int(from.Y), int(to.X), int(to.Y), indicatorColor)
			}
			continue
		}
		r := int(math.Round(cam.SizeToScreen(b.Radius)))
		canvas.FillCircle(int(s.X), int(s.Y), r, b.Color.Hex())
	}
}

// fitCamera sizes cam to the canvas so one sub-pixel is one camera pixel.
func fitCamera(cam *view.Camera, canvas *viz.Canvas) {
	w, h := canvas.Size()
	cam.Resize(float64(w), float64(h))
}
