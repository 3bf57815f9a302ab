package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/view"
)

const lineHeight = 30

var helpLines = []string{
	"Esc quit    Space pause    N step",
	"W/S timestep x2 /2    C reset camera",
	"wheel zoom (Shift fast)    right-drag pan",
	"left click follow    R reset    T trails    G grid",
}

func vec(p r2.Vec) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func colorOf(c body.Color) rl.Color { return rl.NewColor(c.R, c.G, c.B, 255) }

func (a *App) drawText(text string, x, y float64, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), fontSize, 1, color)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(ColBg)

	bodies := a.Clock.Bodies()
	cam := a.Camera

	if a.ShowGrid {
		a.drawGrid()
	}
	if a.ShowTrails {
		a.drawTrails(bodies)
	}
	for i := range bodies {
		a.drawBody(&bodies[i])
	}

	for _, i := range view.InfoTargets(cam.Follow, a.hovered) {
		if i < len(bodies) {
			a.drawInfo(&bodies[i])
		}
	}

	a.drawText(cam.FormatCoords(a.mouse), 5, 5, ColText)

	if a.throttle.Tick() {
		a.hud = view.HUDLines(a.Clock.Timestep(), int(rl.GetFPS()), a.Clock.Elapsed())
	}
	a.drawText(a.hud[0], 5, 35, ColText)
	a.drawText(a.hud[1], 5, 65, ColText)
	a.drawText(a.hud[2], 5, cam.Height-lineHeight, ColText)

	if a.Clock.Paused() {
		a.drawText("PAUSED", cam.Width-100, 5, ColTextDim)
	}
	if a.ShowHelp {
		for i, line := range helpLines {
			a.drawText(line, 5, 110+float64(i*lineHeight), ColTextDim)
		}
	}
}

func (a *App) drawGrid() {
	cam := a.Camera
	xs, ys := cam.GridLines(view.DefaultGridSpacing)
	for _, x := range xs {
		rl.DrawLineV(rl.NewVector2(float32(x), 0), rl.NewVector2(float32(x), float32(cam.Height)), ColGrid)
	}
	for _, y := range ys {
		rl.DrawLineV(rl.NewVector2(0, float32(y)), rl.NewVector2(float32(cam.Width), float32(y)), ColGrid)
	}
}

func (a *App) drawTrails(bodies body.Set) {
	for i := range bodies {
		path := a.Trails.Path(i)
		for j := 1; j < len(path); j++ {
			from, ok1 := a.Camera.WorldToScreen(path[j-1])
			to, ok2 := a.Camera.WorldToScreen(path[j])
			if ok1 || ok2 {
				rl.DrawLineV(vec(from), vec(to), ColTrail)
			}
		}
	}
}

// drawBody draws b, or an indicator towards it when it is off screen.
func (a *App) drawBody(b *body.Body) {
	s, ok := a.Camera.WorldToScreen(b.Pos)
	if ok {
		rl.DrawCircleV(vec(s), float32(a.Camera.DrawRadius(b)), colorOf(b.Color))
		return
	}
	if from, to, ok := a.Camera.Indicator(b); ok {
		rl.DrawLineEx(vec(from), vec(to), 2, colorOf(b.Color))
	}
}

func (a *App) drawInfo(b *body.Body) {
	s, ok := a.Camera.WorldToScreen(b.Pos)
	if !ok {
		return
	}
	for i, line := range view.BodyInfo(b) {
		a.drawText(line, s.X+20, s.Y+20+float64(i*lineHeight), ColText)
	}
}
