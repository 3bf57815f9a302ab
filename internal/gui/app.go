package gui

import (
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/view"
)

const (
	fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	fontSize = 20

	// hudInterval is how often, in seconds, the slow HUD lines refresh.
	hudInterval = 0.2
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(255, 255, 255, 255)
	ColTextDim = rl.NewColor(140, 140, 140, 255)
	ColGrid    = rl.NewColor(40, 40, 40, 255)
	ColTrail   = rl.NewColor(90, 90, 110, 255)
)

type Options struct {
	Title  string
	Width  int
	Height int
	FPS    int
	Zoom   float64
	// Follow is the body index to track at start, or -1.
	Follow int
}

type App struct {
	Clock  *sim.Clock
	Camera *view.Camera
	Trails *view.Trails
	Font   rl.Font
	opts   Options

	ShowTrails bool
	ShowGrid   bool
	ShowHelp   bool

	hud      [3]string
	throttle *view.Throttle
	mouse    r2.Vec
	hovered  []int
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when installed and falls back to the
// raylib default font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(clock *sim.Clock, opts Options) *App {
	a := &App{
		Clock:      clock,
		Camera:     view.NewCamera(float64(opts.Width), float64(opts.Height)),
		Trails:     view.NewTrails(600, 6),
		Font:       loadFont(),
		opts:       opts,
		ShowTrails: true,
		ShowGrid:   true,
		throttle:   view.NewThrottle(opts.FPS, hudInterval),
	}
	a.resetCamera()
	return a
}

// Run opens the window and blocks until it is closed or Esc is pressed.
func Run(clock *sim.Clock, opts Options) {
	initWindow(opts)
	defer rl.CloseWindow()
	app := NewApp(clock, opts)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			return
		}
		a.Draw()
	}
}

func (a *App) resetCamera() {
	a.Camera.Reset()
	a.Camera.SetZoom(a.opts.Zoom)
	a.Camera.Follow = a.opts.Follow
}

// Update handles input, advances the clock and re-centres on the followed
// body. It reports whether the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}

	if rl.IsWindowResized() {
		a.Camera.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
		a.throttle.Force()
	}

	a.handleKeys()
	a.handleMouse()

	n, err := a.Clock.Frame()
	if err != nil {
		slog.Error("simulation halted", "err", err)
	}
	if n > 0 {
		a.Trails.Record(a.Clock.Bodies())
	}

	a.Camera.Track(a.Clock.Bodies())
	a.hovered = a.Camera.Hovered(a.mouse, a.Clock.Bodies())
	return false
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Clock.TogglePause()
	case rl.IsKeyPressed(rl.KeyW):
		a.Clock.Faster()
		a.throttle.Force()
	case rl.IsKeyPressed(rl.KeyS):
		a.Clock.Slower()
		a.throttle.Force()
	case rl.IsKeyPressed(rl.KeyC):
		a.resetCamera()
		a.Camera.Follow = -1
	case rl.IsKeyPressed(rl.KeyN):
		if a.Clock.Paused() {
			if err := a.Clock.StepOnce(); err != nil {
				slog.Error("step failed", "err", err)
			}
		}
	case rl.IsKeyPressed(rl.KeyR):
		a.Clock.Reset()
		a.Trails.Clear()
	case rl.IsKeyPressed(rl.KeyT):
		a.ShowTrails = !a.ShowTrails
	case rl.IsKeyPressed(rl.KeyG):
		a.ShowGrid = !a.ShowGrid
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHelp = !a.ShowHelp
	}
}

func (a *App) handleMouse() {
	mp := rl.GetMousePosition()
	a.mouse = r2.Vec{X: float64(mp.X), Y: float64(mp.Y)}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		fast := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
		a.Camera.ZoomAt(a.mouse, float64(wheel), fast)
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			a.Camera.Pan(r2.Vec{X: float64(d.X), Y: float64(d.Y)})
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.Camera.Follow = a.Camera.Pick(a.mouse, a.Clock.Bodies())
	}
}
