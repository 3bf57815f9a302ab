package tui

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/export"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/view"
	"github.com/san-kum/planetsim/internal/viz"
)

const (
	panelWidth   = 34
	historyLen   = 48
	zoomStep     = 1.25
	panFraction  = 0.1
	defaultFPS   = 30
	minCanvasCol = 10
	minCanvasRow = 5

	// zoomFloor lets a small braille canvas hold a whole solar system.
	zoomFloor = view.MinZoom / 100
)

type Options struct {
	Scenario string
	FPS      int
	// Zoom is the start zoom. Zero fits every body on the canvas.
	Zoom float64
	// Follow is the body index to track at start, or -1.
	Follow int
	// SnapshotDir receives SVG snapshots. Empty means the working directory.
	SnapshotDir string
}

type Model struct {
	clock  *sim.Clock
	cam    *view.Camera
	canvas *viz.Canvas
	trails *view.Trails
	opts   Options

	e0      float64
	history []float64

	showTrails bool
	showHelp   bool
	status     string

	// fitted is set while the view is the one Fit chose; resizes refit it.
	fitted bool

	width, height int
}

func New(clock *sim.Clock, opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	m := &Model{
		clock:      clock,
		cam:        view.NewCamera(0, 0),
		trails:     view.NewTrails(240, 2),
		opts:       opts,
		e0:         clock.Energy(),
		showTrails: true,
		width:      100,
		height:     30,
	}
	m.cam.ZoomFloor = zoomFloor
	m.resize(m.width, m.height)
	m.resetCamera()
	m.cam.Track(clock.Bodies())
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(clock *sim.Clock, opts Options) error {
	p := tea.NewProgram(New(clock, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type tickMsg time.Time

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		m.frame()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) frame() {
	n, err := m.clock.Frame()
	if err != nil {
		m.status = err.Error()
	}
	if n > 0 {
		m.record()
	}
	m.cam.Track(m.clock.Bodies())
}

func (m *Model) record() {
	m.trails.Record(m.clock.Bodies())
	if d := m.drift(); !math.IsNaN(d) {
		m.history = append(m.history, d)
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
	}
}

// drift is the relative energy change since start, NaN when unknown.
func (m *Model) drift() float64 {
	if m.e0 == 0 || math.IsNaN(m.e0) {
		return math.NaN()
	}
	return math.Abs((m.clock.Energy() - m.e0) / m.e0)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w, h := m.cam.Width, m.cam.Height
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.clock.TogglePause()
	case "w":
		m.clock.Faster()
	case "s":
		m.clock.Slower()
	case "+", "=":
		m.cam.SetZoom(m.cam.Zoom * zoomStep)
		m.fitted = false
	case "-", "_":
		m.cam.SetZoom(m.cam.Zoom / zoomStep)
		m.fitted = false
	case "left", "h":
		m.pan(r2.Vec{X: w * panFraction})
	case "right", "l":
		m.pan(r2.Vec{X: -w * panFraction})
	case "up", "k":
		m.pan(r2.Vec{Y: h * panFraction})
	case "down", "j":
		m.pan(r2.Vec{Y: -h * panFraction})
	case "tab":
		m.cycleFollow(1)
	case "shift+tab":
		m.cycleFollow(-1)
	case "c":
		m.resetCamera()
		m.cam.Follow = -1
	case "f":
		m.cam.Fit(m.clock.Bodies())
		m.cam.Follow = -1
		m.fitted = true
	case "r":
		m.clock.Reset()
		m.trails.Clear()
		m.history = nil
		m.status = ""
	case "n":
		if m.clock.Paused() {
			if err := m.clock.StepOnce(); err != nil {
				m.status = err.Error()
			} else {
				m.record()
			}
		}
	case "t":
		m.showTrails = !m.showTrails
	case "p":
		m.status = m.snapshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	m.cam.Track(m.clock.Bodies())
	return m, nil
}

// cycleFollow walks the follow target through every body and "none".
func (m *Model) cycleFollow(dir int) {
	n := len(m.clock.Bodies()) + 1
	next := (m.cam.Follow + 1 + dir + n) % n
	m.cam.Follow = next - 1
	m.fitted = false
}

func (m *Model) pan(delta r2.Vec) {
	m.cam.Pan(delta)
	m.fitted = false
}

func (m *Model) resetCamera() {
	m.cam.Reset()
	if m.opts.Zoom > 0 {
		m.cam.SetZoom(m.opts.Zoom)
		m.fitted = false
	} else {
		m.cam.Fit(m.clock.Bodies())
		m.fitted = true
	}
	m.cam.Follow = m.opts.Follow
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	cols := max(width-panelWidth-4, minCanvasCol)
	rows := max(height-2, minCanvasRow)
	m.canvas = viz.NewCanvas(cols, rows)
	fitCamera(m.cam, m.canvas)
	if m.fitted {
		m.cam.Fit(m.clock.Bodies())
	}
}

func (m *Model) snapshot() string {
	name := fmt.Sprintf("%s_%d.svg", m.opts.Scenario, m.clock.Steps())
	path := filepath.Join(m.opts.SnapshotDir, name)
	svg := export.CanvasToSVG(m.canvas, 4, "")
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return "snapshot: " + err.Error()
	}
	return "saved " + path
}

func (m *Model) View() string {
	var trails *view.Trails
	if m.showTrails {
		trails = m.trails
	}
	draw(m.canvas, m.cam, m.clock.Bodies(), trails)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		viz.Panel.Render(m.canvas.String()),
		viz.Panel.Width(panelWidth).Render(m.panel()),
	)
}

func (m *Model) panel() string {
	var b strings.Builder

	title := m.opts.Scenario
	if title == "" {
		title = "planetsim"
	}
	b.WriteString(viz.Title.Render(title) + "  ")
	if m.clock.Paused() {
		b.WriteString(viz.StatusPaused.Render("paused"))
	} else {
		b.WriteString(viz.StatusRunning.Render("running"))
	}
	b.WriteString("\n\n")

	b.WriteString(viz.Label("timestep", view.FormatTime(m.clock.Timestep())+"/frame") + "\n")
	b.WriteString(viz.Label("elapsed ", view.FormatTime(m.clock.Elapsed())) + "\n")
	b.WriteString(viz.Label("zoom    ", fmt.Sprintf("%.4g", m.cam.Zoom)) + "\n")

	if d := m.drift(); !math.IsNaN(d) {
		b.WriteString(viz.Label("dE/E0   ", fmt.Sprintf("%.3e", d)) + "\n")
		b.WriteString(viz.Sparkline(m.history, panelWidth-2) + "\n")
	}

	b.WriteString("\n")
	bodies := m.clock.Bodies()
	if f := m.cam.Follow; f >= 0 && f < len(bodies) {
		for _, line := range view.BodyInfo(&bodies[f]) {
			b.WriteString(line + "\n")
		}
	} else {
		b.WriteString(viz.Subtle.Render("following nothing") + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + viz.StatusPaused.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		for _, line := range helpLines {
			b.WriteString(viz.KeyHint.Render(line) + "\n")
		}
	} else {
		b.WriteString(viz.KeyHint.Render("? help  q quit") + "\n")
	}
	return b.String()
}

var helpLines = []string{
	"space  pause",
	"w/s    timestep x2 /2",
	"+/-    zoom",
	"hjkl   pan",
	"tab    follow next",
	"c      reset camera",
	"f      fit all bodies",
	"r      reset simulation",
	"n      step (paused)",
	"t      trails",
	"p      svg snapshot",
	"q      quit",
}
