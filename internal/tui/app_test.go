package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/sim"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	clock, err := config.GetPreset("inner").NewClock()
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	return New(clock, Options{Scenario: "inner", FPS: 30, Zoom: 0.01, Follow: -1, SnapshotDir: t.TempDir()})
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestPauseAndStep(t *testing.T) {
	m := newTestModel(t)

	press(m, " ")
	if !m.clock.Paused() {
		t.Fatal("space should pause")
	}

	m.Update(tickMsg{})
	if m.clock.Steps() != 0 {
		t.Errorf("paused clock advanced %d steps", m.clock.Steps())
	}

	press(m, "n")
	if m.clock.Steps() != 1 {
		t.Errorf("expected one step, got %d", m.clock.Steps())
	}

	press(m, " ")
	m.Update(tickMsg{})
	if got := m.clock.Steps(); got != 1+int(sim.DefaultTimestep/sim.DefaultFixedStep) {
		t.Errorf("expected a full frame of steps, got %d", got)
	}
}

func TestTimestepKeys(t *testing.T) {
	m := newTestModel(t)
	base := m.clock.Timestep()

	press(m, "w")
	if m.clock.Timestep() != 2*base {
		t.Errorf("w should double the timestep, got %g", m.clock.Timestep())
	}
	press(m, "s", "s")
	if m.clock.Timestep() != base/2 {
		t.Errorf("s should halve the timestep, got %g", m.clock.Timestep())
	}
}

func TestZoomAndPan(t *testing.T) {
	m := newTestModel(t)
	z := m.cam.Zoom

	press(m, "+")
	if m.cam.Zoom <= z {
		t.Errorf("+ should zoom in, got %g", m.cam.Zoom)
	}
	press(m, "-", "-")
	if m.cam.Zoom >= z {
		t.Errorf("- should zoom out, got %g", m.cam.Zoom)
	}

	press(m, "tab")
	if m.cam.Follow != 0 {
		t.Fatalf("tab should follow the first body, got %d", m.cam.Follow)
	}
	x := m.cam.Offset.X
	press(m, "left")
	if m.cam.Follow != -1 {
		t.Error("panning should stop following")
	}
	if m.cam.Offset.X <= x {
		t.Errorf("left should move the offset right, got %g from %g", m.cam.Offset.X, x)
	}

	press(m, "c")
	if m.cam.Zoom != 0.01 || m.cam.Follow != -1 {
		t.Errorf("c should restore the start camera, got zoom %g follow %d", m.cam.Zoom, m.cam.Follow)
	}
}

func TestCycleFollowWraps(t *testing.T) {
	m := newTestModel(t)
	n := len(m.clock.Bodies())

	for i := 0; i < n; i++ {
		press(m, "tab")
	}
	if m.cam.Follow != n-1 {
		t.Fatalf("expected last body, got %d", m.cam.Follow)
	}
	press(m, "tab")
	if m.cam.Follow != -1 {
		t.Errorf("expected follow to wrap to none, got %d", m.cam.Follow)
	}
}

func TestResetSimulation(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m.Update(tickMsg{})
	}
	if len(m.history) == 0 {
		t.Fatal("expected energy history after frames")
	}

	press(m, "r")
	if m.clock.Steps() != 0 || m.history != nil {
		t.Errorf("r should reset the run, got %d steps", m.clock.Steps())
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewAndResize(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.canvas.Width != 120-panelWidth-4 || m.canvas.Height != 38 {
		t.Errorf("unexpected canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
	if w, h := m.canvas.Size(); m.cam.Width != float64(w) || m.cam.Height != float64(h) {
		t.Errorf("camera not sized to canvas: %gx%g", m.cam.Width, m.cam.Height)
	}

	out := m.View()
	if !strings.Contains(out, "inner") || !strings.Contains(out, "timestep") {
		t.Errorf("view missing panel content:\n%s", out)
	}
}

func TestSnapshot(t *testing.T) {
	m := newTestModel(t)
	m.View()
	press(m, "p")

	path := filepath.Join(m.opts.SnapshotDir, "inner_0.svg")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v (status %q)", err, m.status)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("snapshot is not svg")
	}
}

func onCanvas(m *Model) int {
	n := 0
	for _, b := range m.clock.Bodies() {
		if _, ok := m.cam.WorldToScreen(b.Pos); ok {
			n++
		}
	}
	return n
}

func TestDefaultScenarioStartsFitted(t *testing.T) {
	clock, err := config.DefaultConfig().NewClock()
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	m := New(clock, Options{Scenario: "solar", Follow: -1})
	total := len(clock.Bodies())

	if got := onCanvas(m); got != total {
		t.Fatalf("%d of %d bodies on canvas at zoom %g", got, total, m.cam.Zoom)
	}

	z := m.cam.Zoom
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	if m.cam.Zoom <= z {
		t.Errorf("a larger terminal should refit closer, zoom %g from %g", m.cam.Zoom, z)
	}
	if got := onCanvas(m); got != total {
		t.Errorf("%d of %d bodies on canvas after resize", got, total)
	}

	press(m, "+")
	z = m.cam.Zoom
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.cam.Zoom != z {
		t.Errorf("manual zoom should survive a resize, got %g want %g", m.cam.Zoom, z)
	}

	press(m, "c")
	if got := onCanvas(m); got != total {
		t.Errorf("c should restore the fitted view, %d of %d on canvas", got, total)
	}
}
