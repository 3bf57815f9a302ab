package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/san-kum/planetsim/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var runIDPattern = regexp.MustCompile(`run id: (\S+)`)

func runBinary(t *testing.T, dir string, extra ...string) string {
	t.Helper()
	args := append([]string{"run", "--data", dir, "--preset", "binary", "--duration", "30", "--sample", "12", "--log-level", "error"}, extra...)
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	m := runIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no run id in output:\n%s", out)
	}
	return m[1]
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range config.ListPresets() {
		if !strings.Contains(out, name) {
			t.Errorf("missing preset %s in:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "Earth") {
		t.Error("earth_moon should list its follow target")
	}
}

func TestRunListAndExport(t *testing.T) {
	dir := t.TempDir()
	runID := runBinary(t, dir)

	if !strings.HasPrefix(runID, "binary_") {
		t.Errorf("unexpected run id %s", runID)
	}

	out, err := execute(t, "list", "--data", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, runID) || !strings.Contains(out, "symplectic") {
		t.Errorf("list missing run:\n%s", out)
	}

	jsonPath := filepath.Join(dir, "run.json")
	if _, err := execute(t, "export-json", runID, "--data", dir, "-o", jsonPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		ID     string `json:"id"`
		Frames []struct {
			Bodies map[string]json.RawMessage `json:"bodies"`
		} `json:"frames"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	// 720 steps sampled every 12, plus the initial state.
	if doc.ID != runID || len(doc.Frames) != 61 {
		t.Errorf("unexpected export: id %s, %d frames", doc.ID, len(doc.Frames))
	}
	if _, ok := doc.Frames[0].Bodies["Alpha"]; !ok {
		t.Error("frames should be keyed by body name")
	}

	svgPath := filepath.Join(dir, "orbits.svg")
	if _, err := execute(t, "export-svg", runID, "--data", dir, "-o", svgPath); err != nil {
		t.Fatal(err)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(svg), "<path") != 2 {
		t.Error("expected one orbit path per star")
	}
}

func TestRunUnknownIntegrator(t *testing.T) {
	if _, err := execute(t, "run", "--data", t.TempDir(), "--integrator", "magic"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestPlotCommand(t *testing.T) {
	dir := t.TempDir()
	runID := runBinary(t, dir, "--integrator", "rk4")

	out, err := execute(t, "plot", runID, "--data", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Alpha distance from barycenter") || !strings.Contains(out, "Beta distance") {
		t.Errorf("missing captions:\n%s", out)
	}

	out, err = execute(t, "plot", runID, "--data", dir, "--energy")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "relative energy drift") {
		t.Errorf("missing energy plot:\n%s", out)
	}

	if _, err := execute(t, "plot", "nope", "--data", dir); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestInitWritesLoadableScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	if _, err := execute(t, "init", path, "--preset", "earth_moon"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written scenario does not load: %v", err)
	}
	if cfg.Name != "earth_moon" || len(cfg.Bodies) != 2 {
		t.Errorf("unexpected scenario %s with %d bodies", cfg.Name, len(cfg.Bodies))
	}

	if _, err := execute(t, "init", path); err == nil {
		t.Error("expected refusal to overwrite")
	}
	if _, err := execute(t, "init", path, "--force"); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "euler", "rk4", "--preset", "binary", "--duration", "10")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"INTEGRATOR", "euler", "rk4", "240"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	if _, err := execute(t, "compare", "bogus"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestUnknownPreset(t *testing.T) {
	if _, err := execute(t, "run", "--preset", "pluto", "--data", t.TempDir()); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "presets", "--log-level", "loud"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestTUIOptions(t *testing.T) {
	opts := tuiOptions(config.DefaultConfig())
	if opts.Zoom != 0 || opts.Follow != -1 {
		t.Errorf("default scenario should open fitted, got zoom %g follow %d", opts.Zoom, opts.Follow)
	}

	em := config.GetPreset("earth_moon")
	opts = tuiOptions(em)
	if opts.Follow != 0 || opts.Zoom != em.Camera.Zoom/10 {
		t.Errorf("followed scenario should keep its zoom, got zoom %g follow %d", opts.Zoom, opts.Follow)
	}
}
