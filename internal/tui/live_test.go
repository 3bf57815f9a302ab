package tui

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/config"
)

func TestLiveRenderer(t *testing.T) {
	bodies := body.Set{
		{Name: "Sun", Mass: 2e30, Radius: 7e8},
		{Name: "Earth", Mass: 6e24, Pos: r2.Vec{X: 1.5e11}, Vel: r2.Vec{Y: 3e4}},
	}
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "pair", bodies, 1000)

	r.Start()
	r.OnStep(body.Pack(bodies), 3600)
	r.Stop()

	s := out.String()
	if !strings.HasPrefix(s, hideCursor) || !strings.HasSuffix(s, showCursor) {
		t.Error("expected cursor hide/show around output")
	}
	if !strings.Contains(s, "pair  t=1h") {
		t.Errorf("missing header in %q", s)
	}
	if !strings.Contains(s, "Earth") {
		t.Error("missing body line")
	}
	if len(r.trails.Path(1)) != 1 {
		t.Error("expected the frame to be recorded in the trails")
	}
}

func TestLiveRendererIgnoresBadState(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "x", body.Set{{Name: "a", Mass: 1}}, 10)
	r.OnStep(nil, 0)
	if out.Len() != 0 {
		t.Error("mismatched state should not render")
	}
}

func TestLiveRendererFitsScenario(t *testing.T) {
	bodies, err := config.DefaultConfig().BodySet()
	if err != nil {
		t.Fatal(err)
	}
	r := NewLiveRenderer(&bytes.Buffer{}, "solar", bodies, 10)
	for _, b := range bodies {
		if _, ok := r.cam.WorldToScreen(b.Pos); !ok {
			t.Errorf("%s starts off the canvas at zoom %g", b.Name, r.cam.Zoom)
		}
	}
}
