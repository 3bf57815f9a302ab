package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/storage"
	"github.com/san-kum/planetsim/internal/viz"
)

func testRun() (*storage.RunMetadata, []dynamo.State, []float64) {
	meta := &storage.RunMetadata{
		ID:       "pair_1",
		Scenario: "pair",
		Bodies: []storage.BodyMeta{
			{Name: "Sun", Mass: 2e30, Color: "#ffcc00"},
			{Name: "Earth", Mass: 6e24},
		},
	}
	states := []dynamo.State{
		{0, 0, 0, 0, 1e11, 0, 0, 3e4},
		{0, 0, 0, 0, 0, 1e11, -3e4, 0},
		{0, 0, 0, 0, -1e11, 0, 0, -3e4},
	}
	return meta, states, []float64{0, 100, 200}
}

func TestOrbitsToSVG(t *testing.T) {
	meta, states, _ := testRun()
	svg := OrbitsToSVG(meta, states, 400, 300)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg[:min(len(svg), 40)])
	}
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("expected one path per body, got %d", n)
	}
	if !strings.Contains(svg, `stroke="#ffcc00"`) {
		t.Error("body colour not used")
	}
	if !strings.Contains(svg, `stroke="`+defaultStroke+`"`) {
		t.Error("fallback colour not used")
	}
	if !strings.Contains(svg, "<title>Earth</title>") {
		t.Error("missing body marker")
	}
}

func TestOrbitsToSVGEmpty(t *testing.T) {
	meta, _, _ := testRun()
	if svg := OrbitsToSVG(meta, nil, 100, 100); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}

func TestOrbitsToSVGSingleSample(t *testing.T) {
	meta, states, _ := testRun()
	svg := OrbitsToSVG(meta, states[:1], 100, 100)
	if strings.Contains(svg, "<path") {
		t.Error("single sample should draw markers only")
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected two markers, got %d", strings.Count(svg, "<circle"))
	}
}

func TestWriteJSON(t *testing.T) {
	meta, states, times := testRun()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, states, times); err != nil {
		t.Fatal(err)
	}

	var got struct {
		ID     string `json:"id"`
		Frames []struct {
			Time   float64               `json:"time"`
			Bodies map[string]BodySample `json:"bodies"`
		} `json:"frames"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "pair_1" {
		t.Errorf("expected id pair_1, got %s", got.ID)
	}
	if len(got.Frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(got.Frames))
	}
	earth := got.Frames[1].Bodies["Earth"]
	if earth.Y != 1e11 || earth.VX != -3e4 || got.Frames[1].Time != 100 {
		t.Errorf("unexpected frame %+v", got.Frames[1])
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 2)
	svg := CanvasToSVG(c, 4, "")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("unexpected dimensions")
	}
	if CanvasToSVG(nil, 1, "") != "" {
		t.Error("nil canvas should give empty output")
	}
}
