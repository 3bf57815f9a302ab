package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/storage"
)

type BodySample struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type Frame struct {
	Time   float64               `json:"time"`
	Bodies map[string]BodySample `json:"bodies"`
}

type ExportData struct {
	*storage.RunMetadata
	Frames []Frame `json:"frames"`
}

// WriteJSON writes a run with one frame per recorded sample, bodies keyed by
// name.
func WriteJSON(w io.Writer, meta *storage.RunMetadata, states []dynamo.State, times []float64) error {
	names := meta.BodyNames()
	data := ExportData{
		RunMetadata: meta,
		Frames:      make([]Frame, len(states)),
	}

	for i, x := range states {
		f := Frame{Bodies: make(map[string]BodySample, len(names))}
		if i < len(times) {
			f.Time = times[i]
		}
		for j, name := range names {
			off := j * dynamo.Stride
			if off+dynamo.Stride > len(x) {
				break
			}
			f.Bodies[name] = BodySample{X: x[off], Y: x[off+1], VX: x[off+2], VY: x[off+3]}
		}
		data.Frames[i] = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
