package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/planetsim/internal/dynamo"
	"github.com/san-kum/planetsim/internal/storage"
	"github.com/san-kum/planetsim/internal/viz"
)

const defaultStroke = "#c8c8ff"

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}
	if fill == "" {
		fill = defaultStroke
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g fill="%s">
`, width, height, width, height, fill)

	dotRadius := scale * 0.4

	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func orbitBounds(states []dynamo.State) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, x := range states {
		for i := 0; i+1 < len(x); i += dynamo.Stride {
			b.minX = math.Min(b.minX, x[i])
			b.maxX = math.Max(b.maxX, x[i])
			b.minY = math.Min(b.minY, x[i+1])
			b.maxY = math.Max(b.maxY, x[i+1])
		}
	}
	return b
}

// OrbitsToSVG draws the recorded trajectory of every body as its own
// coloured path. Both axes share one scale so orbits keep their shape.
func OrbitsToSVG(meta *storage.RunMetadata, states []dynamo.State, width, height int) string {
	if len(states) == 0 || len(meta.Bodies) == 0 {
		return ""
	}

	b := orbitBounds(states)

	// Add padding
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx := (b.minX + b.maxX) / 2
	cy := (b.minY + b.maxY) / 2
	scale := math.Min(float64(width), float64(height)) / span

	project := func(x, y float64) (float64, float64) {
		return float64(width)/2 + (x-cx)*scale, float64(height)/2 - (y-cy)*scale
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height)

	last := states[len(states)-1]
	for i, bm := range meta.Bodies {
		off := i * dynamo.Stride
		stroke := bm.Color
		if stroke == "" {
			stroke = defaultStroke
		}

		if len(states) > 1 {
			fmt.Fprintf(&sb, `<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, bm.Name, stroke)
			for j, x := range states {
				px, py := project(x[off], x[off+1])
				if j == 0 {
					fmt.Fprintf(&sb, "%.1f,%.1f", px, py)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
				}
			}
			sb.WriteString("\"/>\n")
		}

		px, py := project(last[off], last[off+1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"><title>%s</title></circle>\n", px, py, stroke, bm.Name)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
