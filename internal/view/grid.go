package view

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
)

// DefaultGridSpacing is the grid pitch in world units.
const DefaultGridSpacing = 100_000

// maxGridLines stops the grid from degenerating into a solid fill when
// zoomed far out.
const maxGridLines = 512

// GridLines returns the screen x of each vertical line and the screen y of
// each horizontal line. Lines sit on world multiples of spacing and only
// on-screen lines are returned.
func (c *Camera) GridLines(spacing float64) (xs, ys []float64) {
	if spacing <= 0 {
		return nil, nil
	}

	topLeft := c.ScreenToWorld(r2.Vec{})
	bottomRight := c.ScreenToWorld(r2.Vec{X: c.Width, Y: c.Height})

	if (bottomRight.X-topLeft.X)/spacing > maxGridLines || (bottomRight.Y-topLeft.Y)/spacing > maxGridLines {
		return nil, nil
	}

	startX := math.Floor(topLeft.X/spacing) * spacing
	endX := (math.Floor(bottomRight.X/spacing) + 1) * spacing
	startY := math.Floor(topLeft.Y/spacing) * spacing
	endY := (math.Floor(bottomRight.Y/spacing) + 1) * spacing

	for x := startX; x < endX; x += spacing {
		sx := (x + c.Offset.X) * c.Zoom
		if sx >= 0 && sx <= c.Width {
			xs = append(xs, sx)
		}
	}
	for y := startY; y < endY; y += spacing {
		sy := (y + c.Offset.Y) * c.Zoom
		if sy >= 0 && sy <= c.Height {
			ys = append(ys, sy)
		}
	}
	return xs, ys
}

// indicatorScale converts a world-unit distance into indicator length in
// pixels.
const indicatorScale = 1000.0 / WorldScale

// Indicator returns a segment pointing from the screen centre towards an
// off-screen body. Its length grows with the body's distance from the view
// centre. ok is false when the body is on screen.
func (c *Camera) Indicator(b *body.Body) (from, to r2.Vec, ok bool) {
	if _, on := c.WorldToScreen(b.Pos); on {
		return r2.Vec{}, r2.Vec{}, false
	}

	center := c.Center()
	centerWorld := c.ScreenToWorld(center)
	d := r2.Sub(ToWorld(b.Pos), centerWorld)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}, r2.Vec{}, false
	}
	dir := r2.Scale(1/dist, d)

	offset := c.Width / 8
	length := dist * indicatorScale

	from = r2.Add(center, r2.Scale(offset, dir))
	to = r2.Add(center, r2.Scale(offset+length+offset/10, dir))
	return from, to, true
}
