// Package view holds the screen-space math shared by the window and
// terminal front-ends: the camera transform, picking, the background grid,
// off-screen indicators and HUD formatting.
//
// Coordinates come in three flavours. Physics works in metres. The camera
// works in world units of WorldScale metres each. Screen coordinates are
// pixels with the origin at the top-left corner.
package view

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/body"
)

const (
	// WorldScale is metres per world unit: 1 unit = 10 000 km.
	WorldScale = 10_000_000

	DefaultZoom = 0.001
	MinZoom     = 0.001
	MaxZoom     = 25.0

	// zoomNotch is the zoom change for one wheel notch at the slowest rung.
	zoomNotch = 0.001
	// fastZoom multiplies the notch while Shift is held.
	fastZoom = 10

	// HoverRadius is the minimum pick radius in pixels.
	HoverRadius = 5
	// MinDrawRadius keeps tiny bodies visible.
	MinDrawRadius = 2
)

// zoomLadder speeds zooming up as the view gets closer. Rungs are checked
// from the top; the first whose threshold the zoom exceeds wins.
var zoomLadder = []struct {
	above float64
	speed float64
}{
	{10, 200},
	{1, 100},
	{0.5, 50},
	{0.1, 25},
	{0.01, 5},
}

// Camera maps world units to pixels as (world + Offset) * Zoom.
type Camera struct {
	Offset r2.Vec
	Zoom   float64
	Width  float64
	Height float64

	// Follow is the index of the body the camera tracks, or -1.
	Follow int

	// ZoomFloor overrides MinZoom when set. Coarse canvases need to zoom
	// further out than a window does.
	ZoomFloor float64
}

func NewCamera(width, height float64) *Camera {
	c := &Camera{Width: width, Height: height}
	c.Reset()
	return c
}

// Reset restores the default zoom with the world origin in the middle of
// the screen and stops following.
func (c *Camera) Reset() {
	c.Zoom = DefaultZoom
	c.Offset = r2.Vec{X: c.Width / 2 / c.Zoom, Y: c.Height / 2 / c.Zoom}
	c.Follow = -1
}

func (c *Camera) minZoom() float64 {
	if c.ZoomFloor > 0 {
		return c.ZoomFloor
	}
	return MinZoom
}

// ToWorld converts metres to world units.
func ToWorld(p r2.Vec) r2.Vec { return r2.Scale(1.0/WorldScale, p) }

// WorldToScreen converts a position in metres to pixels. The bool reports
// whether the point falls inside the screen.
func (c *Camera) WorldToScreen(p r2.Vec) (r2.Vec, bool) {
	s := r2.Scale(c.Zoom, r2.Add(ToWorld(p), c.Offset))
	return s, c.OnScreen(s)
}

// ScreenToWorld converts pixels to world units.
func (c *Camera) ScreenToWorld(s r2.Vec) r2.Vec {
	return r2.Sub(r2.Scale(1/c.Zoom, s), c.Offset)
}

func (c *Camera) OnScreen(s r2.Vec) bool {
	return s.X >= 0 && s.Y >= 0 && s.X <= c.Width && s.Y <= c.Height
}

// SizeToScreen converts a length in metres to pixels.
func (c *Camera) SizeToScreen(m float64) float64 {
	return m / WorldScale * c.Zoom
}

func (c *Camera) Center() r2.Vec {
	return r2.Vec{X: c.Width / 2, Y: c.Height / 2}
}

// ZoomAt zooms one wheel notch in (direction > 0) or out (direction < 0),
// keeping the world point under mouse fixed on screen.
func (c *Camera) ZoomAt(mouse r2.Vec, direction float64, fast bool) {
	if direction == 0 {
		return
	}

	speed := 1.0
	if fast {
		speed = fastZoom
	}
	for _, rung := range zoomLadder {
		if c.Zoom > rung.above {
			speed *= rung.speed
			break
		}
	}

	step := zoomNotch
	if direction < 0 {
		step = -step
	}
	newZoom := math.Max(c.minZoom(), math.Min(c.Zoom+step*speed, MaxZoom))

	c.Offset.X -= mouse.X/c.Zoom - mouse.X/newZoom
	c.Offset.Y -= mouse.Y/c.Zoom - mouse.Y/newZoom
	c.Zoom = newZoom
}

// SetZoom sets the zoom, clamped to range, about the screen centre.
func (c *Camera) SetZoom(z float64) {
	center := c.Center()
	newZoom := math.Max(c.minZoom(), math.Min(z, MaxZoom))
	c.Offset.X -= center.X/c.Zoom - center.X/newZoom
	c.Offset.Y -= center.Y/c.Zoom - center.Y/newZoom
	c.Zoom = newZoom
}

// Pan moves the view by a mouse delta in pixels and stops following.
func (c *Camera) Pan(delta r2.Vec) {
	c.Offset = r2.Add(c.Offset, r2.Scale(1/c.Zoom, delta))
	c.Follow = -1
}

// CenterOn places a position in metres at the middle of the screen.
func (c *Camera) CenterOn(p r2.Vec) {
	c.Offset = r2.Sub(r2.Scale(1/c.Zoom, c.Center()), ToWorld(p))
}

// Track centres on the followed body, if any. It drops the follow target
// when the index is no longer valid.
func (c *Camera) Track(bodies body.Set) {
	if c.Follow < 0 {
		return
	}
	if c.Follow >= len(bodies) {
		c.Follow = -1
		return
	}
	c.CenterOn(bodies[c.Follow].Pos)
}

// Resize adapts to a new window size, scaling the offset with it.
func (c *Camera) Resize(width, height float64) {
	if c.Width > 0 {
		c.Offset.X *= width / c.Width
	}
	if c.Height > 0 {
		c.Offset.Y *= height / c.Height
	}
	c.Width, c.Height = width, height
}

// DrawRadius is the on-screen radius for b in pixels.
func (c *Camera) DrawRadius(b *body.Body) float64 {
	return math.Max(c.SizeToScreen(b.Radius), MinDrawRadius)
}

// Hovering reports whether mouse is over b. Off-screen bodies are never
// hovered.
func (c *Camera) Hovering(mouse r2.Vec, b *body.Body) bool {
	s, ok := c.WorldToScreen(b.Pos)
	if !ok {
		return false
	}
	return r2.Norm(r2.Sub(s, mouse)) <= math.Max(c.SizeToScreen(b.Radius), HoverRadius)
}

// Hovered returns the indices of all bodies under mouse, in draw order.
func (c *Camera) Hovered(mouse r2.Vec, bodies body.Set) []int {
	var out []int
	for i := range bodies {
		if c.Hovering(mouse, &bodies[i]) {
			out = append(out, i)
		}
	}
	return out
}

// Pick returns the topmost body under mouse, or -1.
func (c *Camera) Pick(mouse r2.Vec, bodies body.Set) int {
	h := c.Hovered(mouse, bodies)
	if len(h) == 0 {
		return -1
	}
	return h[len(h)-1]
}

// Fit centres the bounding box of bodies on screen and picks the largest
// zoom that keeps it inside, leaving a margin of one tenth per side.
func (c *Camera) Fit(bodies body.Set) {
	if len(bodies) == 0 {
		return
	}
	lo, hi := bodies[0].Pos, bodies[0].Pos
	for _, b := range bodies[1:] {
		lo = r2.Vec{X: math.Min(lo.X, b.Pos.X), Y: math.Min(lo.Y, b.Pos.Y)}
		hi = r2.Vec{X: math.Max(hi.X, b.Pos.X), Y: math.Max(hi.Y, b.Pos.Y)}
	}

	span := ToWorld(r2.Sub(hi, lo))
	zoom := MaxZoom
	if span.X > 0 {
		zoom = math.Min(zoom, 0.8*c.Width/span.X)
	}
	if span.Y > 0 {
		zoom = math.Min(zoom, 0.8*c.Height/span.Y)
	}
	c.Zoom = math.Max(c.minZoom(), zoom)
	c.CenterOn(r2.Scale(0.5, r2.Add(lo, hi)))
}
