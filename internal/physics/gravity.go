package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/planetsim/internal/dynamo"
)

// G is the Newtonian gravitational constant in m^3 kg^-1 s^-2.
const G = 6.67430e-11

// parallelThreshold is the body count above which force evaluation is split
// across goroutines.
const parallelThreshold = 64

// Gravity is pairwise Newtonian gravity between point masses.
type Gravity struct {
	Masses    []float64
	G         float64
	Softening float64
}

// NewGravity returns a Gravity system for the given masses with the physical
// value of G and no softening.
func NewGravity(masses []float64) *Gravity {
	m := make([]float64, len(masses))
	copy(m, masses)
	return &Gravity{
		Masses: m,
		G:      G,
	}
}

func (g *Gravity) NumBodies() int { return len(g.Masses) }
func (g *Gravity) StateDim() int  { return len(g.Masses) * dynamo.Stride }

func (g *Gravity) Derive(x dynamo.State, t float64) dynamo.State {
	n := g.NumBodies()
	dx := make(dynamo.State, len(x))

	ax, ay := g.Accelerations(x)

	for i := 0; i < n; i++ {
		o := i * dynamo.Stride
		dx[o] = x[o+2]
		dx[o+1] = x[o+3]
		dx[o+2] = ax[i]
		dx[o+3] = ay[i]
	}

	return dx
}

// Accelerations returns the gravitational acceleration on every body, all
// computed from the same snapshot x.
func (g *Gravity) Accelerations(x dynamo.State) ([]float64, []float64) {
	n := g.NumBodies()
	ax := make([]float64, n)
	ay := make([]float64, n)

	if n > parallelThreshold {
		dynamo.ParallelFor(n, parallelThreshold/4, func(start, end int) {
			for i := start; i < end; i++ {
				ax[i], ay[i] = g.accelerationOn(x, i)
			}
		})
		return ax, ay
	}

	eps2 := g.Softening * g.Softening
	for i := 0; i < n; i++ {
		xi, yi := x[i*dynamo.Stride], x[i*dynamo.Stride+1]

		for j := i + 1; j < n; j++ {
			rx := x[j*dynamo.Stride] - xi
			ry := x[j*dynamo.Stride+1] - yi
			d2 := rx*rx + ry*ry + eps2
			if d2 == 0 {
				continue
			}

			rInv := 1.0 / math.Sqrt(d2)
			r3Inv := rInv * rInv * rInv

			fij := g.G * g.Masses[j] * r3Inv
			ax[i] += fij * rx
			ay[i] += fij * ry

			fji := g.G * g.Masses[i] * r3Inv
			ax[j] -= fji * rx
			ay[j] -= fji * ry
		}
	}

	return ax, ay
}

// accelerationOn sums the pull on body i alone. Used by the parallel path,
// where each worker owns a disjoint range of i.
func (g *Gravity) accelerationOn(x dynamo.State, i int) (float64, float64) {
	eps2 := g.Softening * g.Softening
	xi, yi := x[i*dynamo.Stride], x[i*dynamo.Stride+1]
	ax, ay := 0.0, 0.0

	for j := range g.Masses {
		if j == i {
			continue
		}
		rx := x[j*dynamo.Stride] - xi
		ry := x[j*dynamo.Stride+1] - yi
		d2 := rx*rx + ry*ry + eps2
		if d2 == 0 {
			continue
		}
		rInv := 1.0 / math.Sqrt(d2)
		f := g.G * g.Masses[j] * rInv * rInv * rInv
		ax += f * rx
		ay += f * ry
	}

	return ax, ay
}

func (g *Gravity) Energy(x dynamo.State) float64 {
	n := g.NumBodies()
	ke := 0.0
	pe := 0.0
	eps2 := g.Softening * g.Softening

	for i := 0; i < n; i++ {
		vx, vy := x[i*dynamo.Stride+2], x[i*dynamo.Stride+3]
		ke += 0.5 * g.Masses[i] * (vx*vx + vy*vy)

		for j := i + 1; j < n; j++ {
			rx := x[j*dynamo.Stride] - x[i*dynamo.Stride]
			ry := x[j*dynamo.Stride+1] - x[i*dynamo.Stride+1]
			r := math.Sqrt(rx*rx + ry*ry + eps2)
			if r == 0 {
				continue
			}
			pe -= g.G * g.Masses[i] * g.Masses[j] / r
		}
	}

	return ke + pe
}

func (g *Gravity) Momentum(x dynamo.State) r2.Vec {
	var p r2.Vec
	for i, m := range g.Masses {
		p.X += m * x[i*dynamo.Stride+2]
		p.Y += m * x[i*dynamo.Stride+3]
	}
	return p
}

func (g *Gravity) AngularMomentum(x dynamo.State) float64 {
	L := 0.0
	for i, m := range g.Masses {
		xi, yi := x[i*dynamo.Stride], x[i*dynamo.Stride+1]
		vx, vy := x[i*dynamo.Stride+2], x[i*dynamo.Stride+3]
		L += m * (xi*vy - yi*vx)
	}
	return L
}

// Barycenter returns the centre of mass.
func (g *Gravity) Barycenter(x dynamo.State) r2.Vec {
	var c r2.Vec
	total := 0.0
	for i, m := range g.Masses {
		c.X += m * x[i*dynamo.Stride]
		c.Y += m * x[i*dynamo.Stride+1]
		total += m
	}
	if total == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/total, c)
}

// CircularVelocity returns the velocity, relative to the central body, of a
// counter-clockwise circular orbit at pos. A zero vector is returned when pos
// coincides with the centre.
func CircularVelocity(gc, centralMass float64, center, pos r2.Vec) r2.Vec {
	d := r2.Sub(pos, center)
	r := r2.Norm(d)
	if r == 0 {
		return r2.Vec{}
	}
	v := math.Sqrt(gc * centralMass / r)
	return r2.Vec{X: -d.Y / r * v, Y: d.X / r * v}
}
