package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the set of points p with Normal·p = Dist.
// Points with a positive distance are on the front side.
type Plane struct {
	Normal mgl64.Vec3
	Dist   float64
}

// NewPlane normalises the given normal and distance.
func NewPlane(normal mgl64.Vec3, dist float64) Plane {
	l := normal.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: normal.Mul(1 / l), Dist: dist / l}
}

// PlaneFromPoints returns the plane through a, b and c. The normal faces
// the side from which the points appear counter-clockwise.
func PlaneFromPoints(a, b, c mgl64.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	n = n.Mul(1 / l)
	return Plane{Normal: n, Dist: n.Dot(a)}
}

// DistanceTo returns the signed distance of p from the plane.
func (p Plane) DistanceTo(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) - p.Dist
}

// Flipped returns the plane facing the other way.
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Mul(-1), Dist: -p.Dist}
}

// IsValid reports whether the plane has a unit normal.
func (p Plane) IsValid() bool {
	return math.Abs(p.Normal.Len()-1) < 1e-6
}
