package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line starting at Origin.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane returns the parameter where the ray meets the plane.
func (r Ray) IntersectPlane(p Plane) (float64, bool) {
	denom := p.Normal.Dot(r.Direction)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	return (p.Dist - p.Normal.Dot(r.Origin)) / denom, true
}

// ClosestOnLine returns the parameter s of the point on the line
// origin + s*dir that is closest to the ray, and whether the two are not
// parallel.
func (r Ray) ClosestOnLine(origin, dir mgl64.Vec3) (float64, bool) {
	w := origin.Sub(r.Origin)
	a := dir.Dot(dir)
	b := dir.Dot(r.Direction)
	c := r.Direction.Dot(r.Direction)
	d := dir.Dot(w)
	e := r.Direction.Dot(w)
	denom := a*c - b*b
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	return (b*e - c*d) / denom, true
}
