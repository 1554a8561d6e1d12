package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box stored as centre and half-size.
// A box with any negative extent is invalid (empty).
type AABB struct {
	Origin  mgl64.Vec3
	Extents mgl64.Vec3
}

// EmptyAABB returns an invalid box that becomes valid on the first Include.
func EmptyAABB() AABB {
	return AABB{Extents: mgl64.Vec3{-1, -1, -1}}
}

// AABBFromMinMax builds a box spanning min and max.
func AABBFromMinMax(min, max mgl64.Vec3) AABB {
	return AABB{
		Origin:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

// AABBFromPoints returns the smallest box containing all points.
func AABBFromPoints(points ...mgl64.Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box.Include(p)
	}
	return box
}

// IsValid reports whether the box contains at least one point.
func (b AABB) IsValid() bool {
	return b.Extents[0] >= 0 && b.Extents[1] >= 0 && b.Extents[2] >= 0
}

func (b AABB) Min() mgl64.Vec3 { return b.Origin.Sub(b.Extents) }
func (b AABB) Max() mgl64.Vec3 { return b.Origin.Add(b.Extents) }

// Include grows the box to contain p.
func (b *AABB) Include(p mgl64.Vec3) {
	if !b.IsValid() {
		b.Origin = p
		b.Extents = mgl64.Vec3{}
		return
	}
	min, max := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		min[i] = math.Min(min[i], p[i])
		max[i] = math.Max(max[i], p[i])
	}
	*b = AABBFromMinMax(min, max)
}

// IncludeAABB grows the box to contain other. Invalid boxes are ignored.
func (b *AABB) IncludeAABB(other AABB) {
	if !other.IsValid() {
		return
	}
	if !b.IsValid() {
		*b = other
		return
	}
	b.Include(other.Min())
	b.Include(other.Max())
}

// Corners returns the eight corner points.
func (b AABB) Corners() [8]mgl64.Vec3 {
	min, max := b.Min(), b.Max()
	return [8]mgl64.Vec3{
		{min[0], min[1], min[2]},
		{max[0], min[1], min[2]},
		{max[0], max[1], min[2]},
		{min[0], max[1], min[2]},
		{min[0], min[1], max[2]},
		{max[0], min[1], max[2]},
		{max[0], max[1], max[2]},
		{min[0], max[1], max[2]},
	}
}

// Transformed returns the box enclosing b after transforming its corners by m.
func (b AABB) Transformed(m mgl64.Mat4) AABB {
	if !b.IsValid() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out.Include(mgl64.TransformCoordinate(c, m))
	}
	return out
}

// Overlaps reports strict overlap on every axis. Boxes that only share a
// face, edge or corner do not overlap.
func (b AABB) Overlaps(other AABB) bool {
	if !b.IsValid() || !other.IsValid() {
		return false
	}
	for i := 0; i < 3; i++ {
		if math.Abs(b.Origin[i]-other.Origin[i]) >= b.Extents[i]+other.Extents[i] {
			return false
		}
	}
	return true
}

// Contains reports whether other lies within b, boundaries included.
func (b AABB) Contains(other AABB) bool {
	return b.ContainsAxes(other, 3)
}

// ContainsAxes is Contains restricted to the first n axes (2 ignores Z).
func (b AABB) ContainsAxes(other AABB, n int) bool {
	if !b.IsValid() || !other.IsValid() {
		return false
	}
	bmin, bmax := b.Min(), b.Max()
	omin, omax := other.Min(), other.Max()
	for i := 0; i < n; i++ {
		if omin[i] < bmin[i] || omax[i] > bmax[i] {
			return false
		}
	}
	return true
}
