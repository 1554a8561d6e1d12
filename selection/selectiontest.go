package selection

import (
	"math"

	"gioui.org/f32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/winding"
)

// Test is a pick volume: the part of the world seen through a device
// rectangle of a view.
type Test struct {
	view    View
	min     f32.Point
	max     f32.Point
	frustum geom.Frustum
}

// NewPointTest returns a test around a device point. A zero epsilon is
// widened to one pixel.
func NewPointTest(v View, p, epsilon f32.Point) *Test {
	pixel := v.PixelEpsilon()
	if epsilon.X <= 0 {
		epsilon.X = pixel.X
	}
	if epsilon.Y <= 0 {
		epsilon.Y = pixel.Y
	}
	return newTest(v, p.Sub(epsilon), p.Add(epsilon))
}

// NewAreaTest returns a test for the rectangle spanned by two device
// points. Degenerate rectangles are widened to one pixel.
func NewAreaTest(v View, a, b f32.Point) *Test {
	min := f32.Point{X: float32(math.Min(float64(a.X), float64(b.X))), Y: float32(math.Min(float64(a.Y), float64(b.Y)))}
	max := f32.Point{X: float32(math.Max(float64(a.X), float64(b.X))), Y: float32(math.Max(float64(a.Y), float64(b.Y)))}
	pixel := v.PixelEpsilon()
	if max.X-min.X <= 0 {
		min.X -= pixel.X
		max.X += pixel.X
	}
	if max.Y-min.Y <= 0 {
		min.Y -= pixel.Y
		max.Y += pixel.Y
	}
	return newTest(v, min, max)
}

func newTest(v View, min, max f32.Point) *Test {
	// Scissor the rectangle to the full device range, then take the planes
	// of the resulting clip space.
	x0, x1 := float64(min.X), float64(max.X)
	y0, y1 := float64(min.Y), float64(max.Y)
	sx, sy := 2/(x1-x0), 2/(y1-y0)
	tx, ty := -(x1+x0)/(x1-x0), -(y1+y0)/(y1-y0)
	scissor := mgl64.Translate3D(tx, ty, 0).Mul4(mgl64.Scale3D(sx, sy, 1))

	return &Test{
		view:    v,
		min:     min,
		max:     max,
		frustum: geom.FrustumFromMatrix(scissor.Mul4(v.ViewProj)),
	}
}

// View returns the view the test was made for.
func (t *Test) View() View {
	return t.view
}

// Rect returns the device rectangle.
func (t *Test) Rect() (min, max f32.Point) {
	return t.min, t.max
}

func (t *Test) depthOf(points []mgl64.Vec3) (float64, bool) {
	best, ok := math.Inf(1), false
	for _, p := range points {
		if d, visible := t.view.Project(p); visible {
			best = math.Min(best, d[2])
			ok = true
		}
	}
	return best, ok
}

// Point reports whether p lies in the volume and its device depth.
func (t *Test) Point(p mgl64.Vec3) (float64, bool) {
	if !t.frustum.ContainsPoint(p) {
		return 0, false
	}
	return t.depthOf([]mgl64.Vec3{p})
}

// Segment reports whether any part of a-b lies in the volume and the
// depth of the nearest such part.
func (t *Test) Segment(a, b mgl64.Vec3) (float64, bool) {
	t0, t1, ok := t.frustum.ClipSegment(a, b)
	if !ok {
		return 0, false
	}
	d := b.Sub(a)
	return t.depthOf([]mgl64.Vec3{a.Add(d.Mul(t0)), a.Add(d.Mul(t1))})
}

// Polygon reports whether any part of the convex polygon lies in the
// volume and the depth of the nearest such part.
func (t *Test) Polygon(points []mgl64.Vec3) (float64, bool) {
	if len(points) < 3 {
		switch len(points) {
		case 1:
			return t.Point(points[0])
		case 2:
			return t.Segment(points[0], points[1])
		}
		return 0, false
	}
	w := winding.Winding(points).Clone()
	for _, pl := range t.frustum.Planes {
		w.Clip(pl, 0)
		if w.IsEmpty() {
			return 0, false
		}
	}
	// What survives flat on a side of the volume only touches it.
	for _, pl := range t.frustum.Planes {
		if onPlane(w, pl) {
			return 0, false
		}
	}
	return t.depthOf(w)
}

// touchEpsilon is the distance in world units within which a clipped
// polygon counts as lying on a plane of the volume.
const touchEpsilon = 1e-3

func onPlane(w winding.Winding, pl geom.Plane) bool {
	for _, p := range w {
		if math.Abs(pl.DistanceTo(p)) > touchEpsilon {
			return false
		}
	}
	return true
}

// AABB reports whether any part of the box lies in the volume.
func (t *Test) AABB(box geom.AABB) (float64, bool) {
	if !box.IsValid() {
		return 0, false
	}
	c := box.Corners()
	// Box corners are ordered bottom ring then top ring.
	faces := [6][4]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {2, 3, 7, 6},
		{1, 2, 6, 5}, {0, 4, 7, 3},
	}
	best, hit := math.Inf(1), false
	for _, f := range faces {
		if d, ok := t.Polygon([]mgl64.Vec3{c[f[0]], c[f[1]], c[f[2]], c[f[3]]}); ok {
			best = math.Min(best, d)
			hit = true
		}
	}
	if !hit {
		// Degenerate boxes have flat faces; a point box is still a point.
		if d, ok := t.Point(box.Origin); ok {
			return d, true
		}
	}
	return best, hit
}

// deviceBounds projects points and returns their device space box. ok is
// false if any point is behind the camera.
func (t *Test) deviceBounds(points []mgl64.Vec3) (min, max mgl64.Vec3, ok bool) {
	if len(points) == 0 {
		return min, max, false
	}
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		d, visible := t.view.Project(p)
		if !visible {
			return min, max, false
		}
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], d[i])
			max[i] = math.Max(max[i], d[i])
		}
	}
	return min, max, true
}
