// Package winding implements convex planar polygons stored as an ordered
// loop of points, and the plane classification, clipping and splitting used
// by brushes and selection tests.
package winding

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
)

const (
	MaxWorldCoord = 128 * 1024
	MinWorldCoord = -128 * 1024
	MaxWorldSize  = MaxWorldCoord - MinWorldCoord

	// OnEpsilon is the default tolerance for plane side tests.
	OnEpsilon = 0.1

	// edgeLength is the minimum length of an edge counted by IsTiny.
	edgeLength = 0.2
)

// Side classifies a point or winding against a plane.
type Side int

const (
	Front Side = iota
	Back
	On
	Cross
)

func (s Side) String() string {
	switch s {
	case Front:
		return "front"
	case Back:
		return "back"
	case On:
		return "on"
	case Cross:
		return "cross"
	}
	return "unknown"
}

// Winding is a convex polygon. The last point connects back to the first.
// A winding with fewer than three points is empty.
type Winding []mgl64.Vec3

// FromPlane returns a quad lying on p large enough to cover the world.
func FromPlane(p geom.Plane) Winding {
	var w Winding
	w.SetFromPlane(p)
	return w
}

// SetFromPlane replaces the points with a world-sized quad lying on p. The
// quad is counter-clockwise when seen from the front of the plane.
func (w *Winding) SetFromPlane(p geom.Plane) {
	// The world axis least parallel to the normal is the reference.
	ref := mgl64.Vec3{1, 0, 0}
	least := math.Abs(p.Normal[0])
	for i := 1; i < 3; i++ {
		if a := math.Abs(p.Normal[i]); a < least {
			least = a
			ref = mgl64.Vec3{}
			ref[i] = 1
		}
	}

	right := ref.Cross(p.Normal).Normalize().Mul(MaxWorldSize)
	up := p.Normal.Cross(right.Normalize()).Mul(MaxWorldSize)
	org := p.Normal.Mul(p.Dist)

	*w = Winding{
		org.Sub(right).Sub(up),
		org.Add(right).Sub(up),
		org.Add(right).Add(up),
		org.Sub(right).Add(up),
	}
}

// IsEmpty reports whether the winding has collapsed below three points.
func (w Winding) IsEmpty() bool {
	return len(w) < 3
}

// Clone returns an independent copy.
func (w Winding) Clone() Winding {
	if w == nil {
		return nil
	}
	return append(Winding(nil), w...)
}

// Reverse returns the points in opposite order, flipping the facing.
func (w Winding) Reverse() Winding {
	out := make(Winding, len(w))
	for i, p := range w {
		out[len(w)-1-i] = p
	}
	return out
}

// classify computes the signed distances and sides of every point.
func (w Winding) classify(p geom.Plane, epsilon float64) ([]float64, []Side, [3]int) {
	dists := make([]float64, len(w))
	sides := make([]Side, len(w))
	var counts [3]int
	for i, pt := range w {
		d := p.DistanceTo(pt)
		dists[i] = d
		switch {
		case d > epsilon:
			sides[i] = Front
		case d < -epsilon:
			sides[i] = Back
		default:
			sides[i] = On
		}
		counts[sides[i]]++
	}
	return dists, sides, counts
}

// PlaneSide classifies the whole winding. Points within epsilon of the
// plane are compatible with either side.
func (w Winding) PlaneSide(p geom.Plane, epsilon float64) Side {
	_, _, counts := w.classify(p, epsilon)
	switch {
	case counts[Front] == 0 && counts[Back] == 0:
		return On
	case counts[Back] == 0:
		return Front
	case counts[Front] == 0:
		return Back
	}
	return Cross
}

// crossing interpolates the point where the edge a-b meets the plane.
// Axial planes get the exact coordinate to avoid drift.
func crossing(p geom.Plane, a, b mgl64.Vec3, da, db float64) mgl64.Vec3 {
	t := da / (da - db)
	mid := a.Add(b.Sub(a).Mul(t))
	for j := 0; j < 3; j++ {
		switch p.Normal[j] {
		case 1:
			mid[j] = p.Dist
		case -1:
			mid[j] = -p.Dist
		}
	}
	return mid
}

// Clip keeps the part of the winding on the front of p, in place. Points
// within epsilon of the plane are kept. If fewer than three points remain
// the winding becomes empty.
func (w *Winding) Clip(p geom.Plane, epsilon float64) {
	dists, sides, counts := w.classify(p, epsilon)
	if counts[Back] == 0 {
		return
	}
	if counts[Front] == 0 && counts[On] < 3 {
		*w = nil
		return
	}

	src := *w
	n := len(src)
	out := make(Winding, 0, n+4)
	for i := 0; i < n; i++ {
		p1 := src[i]
		if sides[i] == On {
			out = append(out, p1)
			continue
		}
		if sides[i] == Front {
			out = append(out, p1)
		}
		next := (i + 1) % n
		if sides[next] == On || sides[next] == sides[i] {
			continue
		}
		out = append(out, crossing(p, p1, src[next], dists[i], dists[next]))
	}

	if out.IsEmpty() {
		*w = nil
		return
	}
	*w = out
}

// Split divides the winding by p into a front and a back part, leaving the
// receiver unaltered. Either part may be empty. The returned side tells
// whether a real split happened (Cross) or the winding lies entirely on one
// side. A coplanar winding goes to the side its own normal faces.
func (w Winding) Split(p geom.Plane, epsilon float64) (front, back Winding, side Side) {
	dists, sides, counts := w.classify(p, epsilon)

	switch {
	case counts[Front] == 0 && counts[Back] == 0:
		if w.Plane().Normal.Dot(p.Normal) > 0 {
			return w.Clone(), nil, On
		}
		return nil, w.Clone(), On
	case counts[Front] == 0:
		return nil, w.Clone(), Back
	case counts[Back] == 0:
		return w.Clone(), nil, Front
	}

	n := len(w)
	front = make(Winding, 0, n+4)
	back = make(Winding, 0, n+4)
	for i := 0; i < n; i++ {
		p1 := w[i]
		switch sides[i] {
		case On:
			front = append(front, p1)
			back = append(back, p1)
			continue
		case Front:
			front = append(front, p1)
		case Back:
			back = append(back, p1)
		}

		next := (i + 1) % n
		if sides[next] == On || sides[next] == sides[i] {
			continue
		}
		mid := crossing(p, p1, w[next], dists[i], dists[next])
		front = append(front, mid)
		back = append(back, mid)
	}

	if front.IsEmpty() {
		front = nil
	}
	if back.IsEmpty() {
		back = nil
	}
	return front, back, Cross
}

// IsTiny reports whether fewer than three edges are longer than the
// minimum edge length. Repeated clipping leaves such slivers.
func (w Winding) IsTiny() bool {
	edges := 0
	for i := range w {
		delta := w[(i+1)%len(w)].Sub(w[i])
		if delta.Len() > edgeLength {
			edges++
			if edges == 3 {
				return false
			}
		}
	}
	return true
}

// IsHuge reports whether any coordinate reaches the world bounds, as in a
// winding freshly made from a plane.
func (w Winding) IsHuge() bool {
	for _, p := range w {
		for j := 0; j < 3; j++ {
			if p[j] <= MinWorldCoord || p[j] >= MaxWorldCoord {
				return true
			}
		}
	}
	return false
}

// Area returns the polygon area.
func (w Winding) Area() float64 {
	var total float64
	for i := 2; i < len(w); i++ {
		d1 := w[i-1].Sub(w[0])
		d2 := w[i].Sub(w[0])
		total += d1.Cross(d2).Len()
	}
	return total * 0.5
}

// Center returns the average of the points.
func (w Winding) Center() mgl64.Vec3 {
	var c mgl64.Vec3
	if len(w) == 0 {
		return c
	}
	for _, p := range w {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(w)))
}

// Plane returns the plane of the winding from its area-weighted normal.
// Empty windings return the zero plane.
func (w Winding) Plane() geom.Plane {
	if w.IsEmpty() {
		return geom.Plane{}
	}
	var n mgl64.Vec3
	for i := 2; i < len(w); i++ {
		n = n.Add(w[i-1].Sub(w[0]).Cross(w[i].Sub(w[0])))
	}
	l := n.Len()
	if l == 0 {
		return geom.Plane{}
	}
	n = n.Mul(1 / l)
	return geom.Plane{Normal: n, Dist: n.Dot(w[0])}
}

// Bounds returns the box around the points.
func (w Winding) Bounds() geom.AABB {
	return geom.AABBFromPoints(w...)
}
