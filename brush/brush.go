// Package brush implements convex brushes: solids bounded by a set of face
// planes, each face carrying the winding that results from clipping its
// plane by all the others.
package brush

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/selectable"
	"github.com/Tubbz-alt/DarkRadiant/winding"
)

const (
	// buildEpsilon is the tolerance used when clipping face windings.
	buildEpsilon = 1e-3
	// weldEpsilon merges winding points into shared vertices.
	weldEpsilon = 1e-3
)

// Face is one bounding plane of a brush. The three points are
// counter-clockwise when seen from outside, so the plane normal points out
// of the solid.
type Face struct {
	Points [3]mgl64.Vec3
	Shader string

	winding winding.Winding
	comp    *Component
}

// NewFace returns a face through a, b and c.
func NewFace(a, b, c mgl64.Vec3, shader string) *Face {
	return &Face{Points: [3]mgl64.Vec3{a, b, c}, Shader: shader}
}

// Plane returns the outward facing plane.
func (f *Face) Plane() geom.Plane {
	return geom.PlaneFromPoints(f.Points[0], f.Points[1], f.Points[2])
}

// Winding returns the polygon of the face as of the last rebuild.
func (f *Face) Winding() winding.Winding {
	return f.winding
}

// Brush is a convex solid. Brush coordinates are world coordinates.
type Brush struct {
	faces    []*Face
	vertices []*Component
	edges    []*Component
	bounds   geom.AABB

	onComponentChange selectable.ChangeFunc
}

// New builds a brush from faces.
func New(faces ...*Face) *Brush {
	b := &Brush{faces: faces}
	b.Rebuild()
	return b
}

// Cuboid returns an axis-aligned box brush spanning min to max.
func Cuboid(min, max mgl64.Vec3, shader string) *Brush {
	v := func(x, y, z float64) mgl64.Vec3 { return mgl64.Vec3{x, y, z} }
	x0, y0, z0 := min[0], min[1], min[2]
	x1, y1, z1 := max[0], max[1], max[2]
	return New(
		NewFace(v(x1, y0, z0), v(x1, y1, z0), v(x1, y0, z1), shader),
		NewFace(v(x0, y0, z0), v(x0, y0, z1), v(x0, y1, z0), shader),
		NewFace(v(x0, y1, z0), v(x0, y1, z1), v(x1, y1, z0), shader),
		NewFace(v(x0, y0, z0), v(x1, y0, z0), v(x0, y0, z1), shader),
		NewFace(v(x0, y0, z1), v(x1, y0, z1), v(x0, y1, z1), shader),
		NewFace(v(x0, y0, z0), v(x0, y1, z0), v(x1, y0, z0), shader),
	)
}

// Faces returns the faces in definition order.
func (b *Brush) Faces() []*Face {
	return b.faces
}

// Bounds returns the box around all face windings.
func (b *Brush) Bounds() geom.AABB {
	return b.bounds
}

// IsValid reports whether the brush encloses a volume, which needs at
// least four non-empty faces.
func (b *Brush) IsValid() bool {
	n := 0
	for _, f := range b.faces {
		if !f.winding.IsEmpty() {
			n++
		}
	}
	return n >= 4
}

// Clone returns a deep copy with nothing selected and no change callback.
func (b *Brush) Clone() *Brush {
	faces := make([]*Face, len(b.faces))
	for i, f := range b.faces {
		faces[i] = NewFace(f.Points[0], f.Points[1], f.Points[2], f.Shader)
	}
	return New(faces...)
}

// Rebuild recomputes the face windings, bounds and components from the
// face planes. The selection state of vertices and edges whose position is
// unchanged survives.
func (b *Brush) Rebuild() {
	b.rebuild(b.selectedPositions(nil))
}

func (b *Brush) rebuild(keep positions) {
	b.bounds = geom.EmptyAABB()
	for i, f := range b.faces {
		var w winding.Winding
		if plane := f.Plane(); plane.IsValid() {
			w = winding.FromPlane(plane)
		}
		for j, other := range b.faces {
			if i == j || w.IsEmpty() {
				continue
			}
			w.Clip(other.Plane().Flipped(), buildEpsilon)
		}
		f.winding = w
		if f.comp == nil {
			f.comp = &Component{Kind: FaceComponent, Face: i, sel: selectable.NewObserved(b.onComponentChange)}
		}
		f.comp.Face = i
		f.comp.Points = w
		for _, p := range w {
			b.bounds.Include(p)
		}
	}
	b.buildComponents(keep)
}

// Transform applies m to every face. Mirroring transforms keep the faces
// pointing outwards.
func (b *Brush) Transform(m mgl64.Mat4) {
	keep := b.selectedPositions(func(p mgl64.Vec3) mgl64.Vec3 {
		return mgl64.TransformCoordinate(p, m)
	})
	mirror := m.Det() < 0
	for _, f := range b.faces {
		for i, p := range f.Points {
			f.Points[i] = mgl64.TransformCoordinate(p, m)
		}
		if mirror {
			f.Points[1], f.Points[2] = f.Points[2], f.Points[1]
		}
	}
	b.rebuild(keep)
}

// Snap rounds every face point to the grid.
func (b *Brush) Snap(grid float64) {
	if grid <= 0 {
		return
	}
	snap := func(p mgl64.Vec3) mgl64.Vec3 { return snapVec(p, grid) }
	keep := b.selectedPositions(snap)
	for _, f := range b.faces {
		for i, p := range f.Points {
			f.Points[i] = snap(p)
		}
	}
	b.rebuild(keep)
}

func snapVec(p mgl64.Vec3, grid float64) mgl64.Vec3 {
	for i := range p {
		p[i] = math.Round(p[i]/grid) * grid
	}
	return p
}

// Split cuts the brush by p. front is the part on the positive side of the
// plane, back the rest; either is nil if nothing of the brush lies there.
// The brush itself is left untouched.
func (b *Brush) Split(p geom.Plane, epsilon float64) (front, back *Brush) {
	sawFront, sawBack := false, false
	for _, f := range b.faces {
		switch f.winding.PlaneSide(p, epsilon) {
		case winding.Front:
			sawFront = true
		case winding.Back:
			sawBack = true
		case winding.Cross:
			sawFront, sawBack = true, true
		}
	}
	switch {
	case sawFront && !sawBack:
		return b.Clone(), nil
	case sawBack && !sawFront:
		return nil, b.Clone()
	case !sawFront && !sawBack:
		return nil, nil
	}

	// The cut polygon: the plane clipped to the brush interior.
	cut := winding.FromPlane(p)
	for _, f := range b.faces {
		cut.Clip(f.Plane().Flipped(), buildEpsilon)
	}
	if cut.IsEmpty() {
		return b.Clone(), nil
	}
	shader := b.faces[0].Shader

	front = b.Clone()
	front.faces = append(front.faces, NewFace(cut[2], cut[1], cut[0], shader))
	front.prune()

	back = b.Clone()
	back.faces = append(back.faces, NewFace(cut[0], cut[1], cut[2], shader))
	back.prune()

	if !front.IsValid() {
		front = nil
	}
	if !back.IsValid() {
		back = nil
	}
	return front, back
}

// prune rebuilds and drops faces that no longer contribute a polygon.
func (b *Brush) prune() {
	b.Rebuild()
	kept := b.faces[:0]
	for _, f := range b.faces {
		if !f.winding.IsEmpty() {
			kept = append(kept, f)
		}
	}
	b.faces = kept
	b.Rebuild()
}

// Snapshot records the face planes and component selection.
type Snapshot struct {
	points   [][3]mgl64.Vec3
	selected positions
	faces    []bool
}

func (b *Brush) Snapshot() Snapshot {
	s := Snapshot{
		points:   make([][3]mgl64.Vec3, len(b.faces)),
		selected: b.selectedPositions(nil),
		faces:    make([]bool, len(b.faces)),
	}
	for i, f := range b.faces {
		s.points[i] = f.Points
		s.faces[i] = f.comp.sel.IsSelected()
	}
	return s
}

// Restore puts the brush back into the snapshot state. Snapshots only fit
// the brush they were taken from.
func (b *Brush) Restore(s Snapshot) {
	if len(s.points) != len(b.faces) {
		return
	}
	for i, f := range b.faces {
		f.Points = s.points[i]
		f.comp.sel.SetSelected(s.faces[i])
	}
	b.rebuild(s.selected)
}
