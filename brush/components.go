package brush

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/selectable"
)

// ComponentKind is the granularity of a brush component.
type ComponentKind int

const (
	VertexComponent ComponentKind = iota
	EdgeComponent
	FaceComponent
)

func (k ComponentKind) String() string {
	switch k {
	case VertexComponent:
		return "vertex"
	case EdgeComponent:
		return "edge"
	case FaceComponent:
		return "face"
	}
	return "unknown"
}

// Component is a selectable part of a brush: a vertex (one point), an edge
// (two points) or a face (its winding).
type Component struct {
	Kind   ComponentKind
	Points []mgl64.Vec3
	// Face is the face index for face components.
	Face int

	sel *selectable.Observed
}

func (c *Component) IsSelected() bool       { return c.sel.IsSelected() }
func (c *Component) SetSelected(value bool) { c.sel.SetSelected(value) }
func (c *Component) InvertSelected()        { c.sel.InvertSelected() }

var _ selectable.Selectable = (*Component)(nil)

// positions remembers selected vertices and edges by location so the
// selection can be carried across a rebuild.
type positions struct {
	vertices []mgl64.Vec3
	edges    [][2]mgl64.Vec3
}

func (p positions) hasVertex(v mgl64.Vec3) bool {
	for _, q := range p.vertices {
		if q.ApproxEqualThreshold(v, weldEpsilon) {
			return true
		}
	}
	return false
}

func (p positions) hasEdge(a, b mgl64.Vec3) bool {
	for _, e := range p.edges {
		if sameEdge(e[0], e[1], a, b) {
			return true
		}
	}
	return false
}

func sameEdge(a0, a1, b0, b1 mgl64.Vec3) bool {
	return (a0.ApproxEqualThreshold(b0, weldEpsilon) && a1.ApproxEqualThreshold(b1, weldEpsilon)) ||
		(a0.ApproxEqualThreshold(b1, weldEpsilon) && a1.ApproxEqualThreshold(b0, weldEpsilon))
}

func (b *Brush) selectedPositions(fn func(mgl64.Vec3) mgl64.Vec3) positions {
	if fn == nil {
		fn = func(p mgl64.Vec3) mgl64.Vec3 { return p }
	}
	var out positions
	for _, v := range b.vertices {
		if v.IsSelected() {
			out.vertices = append(out.vertices, fn(v.Points[0]))
		}
	}
	for _, e := range b.edges {
		if e.IsSelected() {
			out.edges = append(out.edges, [2]mgl64.Vec3{fn(e.Points[0]), fn(e.Points[1])})
		}
	}
	return out
}

// buildComponents derives vertices and edges from the face windings. New
// components take their selection from keep without reporting it.
func (b *Brush) buildComponents(keep positions) {
	b.vertices = nil
	b.edges = nil

	newComponent := func(kind ComponentKind, selected bool, points ...mgl64.Vec3) *Component {
		c := &Component{Kind: kind, Face: -1, Points: points, sel: selectable.NewObserved(nil)}
		c.sel.SetSelected(selected)
		c.sel.SetChangeFunc(b.onComponentChange)
		return c
	}

	for _, f := range b.faces {
		w := f.winding
		for i, p := range w {
			if !b.hasVertex(p) {
				b.vertices = append(b.vertices, newComponent(VertexComponent, keep.hasVertex(p), p))
			}
			q := w[(i+1)%len(w)]
			if !b.hasEdge(p, q) {
				b.edges = append(b.edges, newComponent(EdgeComponent, keep.hasEdge(p, q), p, q))
			}
		}
	}
}

func (b *Brush) hasVertex(p mgl64.Vec3) bool {
	for _, v := range b.vertices {
		if v.Points[0].ApproxEqualThreshold(p, weldEpsilon) {
			return true
		}
	}
	return false
}

func (b *Brush) hasEdge(p, q mgl64.Vec3) bool {
	for _, e := range b.edges {
		if sameEdge(e.Points[0], e.Points[1], p, q) {
			return true
		}
	}
	return false
}

// SetComponentChangeFunc installs the callback every component reports its
// transitions to.
func (b *Brush) SetComponentChangeFunc(fn selectable.ChangeFunc) {
	b.onComponentChange = fn
	for _, f := range b.faces {
		if f.comp != nil {
			f.comp.sel.SetChangeFunc(fn)
		}
	}
	for _, c := range b.vertices {
		c.sel.SetChangeFunc(fn)
	}
	for _, c := range b.edges {
		c.sel.SetChangeFunc(fn)
	}
}

// Components returns the components of the given kind. Faces without a
// polygon are left out.
func (b *Brush) Components(kind ComponentKind) []*Component {
	switch kind {
	case VertexComponent:
		return append([]*Component(nil), b.vertices...)
	case EdgeComponent:
		return append([]*Component(nil), b.edges...)
	case FaceComponent:
		var out []*Component
		for _, f := range b.faces {
			if !f.winding.IsEmpty() {
				out = append(out, f.comp)
			}
		}
		return out
	}
	return nil
}

// SelectedComponents returns every selected component, vertices first.
func (b *Brush) SelectedComponents() []*Component {
	var out []*Component
	for _, kind := range []ComponentKind{VertexComponent, EdgeComponent, FaceComponent} {
		for _, c := range b.Components(kind) {
			if c.IsSelected() {
				out = append(out, c)
			}
		}
	}
	return out
}

// HasSelectedComponents reports whether any component is selected.
func (b *Brush) HasSelectedComponents() bool {
	return len(b.SelectedComponents()) > 0
}

// SetSelectedComponents selects or deselects every component of kind.
func (b *Brush) SetSelectedComponents(kind ComponentKind, selected bool) {
	for _, c := range b.Components(kind) {
		c.SetSelected(selected)
	}
}

// DeselectComponents deselects components of every kind.
func (b *Brush) DeselectComponents() {
	for _, c := range b.SelectedComponents() {
		c.SetSelected(false)
	}
}

// ComponentBounds returns the box around the selected components.
func (b *Brush) ComponentBounds() geom.AABB {
	box := geom.EmptyAABB()
	for _, c := range b.SelectedComponents() {
		for _, p := range c.Points {
			box.Include(p)
		}
	}
	return box
}

// TransformComponents applies m to the selected components. Selected faces
// move their plane; faces touching selected vertices or edges are tilted to
// follow the moved points.
func (b *Brush) TransformComponents(m mgl64.Mat4) {
	b.moveComponents(func(p mgl64.Vec3) mgl64.Vec3 {
		return mgl64.TransformCoordinate(p, m)
	}, m.Det() < 0)
}

// SnapComponents rounds the selected components to the grid.
func (b *Brush) SnapComponents(grid float64) {
	if grid <= 0 {
		return
	}
	b.moveComponents(func(p mgl64.Vec3) mgl64.Vec3 {
		return snapVec(p, grid)
	}, false)
}

func (b *Brush) moveComponents(fn func(mgl64.Vec3) mgl64.Vec3, mirror bool) {
	var moved []mgl64.Vec3
	for _, v := range b.vertices {
		if v.IsSelected() {
			moved = append(moved, v.Points[0])
		}
	}
	for _, e := range b.edges {
		if e.IsSelected() {
			moved = append(moved, e.Points...)
		}
	}
	isMoved := func(p mgl64.Vec3) bool {
		for _, q := range moved {
			if q.ApproxEqualThreshold(p, weldEpsilon) {
				return true
			}
		}
		return false
	}

	keep := b.selectedPositions(fn)
	for _, f := range b.faces {
		w := f.winding
		if w.IsEmpty() {
			continue
		}

		all, some := true, false
		for _, p := range w {
			if isMoved(p) {
				some = true
			} else {
				all = false
			}
		}

		if f.comp.IsSelected() || all {
			for i, p := range f.Points {
				f.Points[i] = fn(p)
			}
			if mirror {
				f.Points[1], f.Points[2] = f.Points[2], f.Points[1]
			}
			continue
		}
		if !some {
			continue
		}

		pts := make([]mgl64.Vec3, len(w))
		flags := make([]bool, len(w))
		for i, p := range w {
			if isMoved(p) {
				pts[i] = fn(p)
				flags[i] = true
			} else {
				pts[i] = p
			}
		}
		replane(f, pts, flags)
	}
	b.rebuild(keep)
}

// replane fits the face through the largest triangle of pts that contains
// at least one moved point, keeping the original facing.
func replane(f *Face, pts []mgl64.Vec3, moved []bool) {
	old := f.Plane().Normal
	best := 0.0
	var tri [3]mgl64.Vec3
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if !moved[i] && !moved[j] && !moved[k] {
					continue
				}
				area := pts[j].Sub(pts[i]).Cross(pts[k].Sub(pts[i])).Len()
				if area > best {
					best = area
					tri = [3]mgl64.Vec3{pts[i], pts[j], pts[k]}
				}
			}
		}
	}
	if best < buildEpsilon {
		return
	}
	if geom.PlaneFromPoints(tri[0], tri[1], tri[2]).Normal.Dot(old) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	f.Points = tri
}
