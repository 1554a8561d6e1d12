package selection

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/scene"
)

// Pivot returns the point rotations and scales of the selection happen
// about.
func (s *System) Pivot() mgl64.Vec3 {
	return s.pivot
}

// PivotChanged recomputes the pivot from the selection: the centre of the
// selected components in component mode, of the selected nodes otherwise.
// An empty selection keeps the last pivot.
func (s *System) PivotChanged() {
	box := geom.EmptyAABB()
	if s.mode == ModeComponent {
		box = s.ComponentBounds()
	}
	if !box.IsValid() {
		box = s.SelectionBounds()
	}
	if box.IsValid() {
		s.pivot = box.Origin
	}
}

// geometryChanged follows a change to the selected geometry: the work zone
// grows to where the selection went and the pivot is recomputed.
func (s *System) geometryChanged() {
	s.pool.grow(s.SelectionBounds())
	s.PivotChanged()
}

// SelectionBounds returns the box around the selected nodes.
func (s *System) SelectionBounds() geom.AABB {
	box := geom.EmptyAABB()
	for _, n := range s.Selected() {
		box.IncludeAABB(n.WorldAABB())
	}
	return box
}

// ComponentBounds returns the box around the selected components.
func (s *System) ComponentBounds() geom.AABB {
	box := geom.EmptyAABB()
	for _, n := range s.componentNodes() {
		box.IncludeAABB(n.Brush().ComponentBounds())
	}
	return box
}

// transformRoots returns the selected nodes without a selected ancestor.
// Transforming a root moves its whole subtree.
func (s *System) transformRoots() []*scene.Node {
	var out []*scene.Node
	for _, n := range s.Selected() {
		nested := false
		for p := n.Parent(); p != nil; p = p.Parent() {
			if p.IsSelected() {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}

// affected returns every node a transform of the selection changes.
func (s *System) affected() []*scene.Node {
	if s.mode == ModeComponent {
		return s.componentNodes()
	}
	var out []*scene.Node
	for _, root := range s.transformRoots() {
		s.graph.TraverseFrom(root.ID, scene.VisitorFunc(func(n *scene.Node) bool {
			out = append(out, n)
			return true
		}))
	}
	return out
}

func (s *System) applyTransform(t scene.Transform) {
	if s.mode == ModeComponent {
		m := t.Matrix()
		for _, n := range s.componentNodes() {
			n.Brush().TransformComponents(m)
		}
		return
	}
	for _, n := range s.affected() {
		n.ApplyTransform(t)
	}
}

func (s *System) transformSelected(t scene.Transform) {
	if s.drag != nil {
		s.EndMove()
	}
	if len(s.affected()) == 0 {
		return
	}
	t.Pivot = s.pivot
	s.applyTransform(t)
	s.emit(Change{Kind: ChangeTransform})
	s.geometryChanged()
}

// TranslateSelected moves the selection by d.
func (s *System) TranslateSelected(d mgl64.Vec3) {
	t := scene.IdentityTransform()
	t.Translation = d
	s.transformSelected(t)
}

// RotateSelected rotates the selection about the pivot.
func (s *System) RotateSelected(q mgl64.Quat) {
	t := scene.IdentityTransform()
	t.Rotation = q.Normalize()
	s.transformSelected(t)
}

// ScaleSelected scales the selection about the pivot. Factors of zero are
// refused since they would flatten brushes.
func (s *System) ScaleSelected(f mgl64.Vec3) {
	if f[0] == 0 || f[1] == 0 || f[2] == 0 {
		log.Warnf("refusing to scale by %v", f)
		return
	}
	t := scene.IdentityTransform()
	t.Scale = f
	s.transformSelected(t)
}
