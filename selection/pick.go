package selection

import (
	"math"
	"sort"

	"gioui.org/f32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/brush"
	"github.com/Tubbz-alt/DarkRadiant/scene"
	"github.com/Tubbz-alt/DarkRadiant/selectable"
)

// candidate is one pickable object hit by a test.
type candidate struct {
	node  *scene.Node
	comp  *brush.Component
	depth float64
	order int
}

func (c candidate) selectable() selectable.Selectable {
	if c.comp != nil {
		return c.comp
	}
	return c.node.Selectable()
}

// pickTarget is something a pick can select together with the geometry it
// is tested with.
type pickTarget struct {
	node *scene.Node
	comp *brush.Component
}

// targets returns everything the current mode lets a pick select, in
// traversal order. The face flag picks faces of every visible brush.
func (s *System) targets(face bool) []pickTarget {
	var out []pickTarget
	switch {
	case face:
		s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
			if n.Hidden() {
				return false
			}
			if b := n.Brush(); b != nil {
				for _, c := range b.Components(brush.FaceComponent) {
					out = append(out, pickTarget{node: n, comp: c})
				}
			}
			return true
		}))
	case s.mode == ModeComponent:
		kind := s.componentMode.kind()
		// Selected parents, in traversal order.
		s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
			if n.Hidden() {
				return false
			}
			if b := n.Brush(); b != nil && n.IsSelected() {
				for _, c := range b.Components(kind) {
					out = append(out, pickTarget{node: n, comp: c})
				}
			}
			return true
		}))
	default:
		for _, n := range s.nodeTargets() {
			out = append(out, pickTarget{node: n})
		}
	}
	return out
}

// testNode intersects the geometry of a node with t.
func testNode(t *Test, n *scene.Node) (float64, bool) {
	if b := n.Brush(); b != nil {
		best, hit := math.Inf(1), false
		for _, f := range b.Faces() {
			if d, ok := t.Polygon(f.Winding()); ok {
				best = math.Min(best, d)
				hit = true
			}
		}
		return best, hit
	}
	if children := n.Children(); n.IsEntity() && len(children) > 0 {
		best, hit := math.Inf(1), false
		for _, c := range children {
			if c.Hidden() {
				continue
			}
			if d, ok := testNode(t, c); ok {
				best = math.Min(best, d)
				hit = true
			}
		}
		return best, hit
	}
	return t.AABB(n.WorldAABB())
}

func testComponent(t *Test, c *brush.Component) (float64, bool) {
	switch c.Kind {
	case brush.VertexComponent:
		return t.Point(c.Points[0])
	case brush.EdgeComponent:
		return t.Segment(c.Points[0], c.Points[1])
	}
	return t.Polygon(c.Points)
}

// nodePoints returns the world points that stand for a node in bounds
// policies.
func nodePoints(n *scene.Node) []mgl64.Vec3 {
	if b := n.Brush(); b != nil {
		var pts []mgl64.Vec3
		for _, f := range b.Faces() {
			pts = append(pts, f.Winding()...)
		}
		return pts
	}
	box := n.WorldAABB()
	if !box.IsValid() {
		return nil
	}
	c := box.Corners()
	return c[:]
}

// candidates runs t against every target and returns the hits nearest
// first, ties in traversal order.
func (s *System) candidates(t *Test, face bool, policy AreaPolicy) []candidate {
	var out []candidate
	for i, target := range s.targets(face) {
		var (
			depth float64
			ok    bool
		)
		switch {
		case policy == PolicyIntersect && target.comp != nil:
			depth, ok = testComponent(t, target.comp)
		case policy == PolicyIntersect:
			depth, ok = testNode(t, target.node)
		default:
			pts := nodePoints(target.node)
			if target.comp != nil {
				pts = target.comp.Points
			}
			if ok = policy.accepts(t, pts); ok {
				depth, _ = t.depthOf(pts)
			}
		}
		if ok {
			out = append(out, candidate{node: target.node, comp: target.comp, depth: depth, order: i})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].depth != out[j].depth {
			return out[i].depth < out[j].depth
		}
		return out[i].order < out[j].order
	})
	return out
}

// SelectPoint picks at a device point. It reports whether anything was hit,
// a manipulator handle included.
func (s *System) SelectPoint(v View, p f32.Point, mod Modifier, face bool) bool {
	if mod == ModifierManipulator {
		if s.SelectManipulator(v, p) {
			return true
		}
		mod = ModifierReplace
	}

	t := NewPointTest(v, p, s.settings.DeviceEpsilon())
	cands := s.candidates(t, face, PolicyIntersect)
	s.lastPick, s.hasLastPick = p, true
	if len(cands) == 0 {
		log.Debugf("nothing to pick at %v", p)
		return false
	}
	log.Debugf("%d candidates at %v", len(cands), p)

	s.beginBatch()
	defer s.endBatch()

	switch mod {
	case ModifierToggle:
		cands[0].selectable().InvertSelected()
	case ModifierCycle:
		for i, c := range cands {
			if c.selectable().IsSelected() {
				next := cands[(i+1)%len(cands)]
				if next.selectable() == c.selectable() {
					return true
				}
				c.selectable().SetSelected(false)
				next.selectable().SetSelected(true)
				return true
			}
		}
		s.replaceWith(cands[:1])
	default:
		s.replaceWith(cands[:1])
	}
	return true
}

// SelectArea picks everything in the device rectangle spanned by a and b.
// It returns the number of objects matched.
func (s *System) SelectArea(v View, a, b f32.Point, policy AreaPolicy, mod Modifier, face bool) int {
	t := NewAreaTest(v, a, b)
	cands := s.candidates(t, face, policy)
	if len(cands) == 0 {
		log.Debugf("nothing %s the area", policy)
		return 0
	}

	s.beginBatch()
	defer s.endBatch()

	if mod == ModifierToggle {
		for _, c := range cands {
			c.selectable().InvertSelected()
		}
	} else {
		s.replaceWith(cands)
	}
	log.Infof("area pick (%s) matched %d", policy, len(cands))
	return len(cands)
}

// replaceWith deselects everything of the same granularity as cands and
// selects cands.
func (s *System) replaceWith(cands []candidate) {
	keep := make(map[selectable.Selectable]bool, len(cands))
	for _, c := range cands {
		keep[c.selectable()] = true
	}

	if cands[0].comp != nil {
		for _, n := range s.componentNodes() {
			for _, c := range n.Brush().SelectedComponents() {
				if !keep[c] {
					c.SetSelected(false)
				}
			}
		}
	} else {
		for _, n := range s.Selected() {
			if sel := n.Selectable(); sel != nil && !keep[sel] {
				sel.SetSelected(false)
			}
		}
	}
	for _, c := range cands {
		c.selectable().SetSelected(true)
	}
}

// CycleModifier returns ModifierCycle for a click at the location of the
// previous pick and ModifierReplace otherwise.
func (s *System) CycleModifier(p f32.Point) Modifier {
	if !s.hasLastPick {
		return ModifierReplace
	}
	tol := s.settings.CycleTolerance()
	d := p.Sub(s.lastPick)
	if math.Abs(float64(d.X)) <= tol && math.Abs(float64(d.Y)) <= tol {
		return ModifierCycle
	}
	return ModifierReplace
}
