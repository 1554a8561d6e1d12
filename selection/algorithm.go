package selection

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/brush"
	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/scene"
)

// InvertSelection flips the selection of every visible object the current
// mode selects. In component mode the components of the selected brushes
// are flipped instead.
func (s *System) InvertSelection() {
	s.beginBatch()
	defer s.endBatch()

	if s.mode == ModeComponent {
		kind := s.componentMode.kind()
		for _, n := range s.Selected() {
			if b := n.Brush(); b != nil && n.Visible() {
				for _, c := range b.Components(kind) {
					c.InvertSelected()
				}
			}
		}
		return
	}
	for _, n := range s.nodeTargets() {
		n.Selectable().InvertSelected()
	}
}

// HideSelected hides and deselects the selected nodes.
func (s *System) HideSelected() {
	selected := s.Selected()
	if len(selected) == 0 {
		return
	}
	s.beginBatch()
	defer s.endBatch()

	for _, n := range selected {
		n.SetHidden(true)
		n.Selectable().SetSelected(false)
	}
	s.emit(Change{Kind: ChangeVisibility})
	log.Infof("hid %d nodes", len(selected))
}

// HideDeselected hides every node that is neither selected nor holds a
// selected node.
func (s *System) HideDeselected() {
	hidden := 0
	s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
		if n.Kind == scene.KindRoot || n.IsWorldspawn() {
			return true
		}
		if n.Hidden() || n.IsSelected() {
			return false
		}
		if s.holdsSelection(n) {
			return true
		}
		n.SetHidden(true)
		hidden++
		return false
	}))
	if hidden > 0 {
		s.emit(Change{Kind: ChangeVisibility})
		log.Infof("hid %d nodes", hidden)
	}
}

func (s *System) holdsSelection(n *scene.Node) bool {
	for _, c := range n.Children() {
		if c.IsSelected() || s.holdsSelection(c) {
			return true
		}
	}
	return false
}

// ShowAllHidden clears every hidden flag.
func (s *System) ShowAllHidden() {
	shown := 0
	s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
		if n.Hidden() {
			n.SetHidden(false)
			shown++
		}
		return true
	}))
	if shown > 0 {
		s.emit(Change{Kind: ChangeVisibility})
		log.Infof("showed %d nodes", shown)
	}
}

// DeleteSelection removes the selected nodes with their subtrees. Entities
// other than worldspawn that are left without children are removed too.
// It returns the number of selected nodes removed.
func (s *System) DeleteSelection() int {
	if s.drag != nil {
		s.CancelMove()
	}
	roots := s.transformRoots()
	if len(roots) == 0 {
		return 0
	}
	s.beginBatch()
	defer s.endBatch()

	removed := 0
	for _, n := range roots {
		parent := n.Parent()
		if err := s.graph.Remove(n.ID); err != nil {
			log.Warnf("deleting %d: %v", n.ID, err)
			continue
		}
		removed++
		if parent != nil && parent.IsEntity() && !parent.IsWorldspawn() && len(parent.Children()) == 0 {
			if err := s.graph.Remove(parent.ID); err != nil {
				log.Warnf("deleting empty entity %d: %v", parent.ID, err)
			}
		}
	}
	log.Infof("deleted %d nodes", removed)
	return removed
}

// SelectInside selects the objects lying completely inside the selected
// brushes, which are deleted.
func (s *System) SelectInside() int {
	return s.selectByBounds(PolicyInside, true)
}

// SelectTouching selects the objects overlapping the selected brushes,
// which stay selected.
func (s *System) SelectTouching() int {
	return s.selectByBounds(PolicyTouching, false)
}

// SelectCompleteTall selects the objects inside the selected brushes when
// seen from above, ignoring height. The brushes are deleted.
func (s *System) SelectCompleteTall() int {
	return s.selectByBounds(PolicyCompleteTall, true)
}

func (s *System) selectByBounds(policy AreaPolicy, deleteSources bool) int {
	if s.mode != ModePrimitive {
		log.Warnf("select %s needs %s mode", policy, ModePrimitive)
		return 0
	}
	var sources []*scene.Node
	for _, n := range s.Selected() {
		if n.Brush() != nil {
			sources = append(sources, n)
		}
	}
	if len(sources) == 0 {
		return 0
	}
	isSource := make(map[scene.NodeID]bool, len(sources))
	for _, n := range sources {
		isSource[n.ID] = true
	}

	var matches []*scene.Node
	for _, n := range s.nodeTargets() {
		if isSource[n.ID] {
			continue
		}
		box := n.WorldAABB()
		for _, src := range sources {
			b := src.WorldAABB()
			var ok bool
			switch policy {
			case PolicyInside:
				ok = b.Contains(box)
			case PolicyCompleteTall:
				ok = b.ContainsAxes(box, 2)
			default:
				ok = b.Overlaps(box)
			}
			if ok {
				matches = append(matches, n)
				break
			}
		}
	}

	s.beginBatch()
	defer s.endBatch()

	if deleteSources {
		for _, n := range sources {
			if err := s.graph.Remove(n.ID); err != nil {
				log.Warnf("deleting %d: %v", n.ID, err)
			}
		}
	}
	for _, n := range matches {
		n.Selectable().SetSelected(true)
	}
	log.Infof("select %s matched %d", policy, len(matches))
	return len(matches)
}

// SelectionCenter returns the centre of the selection snapped to the grid.
func (s *System) SelectionCenter() (mgl64.Vec3, bool) {
	box := s.SelectionBounds()
	if !box.IsValid() {
		return mgl64.Vec3{}, false
	}
	c := box.Origin
	if grid := s.settings.GridSize(); grid > 0 {
		for i := range c {
			c[i] = math.Round(c[i]/grid) * grid
		}
	}
	return c, true
}

// SnapSelectionToGrid snaps the selected components in component mode and
// the selected nodes otherwise. A grid of zero uses the configured one.
func (s *System) SnapSelectionToGrid(grid float64) {
	if grid <= 0 {
		grid = s.settings.GridSize()
	}
	if grid <= 0 || !s.hasSelection() {
		return
	}
	if s.mode == ModeComponent {
		for _, n := range s.componentNodes() {
			n.Brush().SnapComponents(grid)
		}
	} else {
		for _, n := range s.affected() {
			if b := n.Brush(); b != nil {
				b.Snap(grid)
				continue
			}
			for i := range n.Origin {
				n.Origin[i] = math.Round(n.Origin[i]/grid) * grid
			}
		}
	}
	s.emit(Change{Kind: ChangeTransform})
	s.geometryChanged()
}

// FloorSelection drops the selection onto the highest surface below it
// that lies under the centre of the most recent selection. It reports
// whether the selection moved.
func (s *System) FloorSelection() bool {
	ultimate := s.Ultimate()
	if ultimate == nil {
		return false
	}
	bottom := s.SelectionBounds().Min()[2]
	centre := ultimate.WorldAABB().Origin

	moving := make(map[scene.NodeID]bool)
	for _, n := range s.affected() {
		moving[n.ID] = true
	}

	floor, found := math.Inf(-1), false
	s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
		if n.Hidden() || moving[n.ID] {
			return false
		}
		if n.Kind == scene.KindRoot || n.IsEntity() && len(n.Children()) > 0 {
			return true
		}
		box := n.WorldAABB()
		if !box.IsValid() || !box.ContainsAxes(geom.AABB{Origin: centre}, 2) {
			return false
		}
		if top := box.Max()[2]; top <= bottom && top > floor {
			floor, found = top, true
		}
		return false
	}))
	if !found || floor == bottom {
		return false
	}
	s.TranslateSelected(mgl64.Vec3{0, 0, floor - bottom})
	log.Infof("dropped selection by %g", bottom-floor)
	return true
}

// SelectionIndex returns the position of the most recent selection in the
// map: the number of its entity and of the primitive within that entity.
// The primitive is -1 for entities.
func (s *System) SelectionIndex() (entity, primitive int, ok bool) {
	n := s.Ultimate()
	if n == nil {
		return 0, 0, false
	}
	owner := n
	primitive = -1
	if !n.IsEntity() {
		owner = n.Parent()
		if owner == nil {
			return 0, 0, false
		}
		for i, c := range owner.Children() {
			if c.ID == n.ID {
				primitive = i
				break
			}
		}
	}
	entity = 0
	for _, c := range s.graph.Root().Children() {
		if c.ID == owner.ID {
			return entity, primitive, true
		}
		if c.IsEntity() {
			entity++
		}
	}
	return 0, 0, false
}

// SelectAllOfType extends the selection to everything of the same type as
// what is selected: entities of the same classnames, faces with the same
// shaders, or brushes using the same shaders. It returns the number of
// newly selected objects.
func (s *System) SelectAllOfType() int {
	s.beginBatch()
	defer s.endBatch()

	classnames := make(map[string]bool)
	for _, n := range s.Selected() {
		if n.IsEntity() {
			classnames[n.Classname] = true
		}
	}
	if len(classnames) > 0 {
		count := 0
		s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
			if n.Hidden() {
				return false
			}
			if n.IsEntity() && classnames[n.Classname] && !n.IsSelected() && n.Selectable() != nil {
				n.Selectable().SetSelected(true)
				count++
			}
			return true
		}))
		return count
	}

	faceShaders := make(map[string]bool)
	s.ForeachSelectedComponent(func(n *scene.Node, c *brush.Component) {
		if c.Kind == brush.FaceComponent {
			faceShaders[n.Brush().Faces()[c.Face].Shader] = true
		}
	})
	if len(faceShaders) > 0 {
		count := 0
		s.eachVisibleBrush(func(n *scene.Node) {
			faces := n.Brush().Faces()
			for _, c := range n.Brush().Components(brush.FaceComponent) {
				if faceShaders[faces[c.Face].Shader] && !c.IsSelected() {
					c.SetSelected(true)
					count++
				}
			}
		})
		return count
	}

	shaders := make(map[string]bool)
	for _, n := range s.Selected() {
		if b := n.Brush(); b != nil {
			for _, f := range b.Faces() {
				shaders[f.Shader] = true
			}
		}
	}
	count := 0
	if len(shaders) > 0 {
		s.eachVisibleBrush(func(n *scene.Node) {
			if n.IsSelected() {
				return
			}
			for _, f := range n.Brush().Faces() {
				if shaders[f.Shader] {
					n.Selectable().SetSelected(true)
					count++
					return
				}
			}
		})
	}
	return count
}

func (s *System) eachVisibleBrush(fn func(n *scene.Node)) {
	s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
		if n.Hidden() {
			return false
		}
		if n.Brush() != nil {
			fn(n)
		}
		return true
	}))
}

// ClipSelected cuts the selected brushes by p. The part in front of the
// plane is discarded unless keepBoth is set. The resulting brushes replace
// the originals and are selected. It returns their number.
func (s *System) ClipSelected(p geom.Plane, keepBoth bool) int {
	if !p.IsValid() {
		log.Warnf("cannot clip with an invalid plane")
		return 0
	}
	var targets []*scene.Node
	for _, n := range s.Selected() {
		if n.Brush() != nil {
			targets = append(targets, n)
		}
	}
	if len(targets) == 0 {
		return 0
	}

	s.beginBatch()
	defer s.endBatch()

	eps := s.settings.PlaneEpsilon()
	result := 0
	for _, n := range targets {
		front, back := n.Brush().Split(p, eps)
		parent := n.Parent()
		if parent == nil {
			continue
		}
		name := n.Name
		if err := s.graph.Remove(n.ID); err != nil {
			log.Warnf("clipping %d: %v", n.ID, err)
			continue
		}
		halves := []*brush.Brush{back}
		if keepBoth {
			halves = append(halves, front)
		}
		for _, half := range halves {
			if half == nil {
				continue
			}
			node := scene.NewBrush(half)
			node.Name = name
			if err := s.graph.Insert(parent.ID, node); err != nil {
				log.Warnf("clipping %d: %v", n.ID, err)
				continue
			}
			node.Selectable().SetSelected(true)
			result++
		}
	}
	log.Infof("clip left %d brushes", result)
	return result
}

// SelectNodes selects the visible nodes of ids that still exist, replacing
// the selection if replace is set. It returns the number selected.
func (s *System) SelectNodes(ids []scene.NodeID, replace bool) int {
	s.beginBatch()
	defer s.endBatch()

	if replace {
		for _, n := range s.Selected() {
			n.Selectable().SetSelected(false)
		}
		s.deselectComponents()
	}
	count := 0
	for _, id := range ids {
		n := s.graph.Node(id)
		if n == nil || !n.Visible() || n.Selectable() == nil {
			continue
		}
		n.Selectable().SetSelected(true)
		count++
	}
	return count
}
