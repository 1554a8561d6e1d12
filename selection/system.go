// Package selection tracks what is selected in a scene and implements the
// operations that change it: point and area picks, bulk selection, mode
// changes, transforms and manipulator drags.
package selection

import (
	"gioui.org/f32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/skycoin/skycoin/src/util/logging"

	"github.com/Tubbz-alt/DarkRadiant/brush"
	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/scene"
)

var log = logging.MustGetLogger("selection")

// System is the selection state of one scene. All selection changes of the
// scene's nodes are routed through it, so the pool, the pivot and the
// observers stay consistent. It is not safe for concurrent use.
type System struct {
	graph    *scene.Graph
	settings Settings

	pool *Pool
	// components lists nodes with selected components in the order they got
	// their first one.
	components []scene.NodeID

	mode            Mode
	componentMode   ComponentMode
	manipulatorMode ManipulatorMode

	observers  observers
	batchDepth int
	pending    []Change

	pivot mgl64.Vec3
	drag  *dragState

	lastPick    f32.Point
	hasLastPick bool
}

// New attaches a selection system to g. Nodes already selected in g are
// taken over in traversal order. A nil settings uses DefaultSettings.
func New(g *scene.Graph, settings Settings) *System {
	if settings == nil {
		settings = DefaultSettings{}
	}
	s := &System{
		graph:    g,
		settings: settings,
		pool:     NewPool(),
		mode:     ModePrimitive,
	}
	g.SetListener(s)

	g.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
		if n.IsSelected() {
			s.pool.onSelectedChanged(n.ID, true, n.WorldAABB())
		}
		if b := n.Brush(); b != nil && b.HasSelectedComponents() {
			s.components = append(s.components, n.ID)
		}
		return true
	}))
	s.PivotChanged()
	return s
}

// Graph returns the scene the system belongs to.
func (s *System) Graph() *scene.Graph {
	return s.graph
}

// Settings returns the settings in use.
func (s *System) Settings() Settings {
	return s.settings
}

// OnSelectedChanged is called by the scene for every node transition.
func (s *System) OnSelectedChanged(n *scene.Node, selected bool) {
	s.beginBatch()
	defer s.endBatch()

	s.pool.onSelectedChanged(n.ID, selected, n.WorldAABB())
	s.emit(Change{Kind: ChangeSelection, Node: n.ID, Selected: selected})

	if !selected {
		// Components only stay selected on selected parents.
		if b := n.Brush(); b != nil && s.mode == ModeComponent {
			b.DeselectComponents()
		}
		if s.mode == ModeComponent && !s.hasComponentParent() {
			s.setMode(ModePrimitive)
		}
	}
	s.PivotChanged()
}

// OnComponentSelectedChanged is called by the scene for every component
// transition.
func (s *System) OnComponentSelectedChanged(n *scene.Node, selected bool) {
	if selected {
		found := false
		for _, id := range s.components {
			if id == n.ID {
				found = true
				break
			}
		}
		if !found {
			s.components = append(s.components, n.ID)
		}
	} else {
		s.componentNodes()
	}
	s.emit(Change{Kind: ChangeSelection, Node: n.ID, IsComponent: true, Selected: selected})
	s.PivotChanged()
}

func (s *System) beginBatch() {
	s.batchDepth++
}

// endBatch closes a batch. A batch with a single change reports it as is;
// more changes are reported as one ChangeBulk.
func (s *System) endBatch() {
	s.batchDepth--
	if s.batchDepth > 0 {
		return
	}
	pending := s.pending
	s.pending = nil
	switch len(pending) {
	case 0:
	case 1:
		s.observers.notify(pending[0])
	default:
		log.Debugf("%d selection changes reported as one", len(pending))
		s.observers.notify(Change{Kind: ChangeBulk})
	}
}

func (s *System) emit(c Change) {
	if s.batchDepth > 0 {
		s.pending = append(s.pending, c)
		return
	}
	s.observers.notify(c)
}

// AddObserver registers o and returns the handle to remove it with.
func (s *System) AddObserver(o Observer) Handle {
	return s.observers.add(o)
}

// RemoveObserver unregisters an observer. It is safe to call from within a
// notification and with handles that were already removed.
func (s *System) RemoveObserver(h Handle) bool {
	return s.observers.remove(h)
}

// Mode returns the selection mode.
func (s *System) Mode() Mode {
	return s.mode
}

// ComponentMode returns the component mode. It is ComponentDefault unless
// the mode is ModeComponent.
func (s *System) ComponentMode() ComponentMode {
	return s.componentMode
}

// ManipulatorMode returns the manipulator mode.
func (s *System) ManipulatorMode() ManipulatorMode {
	return s.manipulatorMode
}

// SetMode switches the selection mode. Entering ModeComponent without a
// selected brush is refused and lands in ModePrimitive. Leaving
// ModeComponent deselects all components.
func (s *System) SetMode(m Mode) {
	s.beginBatch()
	defer s.endBatch()
	s.setMode(m)
}

func (s *System) setMode(m Mode) {
	if m == ModeComponent && !s.hasComponentParent() {
		log.Warnf("no brush selected, using %s mode instead of %s", ModePrimitive, m)
		m = ModePrimitive
	}
	if s.mode == ModeComponent && m != ModeComponent {
		s.deselectComponents()
	}
	switch {
	case m != ModeComponent:
		s.componentMode = ComponentDefault
	case s.componentMode == ComponentDefault:
		s.componentMode = ComponentVertex
	}
	if s.mode != m {
		log.Infof("selection mode %s", m)
	}
	s.mode = m
	s.emit(Change{Kind: ChangeMode})
	s.PivotChanged()
}

// SetComponentMode switches the component granularity. Any mode other than
// ComponentDefault enters ModeComponent; ComponentDefault leaves it.
func (s *System) SetComponentMode(cm ComponentMode) {
	s.beginBatch()
	defer s.endBatch()

	if cm == ComponentDefault {
		if s.mode == ModeComponent {
			s.setMode(ModePrimitive)
			return
		}
		s.emit(Change{Kind: ChangeMode})
		return
	}
	if s.mode == ModeComponent && s.componentMode != cm {
		s.deselectComponents()
	}
	s.componentMode = cm
	s.setMode(ModeComponent)
}

// SetManipulatorMode switches the manipulator. A drag in progress is
// committed first.
func (s *System) SetManipulatorMode(mm ManipulatorMode) {
	if s.drag != nil {
		s.EndMove()
	}
	if s.manipulatorMode != mm {
		log.Infof("manipulator mode %s", mm)
	}
	s.manipulatorMode = mm
	s.emit(Change{Kind: ChangeMode})
}

func (s *System) hasComponentParent() bool {
	for _, id := range s.pool.IDs() {
		if n := s.graph.Node(id); n != nil && n.IsComponentEditable() {
			return true
		}
	}
	return false
}

// componentNodes returns the nodes with selected components and drops
// stale entries from the list.
func (s *System) componentNodes() []*scene.Node {
	var out []*scene.Node
	kept := s.components[:0]
	for _, id := range s.components {
		n := s.graph.Node(id)
		if n == nil || n.Brush() == nil || !n.Brush().HasSelectedComponents() {
			continue
		}
		kept = append(kept, id)
		out = append(out, n)
	}
	s.components = kept
	return out
}

func (s *System) deselectComponents() {
	for _, n := range s.componentNodes() {
		n.Brush().DeselectComponents()
	}
}

// CountSelected returns the number of selected nodes.
func (s *System) CountSelected() int {
	return s.pool.Count()
}

// CountSelectedComponents returns the number of selected components.
func (s *System) CountSelectedComponents() int {
	total := 0
	for _, n := range s.componentNodes() {
		total += len(n.Brush().SelectedComponents())
	}
	return total
}

// Selected returns the selected nodes in selection order.
func (s *System) Selected() []*scene.Node {
	var out []*scene.Node
	for _, id := range s.pool.IDs() {
		if n := s.graph.Node(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// ForeachSelected visits the selected nodes in selection order. The visit
// works on a copy, so fn may change the selection.
func (s *System) ForeachSelected(fn func(n *scene.Node)) {
	for _, n := range s.Selected() {
		fn(n)
	}
}

// ForeachSelectedComponent visits the selected components, grouped by node
// in the order the nodes got their first selected component.
func (s *System) ForeachSelectedComponent(fn func(n *scene.Node, c *brush.Component)) {
	type entry struct {
		n *scene.Node
		c *brush.Component
	}
	var all []entry
	for _, n := range s.componentNodes() {
		for _, c := range n.Brush().SelectedComponents() {
			all = append(all, entry{n, c})
		}
	}
	for _, e := range all {
		fn(e.n, e.c)
	}
}

// Ultimate returns the most recently selected node, or nil.
func (s *System) Ultimate() *scene.Node {
	if id, ok := s.pool.Ultimate(); ok {
		return s.graph.Node(id)
	}
	return nil
}

// Penultimate returns the node selected before the ultimate one, or nil.
func (s *System) Penultimate() *scene.Node {
	if id, ok := s.pool.Penultimate(); ok {
		return s.graph.Node(id)
	}
	return nil
}

// WorkZone returns the bounds new objects are placed in.
func (s *System) WorkZone() geom.AABB {
	return s.pool.WorkZone()
}

// SetSelectedAll selects every visible object of the current mode, or
// deselects everything. Observers get one notification.
func (s *System) SetSelectedAll(selected bool) {
	s.beginBatch()
	defer s.endBatch()

	if selected {
		if s.mode == ModeComponent {
			s.selectAllComponents()
			return
		}
		targets := s.nodeTargets()
		for _, n := range targets {
			n.Selectable().SetSelected(true)
		}
		log.Infof("selected all %d %s targets", len(targets), s.mode)
		return
	}

	for _, n := range s.Selected() {
		if sel := n.Selectable(); sel != nil {
			sel.SetSelected(false)
		}
	}
	s.deselectComponents()
	s.pool.ResetWorkZone()
}

// SetSelectedAllComponents selects all components of the current component
// mode on the selected brushes, or deselects all components.
func (s *System) SetSelectedAllComponents(selected bool) {
	s.beginBatch()
	defer s.endBatch()

	if !selected {
		s.deselectComponents()
		return
	}
	if s.mode == ModeComponent {
		s.selectAllComponents()
	}
}

func (s *System) selectAllComponents() {
	kind := s.componentMode.kind()
	for _, n := range s.Selected() {
		if b := n.Brush(); b != nil && n.Visible() {
			b.SetSelectedComponents(kind, true)
		}
	}
}

// nodeTargets returns the visible nodes the current mode selects, in
// traversal order.
func (s *System) nodeTargets() []*scene.Node {
	var out []*scene.Node
	s.graph.Traverse(scene.VisitorFunc(func(n *scene.Node) bool {
		if n.Hidden() {
			return false
		}
		if n.Kind == scene.KindRoot || n.IsWorldspawn() {
			return true
		}
		switch s.mode {
		case ModeEntity:
			if n.IsEntity() {
				out = append(out, n)
			}
			return false
		case ModeGroupPart:
			if p := n.Parent(); !n.IsEntity() && p != nil && p.IsEntity() && !p.IsWorldspawn() {
				out = append(out, n)
			}
			return n.IsEntity()
		default:
			out = append(out, n)
			return false
		}
	}))
	return out
}

// SelectionInfo counts the selection.
type SelectionInfo struct {
	Total      int
	Entities   int
	Brushes    int
	Patches    int
	Models     int
	Components int
}

// Info returns counts of the current selection.
func (s *System) Info() SelectionInfo {
	info := SelectionInfo{Components: s.CountSelectedComponents()}
	for _, n := range s.Selected() {
		info.Total++
		switch n.Kind {
		case scene.KindEntity:
			info.Entities++
		case scene.KindBrush:
			info.Brushes++
		case scene.KindPatch:
			info.Patches++
		case scene.KindModel:
			info.Models++
		}
	}
	return info
}
