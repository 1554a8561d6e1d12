package selection

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/scene"
)

// defaultWorkZone is reported before anything has been selected.
var defaultWorkZone = geom.AABB{Extents: mgl64.Vec3{64, 64, 64}}

// Pool is the ordered set of selected nodes and the work zone they span.
// Order is selection order, so the last two entries are the ultimate and
// penultimate selections.
type Pool struct {
	order    []scene.NodeID
	index    map[scene.NodeID]struct{}
	workZone geom.AABB
	// fresh is set until the first selection after a reset; that selection
	// replaces the work zone instead of growing it.
	fresh bool
}

// NewPool returns an empty pool with the default work zone.
func NewPool() *Pool {
	return &Pool{
		index:    make(map[scene.NodeID]struct{}),
		workZone: defaultWorkZone,
		fresh:    true,
	}
}

// onSelectedChanged records a transition of node id. Selecting grows the
// work zone by bounds; deselecting never shrinks it.
func (p *Pool) onSelectedChanged(id scene.NodeID, selected bool, bounds geom.AABB) {
	if selected {
		if _, ok := p.index[id]; ok {
			return
		}
		p.index[id] = struct{}{}
		p.order = append(p.order, id)
		if bounds.IsValid() {
			if p.fresh {
				p.workZone = bounds
				p.fresh = false
			} else {
				p.workZone.IncludeAABB(bounds)
			}
		}
		return
	}

	if _, ok := p.index[id]; !ok {
		return
	}
	delete(p.index, id)
	for i, other := range p.order {
		if other == id {
			p.order = append(p.order[:i:i], p.order[i+1:]...)
			break
		}
	}
}

// Count returns the number of selected nodes.
func (p *Pool) Count() int {
	return len(p.order)
}

// Contains reports whether id is selected.
func (p *Pool) Contains(id scene.NodeID) bool {
	_, ok := p.index[id]
	return ok
}

// IDs returns a copy of the selection in selection order.
func (p *Pool) IDs() []scene.NodeID {
	return append([]scene.NodeID(nil), p.order...)
}

// Foreach calls fn for every selected node on a copy of the pool, so fn
// may change the selection.
func (p *Pool) Foreach(fn func(id scene.NodeID)) {
	for _, id := range p.IDs() {
		fn(id)
	}
}

// Ultimate returns the most recently selected node.
func (p *Pool) Ultimate() (scene.NodeID, bool) {
	if len(p.order) == 0 {
		return 0, false
	}
	return p.order[len(p.order)-1], true
}

// Penultimate returns the node selected before the ultimate one.
func (p *Pool) Penultimate() (scene.NodeID, bool) {
	if len(p.order) < 2 {
		return 0, false
	}
	return p.order[len(p.order)-2], true
}

// grow widens the work zone by the new bounds of moved selections.
func (p *Pool) grow(bounds geom.AABB) {
	if !bounds.IsValid() || len(p.order) == 0 {
		return
	}
	if p.fresh {
		p.workZone = bounds
		p.fresh = false
		return
	}
	p.workZone.IncludeAABB(bounds)
}

// WorkZone returns the bounds of everything selected since the last reset.
// It is always valid.
func (p *Pool) WorkZone() geom.AABB {
	return p.workZone
}

// ResetWorkZone makes the next selection start a new work zone. The
// current zone stays reported until then.
func (p *Pool) ResetWorkZone() {
	p.fresh = true
}
