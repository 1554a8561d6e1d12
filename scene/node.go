package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/brush"
	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/selectable"
)

// NodeID identifies a node within its graph. IDs are never reused.
type NodeID uint64

// Kind is the type of a scene node.
type Kind int

const (
	KindRoot Kind = iota
	KindEntity
	KindBrush
	KindPatch
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindEntity:
		return "entity"
	case KindBrush:
		return "brush"
	case KindPatch:
		return "patch"
	case KindModel:
		return "model"
	}
	return "unknown"
}

// WorldspawnClassname is the classname of the entity owning world geometry.
const WorldspawnClassname = "worldspawn"

// Node is an element of the scene graph. Positions are in world space;
// brush geometry is stored directly in world coordinates while entities,
// patches and models carry an origin, rotation and scale applied to their
// local bounds.
type Node struct {
	ID          NodeID
	Kind        Kind
	Name        string      // optional, unique names are not enforced
	Classname   string      // entities only
	ModelPath   string      // models and model entities
	Shader      string      // patches only
	Origin      mgl64.Vec3  // entity, patch and model placement
	Rotation    mgl64.Quat  // applied about Origin
	Scale       mgl64.Vec3  // applied before rotation
	LocalBounds geom.AABB   // bounds around Origin before rotation and scale

	parent   NodeID
	children []NodeID
	hidden   bool
	brush    *brush.Brush
	sel      *selectable.Observed
	graph    *Graph
}

func newNode(kind Kind) *Node {
	return &Node{
		Kind:        kind,
		Rotation:    mgl64.QuatIdent(),
		Scale:       mgl64.Vec3{1, 1, 1},
		LocalBounds: geom.EmptyAABB(),
	}
}

// NewEntity returns a detached entity node.
func NewEntity(classname string) *Node {
	n := newNode(KindEntity)
	n.Classname = classname
	if classname != WorldspawnClassname {
		n.LocalBounds = geom.AABB{Extents: mgl64.Vec3{8, 8, 8}}
	}
	return n
}

// NewBrush returns a detached brush node.
func NewBrush(b *brush.Brush) *Node {
	n := newNode(KindBrush)
	n.brush = b
	return n
}

// NewPatch returns a detached patch node covering bounds.
func NewPatch(shader string, bounds geom.AABB) *Node {
	n := newNode(KindPatch)
	n.Shader = shader
	n.Origin = bounds.Origin
	n.LocalBounds = geom.AABB{Extents: bounds.Extents}
	return n
}

// NewModel returns a detached model node.
func NewModel(path string, origin mgl64.Vec3, bounds geom.AABB) *Node {
	n := newNode(KindModel)
	n.ModelPath = path
	n.Origin = origin
	n.LocalBounds = bounds
	return n
}

// Parent returns the parent node, or nil for the root and detached nodes.
func (n *Node) Parent() *Node {
	if n.graph == nil || n.Kind == KindRoot {
		return nil
	}
	return n.graph.nodes[n.parent]
}

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node {
	if n.graph == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		out = append(out, n.graph.nodes[id])
	}
	return out
}

// Selectable returns the selection capability, or nil for nodes that can
// never be selected (the root and worldspawn).
func (n *Node) Selectable() selectable.Selectable {
	if n.sel == nil || n.Kind == KindRoot || n.IsWorldspawn() {
		return nil
	}
	return n.sel
}

// IsSelected is shorthand for a selectable node being selected.
func (n *Node) IsSelected() bool {
	s := n.Selectable()
	return s != nil && s.IsSelected()
}

// Brush returns the brush of a brush node, or nil.
func (n *Node) Brush() *brush.Brush {
	return n.brush
}

func (n *Node) IsEntity() bool { return n.Kind == KindEntity }

// IsPrimitive reports brushes and patches.
func (n *Node) IsPrimitive() bool {
	return n.Kind == KindBrush || n.Kind == KindPatch
}

func (n *Node) IsWorldspawn() bool {
	return n.Kind == KindEntity && n.Classname == WorldspawnClassname
}

// IsGroup reports entities that own primitives, other than worldspawn.
func (n *Node) IsGroup() bool {
	if !n.IsEntity() || n.IsWorldspawn() {
		return false
	}
	for _, c := range n.Children() {
		if c.IsPrimitive() {
			return true
		}
	}
	return false
}

// IsComponentEditable reports whether the node has vertices, edges and faces.
func (n *Node) IsComponentEditable() bool {
	return n.brush != nil
}

// Hidden reports the node's own hidden flag.
func (n *Node) Hidden() bool {
	return n.hidden
}

// SetHidden changes the node's own hidden flag.
func (n *Node) SetHidden(hidden bool) {
	n.hidden = hidden
}

// Visible reports whether neither the node nor any ancestor is hidden.
func (n *Node) Visible() bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.hidden {
			return false
		}
	}
	return true
}

// LocalToWorld returns the placement matrix of entities, patches and
// models. Brushes are always identity.
func (n *Node) LocalToWorld() mgl64.Mat4 {
	if n.brush != nil {
		return mgl64.Ident4()
	}
	t := mgl64.Translate3D(n.Origin[0], n.Origin[1], n.Origin[2])
	s := mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(n.Rotation.Mat4()).Mul4(s)
}

// WorldAABB returns the world bounds. Group entities and worldspawn span
// their children.
func (n *Node) WorldAABB() geom.AABB {
	switch {
	case n.brush != nil:
		return n.brush.Bounds()
	case n.Kind == KindRoot, n.IsWorldspawn(), n.IsGroup():
		box := geom.EmptyAABB()
		for _, c := range n.Children() {
			box.IncludeAABB(c.WorldAABB())
		}
		return box
	}
	return n.LocalBounds.Transformed(n.LocalToWorld())
}

// Transform describes a change applied about a pivot: scale first, then
// rotation, then translation.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
	Pivot       mgl64.Vec3
}

// IdentityTransform changes nothing.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix returns T(pivot+translation)·R·S·T(-pivot).
func (t Transform) Matrix() mgl64.Mat4 {
	to := t.Pivot.Add(t.Translation)
	return mgl64.Translate3D(to[0], to[1], to[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])).
		Mul4(mgl64.Translate3D(-t.Pivot[0], -t.Pivot[1], -t.Pivot[2]))
}

// ApplyTransform moves the node. Brushes transform their faces; other
// nodes move their origin and compose rotation and scale.
func (n *Node) ApplyTransform(t Transform) {
	m := t.Matrix()
	if n.brush != nil {
		n.brush.Transform(m)
		return
	}
	if n.Kind == KindRoot {
		return
	}
	n.Origin = mgl64.TransformCoordinate(n.Origin, m)
	n.Rotation = t.Rotation.Mul(n.Rotation).Normalize()
	for i := range n.Scale {
		n.Scale[i] *= t.Scale[i]
	}
}

// Memento records the transformable state of a node.
type Memento struct {
	origin   mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3
	brush    *brush.Snapshot
}

func (n *Node) Snapshot() Memento {
	m := Memento{origin: n.Origin, rotation: n.Rotation, scale: n.Scale}
	if n.brush != nil {
		s := n.brush.Snapshot()
		m.brush = &s
	}
	return m
}

func (n *Node) Restore(m Memento) {
	n.Origin = m.origin
	n.Rotation = m.rotation
	n.Scale = m.scale
	if n.brush != nil && m.brush != nil {
		n.brush.Restore(*m.brush)
	}
}
