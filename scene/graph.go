// Package scene holds the node table of an open map: entities and the
// brushes, patches and models they own.
package scene

import (
	"errors"
	"fmt"

	"github.com/Tubbz-alt/DarkRadiant/selectable"
)

// ErrUnknownNode is returned for IDs that are not part of the graph.
var ErrUnknownNode = errors.New("unknown node")

// Listener receives the selection transitions of every node in a graph.
type Listener interface {
	OnSelectedChanged(n *Node, selected bool)
	OnComponentSelectedChanged(n *Node, selected bool)
}

// Visitor is called during a depth first traversal. Returning false from
// Pre skips the children of that node; Post is still called.
type Visitor interface {
	Pre(n *Node) bool
	Post(n *Node)
}

// VisitorFunc adapts a function to a Visitor without a Post step.
type VisitorFunc func(n *Node) bool

func (f VisitorFunc) Pre(n *Node) bool { return f(n) }
func (f VisitorFunc) Post(*Node)       {}

// Graph owns the nodes of one scene.
type Graph struct {
	nodes    map[NodeID]*Node
	root     NodeID
	nextID   NodeID
	listener Listener
}

// New returns a graph holding just the root.
func New() *Graph {
	g := &Graph{nodes: make(map[NodeID]*Node)}
	root := newNode(KindRoot)
	g.attach(root)
	g.root = root.ID
	return g
}

func (g *Graph) attach(n *Node) {
	g.nextID++
	n.ID = g.nextID
	n.graph = g
	n.sel = selectable.NewObserved(func(selected bool) {
		if g.listener != nil {
			g.listener.OnSelectedChanged(n, selected)
		}
	})
	if n.brush != nil {
		n.brush.SetComponentChangeFunc(func(selected bool) {
			if g.listener != nil {
				g.listener.OnComponentSelectedChanged(n, selected)
			}
		})
	}
	g.nodes[n.ID] = n
}

// SetListener installs the receiver of selection transitions. There is at
// most one listener per graph.
func (g *Graph) SetListener(l Listener) {
	g.listener = l
}

// Root returns the root node.
func (g *Graph) Root() *Node {
	return g.nodes[g.root]
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// Len returns the number of nodes, root included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Worldspawn returns the worldspawn entity, creating it on first use.
func (g *Graph) Worldspawn() *Node {
	for _, c := range g.Root().Children() {
		if c.IsWorldspawn() {
			return c
		}
	}
	ws := NewEntity(WorldspawnClassname)
	_ = g.Insert(g.root, ws)
	return ws
}

// Insert adds a detached node under parent.
func (g *Graph) Insert(parent NodeID, n *Node) error {
	p, ok := g.nodes[parent]
	if !ok {
		return fmt.Errorf("inserting under %d: %w", parent, ErrUnknownNode)
	}
	if n.graph != nil {
		return fmt.Errorf("node %d is already part of a graph", n.ID)
	}
	g.attach(n)
	n.parent = parent
	p.children = append(p.children, n.ID)
	return nil
}

// Remove deletes a node and its subtree. Selected nodes and components are
// deselected first so listeners see them go.
func (g *Graph) Remove(id NodeID) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("removing %d: %w", id, ErrUnknownNode)
	}
	if id == g.root {
		return errors.New("the root cannot be removed")
	}
	for _, c := range n.Children() {
		if err := g.Remove(c.ID); err != nil {
			return err
		}
	}
	if n.brush != nil {
		n.brush.DeselectComponents()
	}
	n.sel.SetSelected(false)

	if p := g.nodes[n.parent]; p != nil {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i:i], p.children[i+1:]...)
				break
			}
		}
	}
	delete(g.nodes, id)
	n.graph = nil
	return nil
}

// Traverse walks the whole graph depth first, children in insertion order.
func (g *Graph) Traverse(v Visitor) {
	g.TraverseFrom(g.root, v)
}

// TraverseFrom walks the subtree below and including id.
func (g *Graph) TraverseFrom(id NodeID, v Visitor) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if v.Pre(n) {
		for _, c := range append([]NodeID(nil), n.children...) {
			g.TraverseFrom(c, v)
		}
	}
	v.Post(n)
}

// Find returns the first node in traversal order with the given name.
func (g *Graph) Find(name string) *Node {
	var found *Node
	g.Traverse(VisitorFunc(func(n *Node) bool {
		if found == nil && n.Name == name {
			found = n
		}
		return found == nil
	}))
	return found
}
