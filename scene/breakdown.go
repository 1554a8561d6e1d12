package scene

import "sort"

// Breakdown counts the contents of a scene.
type Breakdown struct {
	Entities   int
	Brushes    int
	Patches    int
	Models     int
	Hidden     int
	Classnames map[string]int // entities per classname
	ModelPaths map[string]int // model nodes and model entities per path
}

// Breakdown walks the graph and counts nodes by kind, classname and model.
func (g *Graph) Breakdown() Breakdown {
	b := Breakdown{
		Classnames: make(map[string]int),
		ModelPaths: make(map[string]int),
	}
	g.Traverse(VisitorFunc(func(n *Node) bool {
		if n.hidden {
			b.Hidden++
		}
		switch n.Kind {
		case KindEntity:
			b.Entities++
			b.Classnames[n.Classname]++
		case KindBrush:
			b.Brushes++
		case KindPatch:
			b.Patches++
		case KindModel:
			b.Models++
		}
		if n.ModelPath != "" {
			b.ModelPaths[n.ModelPath]++
		}
		return true
	}))
	return b
}

// SortedModelPaths returns the model paths in lexical order.
func (b Breakdown) SortedModelPaths() []string {
	paths := make([]string, 0, len(b.ModelPaths))
	for p := range b.ModelPaths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
