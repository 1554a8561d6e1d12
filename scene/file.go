package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Tubbz-alt/DarkRadiant/brush"
	"github.com/Tubbz-alt/DarkRadiant/geom"
)

type (
	// File is the yaml form of a scene snapshot.
	File struct {
		// Entities are stored in traversal order. The worldspawn entity, if
		// any, holds the world geometry.
		Entities []Entity `yaml:"entities"`
	}

	Entity struct {
		Name      string `yaml:"name,omitempty"`
		Classname string `yaml:"classname"`
		Placement `yaml:",inline"`
		// Bounds overrides the default 16 unit box of point entities.
		Bounds  *Box    `yaml:"bounds,omitempty"`
		Model   string  `yaml:"model,omitempty"`
		Hidden  bool    `yaml:"hidden,omitempty"`
		Brushes []Brush `yaml:"brushes,omitempty"`
		Patches []Patch `yaml:"patches,omitempty"`
		Models  []Model `yaml:"models,omitempty"`
	}

	// Placement is shared by everything positioned with an origin.
	Placement struct {
		Origin   *Vec3 `yaml:"origin,omitempty"`
		Rotation *Quat `yaml:"rotation,omitempty"`
		Scale    *Vec3 `yaml:"scale,omitempty"`
	}

	// Brush is either a list of faces or, as a shorthand, a box given by
	// min and max.
	Brush struct {
		Name   string `yaml:"name,omitempty"`
		Shader string `yaml:"shader,omitempty"`
		Min    *Vec3  `yaml:"min,omitempty"`
		Max    *Vec3  `yaml:"max,omitempty"`
		Faces  []Face `yaml:"faces,omitempty"`
		Hidden bool   `yaml:"hidden,omitempty"`
	}

	Face struct {
		// Points are counter-clockwise seen from outside the brush.
		Points [3]Vec3 `yaml:"points"`
		Shader string  `yaml:"shader,omitempty"`
	}

	// Patch bounds are local to the placement when one is given and in
	// world space otherwise.
	Patch struct {
		Name      string `yaml:"name,omitempty"`
		Shader    string `yaml:"shader"`
		Placement `yaml:",inline"`
		Bounds    Box  `yaml:"bounds"`
		Hidden    bool `yaml:"hidden,omitempty"`
	}

	Model struct {
		Name      string `yaml:"name,omitempty"`
		Path      string `yaml:"path"`
		Placement `yaml:",inline"`
		Bounds    Box  `yaml:"bounds"`
		Hidden    bool `yaml:"hidden,omitempty"`
	}

	Box struct {
		Min Vec3 `yaml:"min"`
		Max Vec3 `yaml:"max"`
	}

	Vec3 struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
		Z float64 `yaml:"z"`
	}

	Quat struct {
		W float64 `yaml:"w"`
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
		Z float64 `yaml:"z"`
	}
)

func (v Vec3) vec() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func toVec3(v mgl64.Vec3) Vec3 { return Vec3{X: v[0], Y: v[1], Z: v[2]} }

func (b Box) aabb() geom.AABB { return geom.AABBFromMinMax(b.Min.vec(), b.Max.vec()) }

func toBox(a geom.AABB) Box { return Box{Min: toVec3(a.Min()), Max: toVec3(a.Max())} }

func (p Placement) apply(n *Node) {
	if p.Origin != nil {
		n.Origin = p.Origin.vec()
	}
	if p.Rotation != nil {
		q := p.Rotation
		n.Rotation = mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}.Normalize()
	}
	if p.Scale != nil {
		n.Scale = p.Scale.vec()
	}
}

func (p Placement) isSet() bool {
	return p.Origin != nil || p.Rotation != nil || p.Scale != nil
}

func placementOf(n *Node) Placement {
	var p Placement
	if n.Origin != (mgl64.Vec3{}) {
		o := toVec3(n.Origin)
		p.Origin = &o
	}
	if math.Abs(n.Rotation.W) < 1-1e-9 {
		p.Rotation = &Quat{W: n.Rotation.W, X: n.Rotation.V[0], Y: n.Rotation.V[1], Z: n.Rotation.V[2]}
	}
	if n.Scale != (mgl64.Vec3{1, 1, 1}) {
		s := toVec3(n.Scale)
		p.Scale = &s
	}
	return p
}

// Decode reads a scene from yaml.
func Decode(r io.Reader) (*Graph, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return f.Build()
}

// Build creates a graph from the file contents.
func (f *File) Build() (*Graph, error) {
	g := New()
	for i, e := range f.Entities {
		var ent *Node
		if e.Classname == WorldspawnClassname {
			ent = g.Worldspawn()
		} else {
			ent = NewEntity(e.Classname)
			if err := g.Insert(g.root, ent); err != nil {
				return nil, err
			}
		}
		ent.Name = e.Name
		ent.ModelPath = e.Model
		ent.hidden = e.Hidden
		e.Placement.apply(ent)
		if e.Bounds != nil {
			ent.LocalBounds = geom.AABB{Extents: e.Bounds.aabb().Extents}
		}

		for j, b := range e.Brushes {
			br, err := b.build()
			if err != nil {
				return nil, fmt.Errorf("entity %d brush %d: %w", i, j, err)
			}
			n := NewBrush(br)
			n.Name = b.Name
			n.hidden = b.Hidden
			if err := g.Insert(ent.ID, n); err != nil {
				return nil, err
			}
		}
		for _, p := range e.Patches {
			n := NewPatch(p.Shader, p.Bounds.aabb())
			if p.Placement.isSet() {
				n.Origin = mgl64.Vec3{}
				n.LocalBounds = p.Bounds.aabb()
				p.Placement.apply(n)
			}
			n.Name = p.Name
			n.hidden = p.Hidden
			if err := g.Insert(ent.ID, n); err != nil {
				return nil, err
			}
		}
		for _, m := range e.Models {
			n := NewModel(m.Path, mgl64.Vec3{}, m.Bounds.aabb())
			n.Name = m.Name
			n.hidden = m.Hidden
			m.Placement.apply(n)
			if err := g.Insert(ent.ID, n); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (b Brush) build() (*brush.Brush, error) {
	if len(b.Faces) == 0 {
		if b.Min == nil || b.Max == nil {
			return nil, errors.New("brush needs faces or min and max")
		}
		return brush.Cuboid(b.Min.vec(), b.Max.vec(), b.Shader), nil
	}
	faces := make([]*brush.Face, 0, len(b.Faces))
	for _, f := range b.Faces {
		shader := f.Shader
		if shader == "" {
			shader = b.Shader
		}
		faces = append(faces, brush.NewFace(f.Points[0].vec(), f.Points[1].vec(), f.Points[2].vec(), shader))
	}
	br := brush.New(faces...)
	if !br.IsValid() {
		return nil, errors.New("faces do not enclose a volume")
	}
	return br, nil
}

// Snapshot converts the graph into its file form.
func (g *Graph) Snapshot() *File {
	f := &File{Entities: make([]Entity, 0)}
	for _, ent := range g.Root().Children() {
		if !ent.IsEntity() {
			continue
		}
		e := Entity{
			Name:      ent.Name,
			Classname: ent.Classname,
			Placement: placementOf(ent),
			Model:     ent.ModelPath,
			Hidden:    ent.hidden,
		}
		if !ent.IsWorldspawn() && ent.LocalBounds != (geom.AABB{Extents: mgl64.Vec3{8, 8, 8}}) && ent.LocalBounds.IsValid() {
			b := toBox(ent.LocalBounds)
			e.Bounds = &b
		}
		for _, c := range ent.Children() {
			switch c.Kind {
			case KindBrush:
				e.Brushes = append(e.Brushes, brushFile(c))
			case KindPatch:
				e.Patches = append(e.Patches, Patch{
					Name:      c.Name,
					Shader:    c.Shader,
					Placement: placementOf(c),
					Bounds:    toBox(c.LocalBounds),
					Hidden:    c.hidden,
				})
			case KindModel:
				e.Models = append(e.Models, Model{
					Name:      c.Name,
					Path:      c.ModelPath,
					Placement: placementOf(c),
					Bounds:    toBox(c.LocalBounds),
					Hidden:    c.hidden,
				})
			}
		}
		f.Entities = append(f.Entities, e)
	}
	return f
}

func brushFile(n *Node) Brush {
	b := Brush{Name: n.Name, Hidden: n.hidden}
	for _, face := range n.brush.Faces() {
		b.Faces = append(b.Faces, Face{
			Points: [3]Vec3{toVec3(face.Points[0]), toVec3(face.Points[1]), toVec3(face.Points[2])},
			Shader: face.Shader,
		})
	}
	return b
}

// Encode writes the graph as yaml.
func (g *Graph) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(4)

	return encoder.Encode(g.Snapshot())
}

// Save writes the graph to path, creating parent directories.
func (g *Graph) Save(path string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return g.Encode(f)
}

// Load reads a scene file.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
