package selection

import (
	"math"

	"gioui.org/f32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/scene"
)

// freeAxis marks a drag that is not constrained to an axis.
const freeAxis = -1

// ringSegments is the number of segments a rotation ring is tested with.
const ringSegments = 32

var axes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// dragState is a manipulator drag in progress. The selection is restored
// from snapshots before every move, so a drag applies one transform from
// the start state and can be cancelled exactly.
type dragState struct {
	mode      ManipulatorMode
	axis      int
	view      View
	pivot     mgl64.Vec3
	start     mgl64.Vec3 // world point under the cursor when the drag began
	startAxis float64    // axis parameter of start for constrained drags
	snapshots map[scene.NodeID]scene.Memento
}

// Dragging reports whether a manipulator drag is in progress.
func (s *System) Dragging() bool {
	return s.drag != nil
}

func (s *System) hasSelection() bool {
	return s.pool.Count() > 0 || len(s.componentNodes()) > 0
}

// SelectManipulator hit tests the manipulator handles at a device point
// and starts a drag on a hit. The selection itself is left alone except in
// drag mode, where clicking an unselected object selects it first.
func (s *System) SelectManipulator(v View, p f32.Point) bool {
	if s.drag != nil {
		s.EndMove()
	}
	t := NewPointTest(v, p, s.settings.DeviceEpsilon())

	switch s.manipulatorMode {
	case ManipulatorClip:
		return false
	case ManipulatorDrag:
		cands := s.candidates(t, false, PolicyIntersect)
		if len(cands) == 0 {
			return false
		}
		if !cands[0].selectable().IsSelected() {
			s.beginBatch()
			s.replaceWith(cands[:1])
			s.endBatch()
		}
		s.beginDrag(v, p, freeAxis)
		return true
	}

	if !s.hasSelection() {
		return false
	}
	axis, ok := s.hitHandle(t)
	if !ok {
		return false
	}
	s.beginDrag(v, p, axis)
	return true
}

// hitHandle returns the handle of the current manipulator under t.
func (s *System) hitHandle(t *Test) (int, bool) {
	size := s.settings.ManipulatorSize()
	pivot := s.pivot

	if s.manipulatorMode != ManipulatorRotate {
		centre := geom.AABB{Origin: pivot, Extents: mgl64.Vec3{size, size, size}.Mul(0.1)}
		if _, ok := t.AABB(centre); ok {
			return freeAxis, true
		}
	}

	best, hit, bestDepth := freeAxis, false, math.Inf(1)
	for i, dir := range axes {
		var (
			depth float64
			ok    bool
		)
		if s.manipulatorMode == ManipulatorRotate {
			depth, ok = testRing(t, pivot, dir, size)
		} else {
			end := pivot.Add(dir.Mul(size))
			if !projectsToLength(t.View(), pivot, end) {
				continue
			}
			depth, ok = t.Segment(pivot, end)
		}
		if ok && depth < bestDepth {
			best, hit, bestDepth = i, true, depth
		}
	}
	return best, hit
}

// projectsToLength reports whether a segment is more than a point on
// screen. Axes seen end on are not pickable.
func projectsToLength(v View, a, b mgl64.Vec3) bool {
	pa, okA := v.Project(a)
	pb, okB := v.Project(b)
	if !okA || !okB {
		return false
	}
	return pb.Vec2().Sub(pa.Vec2()).Len() > 1e-6
}

func testRing(t *Test, centre, axis mgl64.Vec3, radius float64) (float64, bool) {
	u := axes[(dominant(axis)+1)%3]
	w := axis.Cross(u).Normalize()
	u = w.Cross(axis).Normalize()

	best, hit := math.Inf(1), false
	prev := centre.Add(u.Mul(radius))
	for i := 1; i <= ringSegments; i++ {
		a := 2 * math.Pi * float64(i) / ringSegments
		cur := centre.Add(u.Mul(radius * math.Cos(a))).Add(w.Mul(radius * math.Sin(a)))
		if d, ok := t.Segment(prev, cur); ok {
			best = math.Min(best, d)
			hit = true
		}
		prev = cur
	}
	return best, hit
}

func dominant(v mgl64.Vec3) int {
	i := 0
	for j := 1; j < 3; j++ {
		if math.Abs(v[j]) > math.Abs(v[i]) {
			i = j
		}
	}
	return i
}

func (s *System) beginDrag(v View, p f32.Point, axis int) {
	d := &dragState{
		mode:      s.manipulatorMode,
		axis:      axis,
		view:      v,
		pivot:     s.pivot,
		snapshots: make(map[scene.NodeID]scene.Memento),
	}
	for _, n := range s.affected() {
		d.snapshots[n.ID] = n.Snapshot()
	}
	ray := v.Ray(p)
	if axis != freeAxis && d.mode != ManipulatorRotate {
		d.startAxis, _ = ray.ClosestOnLine(d.pivot, axes[axis])
		d.start = d.pivot.Add(axes[axis].Mul(d.startAxis))
	} else {
		d.start, _ = d.planeHit(ray)
	}
	s.drag = d
	log.Infof("%s drag started on axis %d", d.mode, axis)
}

// planeHit intersects a ray with the plane a free or rotating drag moves
// in: through the pivot, facing the viewer or normal to the rotation axis.
func (d *dragState) planeHit(r geom.Ray) (mgl64.Vec3, bool) {
	normal := r.Direction.Mul(-1)
	if d.mode == ManipulatorRotate && d.axis != freeAxis {
		normal = axes[d.axis]
	}
	pl := geom.NewPlane(normal, normal.Dot(d.pivot))
	t, ok := r.IntersectPlane(pl)
	if !ok {
		return d.pivot, false
	}
	return r.At(t), true
}

// transformTo returns the transform that takes the drag from its start to
// the device point p.
func (d *dragState) transformTo(p f32.Point, grid float64) (scene.Transform, bool) {
	t := scene.IdentityTransform()
	t.Pivot = d.pivot
	ray := d.view.Ray(p)

	switch d.mode {
	case ManipulatorTranslate, ManipulatorDrag:
		if d.axis != freeAxis {
			s, ok := ray.ClosestOnLine(d.pivot, axes[d.axis])
			if !ok {
				return t, false
			}
			t.Translation = axes[d.axis].Mul(s - d.startAxis)
		} else {
			hit, ok := d.planeHit(ray)
			if !ok {
				return t, false
			}
			t.Translation = hit.Sub(d.start)
		}
		if grid > 0 {
			for i := range t.Translation {
				t.Translation[i] = math.Round(t.Translation[i]/grid) * grid
			}
		}
	case ManipulatorRotate:
		hit, ok := d.planeHit(ray)
		if !ok || d.axis == freeAxis {
			return t, false
		}
		axis := axes[d.axis]
		a, b := d.start.Sub(d.pivot), hit.Sub(d.pivot)
		angle := math.Atan2(axis.Dot(a.Cross(b)), a.Dot(b))
		t.Rotation = mgl64.QuatRotate(angle, axis)
	case ManipulatorScale:
		if d.axis != freeAxis {
			s, ok := ray.ClosestOnLine(d.pivot, axes[d.axis])
			if !ok || math.Abs(d.startAxis) < 1e-9 || math.Abs(s/d.startAxis) < 1e-3 {
				return t, false
			}
			t.Scale[d.axis] = s / d.startAxis
		} else {
			hit, ok := d.planeHit(ray)
			from := d.start.Sub(d.pivot).Len()
			if !ok || from < 1e-9 {
				return t, false
			}
			f := hit.Sub(d.pivot).Len() / from
			if f < 1e-3 {
				return t, false
			}
			t.Scale = mgl64.Vec3{f, f, f}
		}
	default:
		return t, false
	}
	return t, true
}

// MoveSelected continues a drag to the device point p. It reports false
// when no drag is in progress.
func (s *System) MoveSelected(p f32.Point) bool {
	d := s.drag
	if d == nil {
		return false
	}
	s.restoreDrag()
	if t, ok := d.transformTo(p, s.settings.GridSize()); ok {
		s.applyTransform(t)
	}
	s.emit(Change{Kind: ChangeTransform})
	return true
}

func (s *System) restoreDrag() {
	for id, m := range s.drag.snapshots {
		if n := s.graph.Node(id); n != nil {
			n.Restore(m)
		}
	}
}

// EndMove commits the drag in progress.
func (s *System) EndMove() {
	if s.drag == nil {
		return
	}
	log.Infof("%s drag finished", s.drag.mode)
	s.drag = nil
	s.geometryChanged()
}

// CancelMove undoes the drag in progress, restoring the state from before
// it began.
func (s *System) CancelMove() {
	if s.drag == nil {
		return
	}
	s.restoreDrag()
	log.Infof("%s drag cancelled", s.drag.mode)
	s.drag = nil
	s.emit(Change{Kind: ChangeTransform})
	s.PivotChanged()
}

// NudgeManipulator moves the selection by d in the translate and drag
// manipulator modes. Other modes ignore nudges.
func (s *System) NudgeManipulator(d mgl64.Vec3) bool {
	switch s.manipulatorMode {
	case ManipulatorTranslate, ManipulatorDrag:
		s.TranslateSelected(d)
		return true
	}
	log.Debugf("nudge ignored in %s mode", s.manipulatorMode)
	return false
}
