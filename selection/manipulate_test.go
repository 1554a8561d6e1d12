package selection

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tubbz-alt/DarkRadiant/scene"
)

func facePoints(n *scene.Node) [][3]mgl64.Vec3 {
	var out [][3]mgl64.Vec3
	for _, f := range n.Brush().Faces() {
		out = append(out, f.Points)
	}
	return out
}

func TestTranslateSelected(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	light := f.entity(t, "light", mgl64.Vec3{0, 0, 64})
	f.sys.SetSelectedAll(true)
	f.rec.reset()

	f.sys.TranslateSelected(mgl64.Vec3{8, 0, -8})
	assertVec(t, mgl64.Vec3{-8, -16, -8}, a.WorldAABB().Min())
	assertVec(t, mgl64.Vec3{8, 0, 56}, light.Origin)
	require.Len(t, f.rec.changes, 1)
	assert.Equal(t, ChangeTransform, f.rec.changes[0].Kind)
}

func TestTransformGrowsWorkZone(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1})
	a.Selectable().SetSelected(true)
	assertVec(t, mgl64.Vec3{1, 1, 1}, f.sys.WorkZone().Max())

	f.sys.TranslateSelected(mgl64.Vec3{100, 0, 0})
	zone := f.sys.WorkZone()
	assertVec(t, mgl64.Vec3{-1, -1, -1}, zone.Min())
	assertVec(t, mgl64.Vec3{101, 1, 1}, zone.Max())
	assertVec(t, mgl64.Vec3{101, 1, 1}, a.WorldAABB().Max())
}

func TestDragGrowsWorkZone(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	f.sys.SetManipulatorMode(ManipulatorDrag)

	require.True(t, f.sys.SelectManipulator(topView(), dev(0, 0)))
	f.sys.MoveSelected(dev(-16, 0))
	f.sys.EndMove()
	assertVec(t, mgl64.Vec3{-32, -16, 0}, a.WorldAABB().Min())
	assertVec(t, mgl64.Vec3{-32, -16, 0}, f.sys.WorkZone().Min())
	assertVec(t, mgl64.Vec3{16, 16, 16}, f.sys.WorkZone().Max())
}

func TestSnapGrowsWorkZone(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{7, 7, 7})
	a.Selectable().SetSelected(true)

	f.sys.SnapSelectionToGrid(8)
	assertVec(t, mgl64.Vec3{0, 0, 0}, a.WorldAABB().Min())
	assertVec(t, mgl64.Vec3{0, 0, 0}, f.sys.WorkZone().Min())
	assertVec(t, mgl64.Vec3{8, 8, 8}, f.sys.WorkZone().Max())
}

func TestTransformWithoutSelection(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})

	f.sys.TranslateSelected(mgl64.Vec3{8, 0, 0})
	assertVec(t, mgl64.Vec3{-16, -16, 0}, a.WorldAABB().Min())
	assert.Empty(t, f.rec.changes)
}

func TestRotateSelected(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{32, 16, 16})
	a.Selectable().SetSelected(true)
	assertVec(t, mgl64.Vec3{16, 8, 8}, f.sys.Pivot())

	f.sys.RotateSelected(mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1}))
	box := a.WorldAABB()
	assertVec(t, mgl64.Vec3{8, -8, 0}, box.Min())
	assertVec(t, mgl64.Vec3{24, 24, 16}, box.Max())
	assertVec(t, mgl64.Vec3{16, 8, 8}, f.sys.Pivot())
}

func TestScaleSelected(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)

	f.sys.ScaleSelected(mgl64.Vec3{2, 1, 0.5})
	box := a.WorldAABB()
	assertVec(t, mgl64.Vec3{-32, -16, 4}, box.Min())
	assertVec(t, mgl64.Vec3{32, 16, 12}, box.Max())

	f.rec.reset()
	f.sys.ScaleSelected(mgl64.Vec3{1, 0, 1})
	assert.Empty(t, f.rec.changes, "flattening is refused")
}

func TestTranslateComponents(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)
	f.sys.SetComponentMode(ComponentFace)
	require.True(t, f.sys.SelectPoint(topView(), dev(0, 0), ModifierReplace, false))
	assertVec(t, mgl64.Vec3{0, 0, 16}, f.sys.Pivot())

	f.sys.TranslateSelected(mgl64.Vec3{0, 0, 8})
	assertVec(t, mgl64.Vec3{16, 16, 24}, a.WorldAABB().Max())
	assertVec(t, mgl64.Vec3{-16, -16, 0}, a.WorldAABB().Min())
	assert.Equal(t, 1, f.sys.CountSelectedComponents(), "the face stays selected")
}

func TestDragAndCancel(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	before := facePoints(a)
	v := topView()
	f.sys.SetManipulatorMode(ManipulatorDrag)

	require.True(t, f.sys.SelectPoint(v, dev(0, 0), ModifierManipulator, false))
	assert.True(t, a.IsSelected(), "drag selects what it grabs")
	require.True(t, f.sys.Dragging())

	require.True(t, f.sys.MoveSelected(dev(32, 0)))
	assertVec(t, mgl64.Vec3{16, -16, 0}, a.WorldAABB().Min())

	// Moves are relative to the start, not to the previous move.
	require.True(t, f.sys.MoveSelected(dev(32, 8)))
	assertVec(t, mgl64.Vec3{16, -8, 0}, a.WorldAABB().Min())

	f.sys.CancelMove()
	assert.False(t, f.sys.Dragging())
	assert.Equal(t, before, facePoints(a))
	assert.False(t, f.sys.MoveSelected(dev(64, 0)))
}

func TestDragEnd(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	v := topView()
	f.sys.SetManipulatorMode(ManipulatorDrag)

	require.True(t, f.sys.SelectManipulator(v, dev(0, 0)))
	f.sys.MoveSelected(dev(-16, 0))
	f.sys.EndMove()
	assert.False(t, f.sys.Dragging())
	assertVec(t, mgl64.Vec3{-32, -16, 0}, a.WorldAABB().Min())
	assertVec(t, mgl64.Vec3{-16, 0, 8}, f.sys.Pivot())

	// Cancelling after the end changes nothing.
	f.sys.CancelMove()
	assertVec(t, mgl64.Vec3{-32, -16, 0}, a.WorldAABB().Min())
}

func TestTranslateHandle(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)
	v := topView()

	// The x handle runs from the pivot to 64 units along x.
	require.True(t, f.sys.SelectPoint(v, dev(40, 0), ModifierManipulator, false))
	assert.True(t, a.IsSelected())
	require.True(t, f.sys.Dragging())

	f.sys.MoveSelected(dev(56, 20))
	f.sys.EndMove()
	assertVec(t, mgl64.Vec3{0, -16, 0}, a.WorldAABB().Min())
}

func TestManipulatorMiss(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	b := f.brush(t, "b", mgl64.Vec3{-96, -96, 0}, mgl64.Vec3{-80, -80, 16})
	a.Selectable().SetSelected(true)

	// No handle there, so the click falls through to a replacing pick.
	require.True(t, f.sys.SelectPoint(topView(), dev(-88, -88), ModifierManipulator, false))
	assert.False(t, f.sys.Dragging())
	assert.False(t, a.IsSelected())
	assert.True(t, b.IsSelected())
}

func TestRotateHandle(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)
	f.sys.SetManipulatorMode(ManipulatorRotate)
	v := topView()

	// The z ring lies in the view plane with radius 64 around the pivot.
	// The other rings are seen edge on along the x and y axes.
	r := 64 / math.Sqrt2
	require.True(t, f.sys.SelectManipulator(v, dev(r, r)))
	f.sys.MoveSelected(dev(-r, r))
	f.sys.EndMove()

	// A square rotated a quarter turn about its centre covers itself.
	box := a.WorldAABB()
	assertVec(t, mgl64.Vec3{-16, -16, 0}, box.Min())
	assertVec(t, mgl64.Vec3{16, 16, 16}, box.Max())
	x := a.Brush().Faces()[0].Plane().Normal
	assertVec(t, mgl64.Vec3{0, 1, 0}, x)
}

func TestScaleHandle(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)
	f.sys.SetManipulatorMode(ManipulatorScale)

	require.True(t, f.sys.SelectManipulator(topView(), dev(32, 0)))
	f.sys.MoveSelected(dev(64, 0))
	f.sys.EndMove()
	box := a.WorldAABB()
	assertVec(t, mgl64.Vec3{-32, -16, 0}, box.Min())
	assertVec(t, mgl64.Vec3{32, 16, 16}, box.Max())
}

func TestClipManipulatorHasNoHandles(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)
	f.sys.SetManipulatorMode(ManipulatorClip)
	assert.False(t, f.sys.SelectManipulator(topView(), dev(0, 0)))
}

func TestNudgeManipulator(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)

	assert.True(t, f.sys.NudgeManipulator(mgl64.Vec3{8, 0, 0}))
	assertVec(t, mgl64.Vec3{-8, -16, 0}, a.WorldAABB().Min())

	f.sys.SetManipulatorMode(ManipulatorRotate)
	assert.False(t, f.sys.NudgeManipulator(mgl64.Vec3{8, 0, 0}))
	assertVec(t, mgl64.Vec3{-8, -16, 0}, a.WorldAABB().Min())
}
