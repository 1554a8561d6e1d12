package selection

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tubbz-alt/DarkRadiant/brush"
	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/scene"
)

func selectedNames(sys *System) []string {
	var out []string
	for _, n := range sys.Selected() {
		out = append(out, n.Name)
	}
	return out
}

func TestInvertSelection(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
	f.brush(t, "b", mgl64.Vec3{32, 0, 0}, mgl64.Vec3{48, 16, 16})
	f.entity(t, "light", mgl64.Vec3{0, 0, 64})
	a.Selectable().SetSelected(true)
	f.rec.reset()

	f.sys.InvertSelection()
	assert.ElementsMatch(t, []string{"b", "light"}, selectedNames(f.sys))
	require.Len(t, f.rec.changes, 1)
	assert.Equal(t, ChangeBulk, f.rec.changes[0].Kind)
}

func TestInvertComponents(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)
	f.sys.SetComponentMode(ComponentVertex)

	f.sys.InvertSelection()
	assert.Equal(t, 8, f.sys.CountSelectedComponents())
	f.sys.InvertSelection()
	assert.Zero(t, f.sys.CountSelectedComponents())
	assert.True(t, a.IsSelected())
}

func TestHideAndShow(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
	b := f.brush(t, "b", mgl64.Vec3{32, 0, 0}, mgl64.Vec3{48, 16, 16})
	light := f.entity(t, "light", mgl64.Vec3{0, 0, 64})

	a.Selectable().SetSelected(true)
	f.sys.HideDeselected()
	assert.True(t, b.Hidden())
	assert.True(t, light.Hidden())
	assert.False(t, a.Hidden())
	assert.False(t, f.g.Worldspawn().Hidden(), "worldspawn holds the selection")

	f.rec.reset()
	f.sys.HideSelected()
	assert.True(t, a.Hidden())
	assert.Zero(t, f.sys.CountSelected())
	require.Len(t, f.rec.changes, 1)
	assert.Equal(t, ChangeBulk, f.rec.changes[0].Kind)

	f.sys.SetSelectedAll(true)
	assert.Zero(t, f.sys.CountSelected(), "hidden nodes cannot be selected")

	f.rec.reset()
	f.sys.ShowAllHidden()
	require.Len(t, f.rec.changes, 1)
	assert.Equal(t, ChangeVisibility, f.rec.changes[0].Kind)
	f.sys.SetSelectedAll(true)
	assert.Equal(t, 3, f.sys.CountSelected())

	f.rec.reset()
	f.sys.ShowAllHidden()
	assert.Empty(t, f.rec.changes)
}

func TestDeleteSelection(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
	door := f.entity(t, "func_static", mgl64.Vec3{})
	part := f.brushIn(t, door, "part", mgl64.Vec3{64, 0, 0}, mgl64.Vec3{72, 64, 96})

	f.sys.SetMode(ModeGroupPart)
	part.Selectable().SetSelected(true)
	assert.Equal(t, 1, f.sys.DeleteSelection())
	assert.Nil(t, f.g.Node(part.ID))
	assert.Nil(t, f.g.Node(door.ID), "empty group is removed")
	assert.Zero(t, f.sys.CountSelected())

	f.sys.SetMode(ModePrimitive)
	a.Selectable().SetSelected(true)
	assert.Equal(t, 1, f.sys.DeleteSelection())
	assert.NotNil(t, f.g.Worldspawn())
	assert.Zero(t, f.sys.DeleteSelection())
}

func TestSelectByBounds(t *testing.T) {
	tests := []struct {
		name    string
		run     func(*System) int
		want    []string
		deleted bool
	}{
		{name: "inside", run: (*System).SelectInside, want: []string{"inside"}, deleted: true},
		{name: "complete tall", run: (*System).SelectCompleteTall, want: []string{"inside", "tall"}, deleted: true},
		{name: "touching", run: (*System).SelectTouching, want: []string{"inside", "straddling", "tall"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			src := f.brush(t, "source", mgl64.Vec3{-64, -64, 0}, mgl64.Vec3{64, 64, 64})
			f.brush(t, "inside", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
			f.brush(t, "straddling", mgl64.Vec3{56, 0, 0}, mgl64.Vec3{80, 16, 16})
			f.brush(t, "tall", mgl64.Vec3{-32, -32, 0}, mgl64.Vec3{-16, -16, 128})
			f.brush(t, "adjacent", mgl64.Vec3{64, -64, 0}, mgl64.Vec3{96, -32, 16})
			f.brush(t, "far", mgl64.Vec3{200, 200, 0}, mgl64.Vec3{216, 216, 16})
			src.Selectable().SetSelected(true)

			assert.Equal(t, len(tt.want), tt.run(f.sys))
			got := selectedNames(f.sys)
			if tt.deleted {
				assert.Nil(t, f.g.Node(src.ID))
			} else {
				assert.Contains(t, got, "source")
				got = got[1:]
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestSelectByBoundsNeedsPrimitiveMode(t *testing.T) {
	f := newFixture(t)
	src := f.brush(t, "source", mgl64.Vec3{-64, -64, 0}, mgl64.Vec3{64, 64, 64})
	f.brush(t, "inside", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
	src.Selectable().SetSelected(true)
	f.sys.SetMode(ModeGroupPart)

	assert.Zero(t, f.sys.SelectInside())
	assert.NotNil(t, f.g.Node(src.ID))
}

func TestSelectionCenter(t *testing.T) {
	f := newFixture(t)
	_, ok := f.sys.SelectionCenter()
	assert.False(t, ok)

	a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{20, 20, 20})
	a.Selectable().SetSelected(true)
	c, ok := f.sys.SelectionCenter()
	require.True(t, ok)
	assertVec(t, mgl64.Vec3{8, 8, 8}, c)
}

func TestSnapSelectionToGrid(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{17, 17, 17})
	light := f.entity(t, "light", mgl64.Vec3{3, 5, 61})
	f.sys.SetSelectedAll(true)

	f.sys.SnapSelectionToGrid(0)
	assertVec(t, mgl64.Vec3{0, 0, 0}, a.WorldAABB().Min())
	assertVec(t, mgl64.Vec3{16, 16, 16}, a.WorldAABB().Max())
	assertVec(t, mgl64.Vec3{0, 8, 64}, light.Origin)
}

func TestFloorSelection(t *testing.T) {
	f := newFixture(t)
	f.brush(t, "floor", mgl64.Vec3{-64, -64, -16}, mgl64.Vec3{64, 64, 0})
	f.brush(t, "ceiling", mgl64.Vec3{-64, -64, 200}, mgl64.Vec3{64, 64, 216})
	f.brush(t, "shelf", mgl64.Vec3{100, 100, 0}, mgl64.Vec3{116, 116, 50})
	light := f.entity(t, "light", mgl64.Vec3{0, 0, 96})

	assert.False(t, f.sys.FloorSelection())
	light.Selectable().SetSelected(true)
	require.True(t, f.sys.FloorSelection())
	assertVec(t, mgl64.Vec3{0, 0, 8}, light.Origin)
	assert.False(t, f.sys.FloorSelection(), "already on the floor")
}

func TestSelectionIndex(t *testing.T) {
	f := newFixture(t)
	f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
	b := f.brush(t, "b", mgl64.Vec3{32, 0, 0}, mgl64.Vec3{48, 16, 16})
	light := f.entity(t, "light", mgl64.Vec3{0, 0, 64})

	_, _, ok := f.sys.SelectionIndex()
	assert.False(t, ok)

	b.Selectable().SetSelected(true)
	e, p, ok := f.sys.SelectionIndex()
	require.True(t, ok)
	assert.Equal(t, 0, e)
	assert.Equal(t, 1, p)

	light.Selectable().SetSelected(true)
	e, p, ok = f.sys.SelectionIndex()
	require.True(t, ok)
	assert.Equal(t, 1, e)
	assert.Equal(t, -1, p)
}

func TestSelectAllOfType(t *testing.T) {
	t.Run("classnames", func(t *testing.T) {
		f := newFixture(t)
		l1 := f.entity(t, "light", mgl64.Vec3{0, 0, 64})
		l2 := f.entity(t, "light", mgl64.Vec3{64, 0, 64})
		speaker := f.entity(t, "speaker", mgl64.Vec3{128, 0, 64})
		l1.Selectable().SetSelected(true)

		assert.Equal(t, 1, f.sys.SelectAllOfType())
		assert.True(t, l2.IsSelected())
		assert.False(t, speaker.IsSelected())
	})

	t.Run("brush shaders", func(t *testing.T) {
		f := newFixture(t)
		a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
		b := f.brush(t, "b", mgl64.Vec3{32, 0, 0}, mgl64.Vec3{48, 16, 16})
		metal := scene.NewBrush(brush.Cuboid(mgl64.Vec3{64, 0, 0}, mgl64.Vec3{80, 16, 16}, "metal"))
		require.NoError(t, f.g.Insert(f.g.Worldspawn().ID, metal))
		a.Selectable().SetSelected(true)

		assert.Equal(t, 1, f.sys.SelectAllOfType())
		assert.True(t, b.IsSelected())
		assert.False(t, metal.IsSelected())
	})

	t.Run("face shaders", func(t *testing.T) {
		f := newFixture(t)
		a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
		metal := scene.NewBrush(brush.Cuboid(mgl64.Vec3{64, 0, 0}, mgl64.Vec3{80, 16, 16}, "metal"))
		require.NoError(t, f.g.Insert(f.g.Worldspawn().ID, metal))
		f.sys.SelectPoint(topView(), dev(0, 0), ModifierReplace, true)
		require.Equal(t, 1, f.sys.CountSelectedComponents())

		assert.Equal(t, 5, f.sys.SelectAllOfType())
		assert.Len(t, a.Brush().SelectedComponents(), 6)
		assert.False(t, metal.Brush().HasSelectedComponents())
	})
}

func TestClipSelected(t *testing.T) {
	tests := []struct {
		name     string
		keepBoth bool
		want     int
	}{
		{name: "keep back", want: 1},
		{name: "keep both", keepBoth: true, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
			a.Selectable().SetSelected(true)

			n := f.sys.ClipSelected(geom.NewPlane(mgl64.Vec3{1, 0, 0}, 0), tt.keepBoth)
			require.Equal(t, tt.want, n)
			assert.Nil(t, f.g.Node(a.ID))

			sel := f.sys.Selected()
			require.Len(t, sel, tt.want)
			assert.Equal(t, "a", sel[0].Name)
			assertVec(t, mgl64.Vec3{-16, -16, 0}, sel[0].WorldAABB().Min())
			assertVec(t, mgl64.Vec3{0, 16, 16}, sel[0].WorldAABB().Max())
			if tt.keepBoth {
				assertVec(t, mgl64.Vec3{16, 16, 16}, sel[1].WorldAABB().Max())
			}
		})
	}
}

func TestClipSelectedMiss(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{-16, -16, 0}, mgl64.Vec3{16, 16, 16})
	a.Selectable().SetSelected(true)

	// The whole brush lies behind the plane and survives unchanged.
	assert.Equal(t, 1, f.sys.ClipSelected(geom.NewPlane(mgl64.Vec3{1, 0, 0}, 100), false))
	assertVec(t, mgl64.Vec3{16, 16, 16}, f.sys.Selected()[0].WorldAABB().Max())
	assert.Zero(t, f.sys.ClipSelected(geom.Plane{}, false))
}

func TestSelectNodes(t *testing.T) {
	f := newFixture(t)
	a := f.brush(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{16, 16, 16})
	b := f.brush(t, "b", mgl64.Vec3{32, 0, 0}, mgl64.Vec3{48, 16, 16})
	c := f.brush(t, "c", mgl64.Vec3{64, 0, 0}, mgl64.Vec3{80, 16, 16})
	c.SetHidden(true)
	a.Selectable().SetSelected(true)
	f.rec.reset()

	n := f.sys.SelectNodes([]scene.NodeID{b.ID, c.ID, 999}, true)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"b"}, selectedNames(f.sys))
	assert.Len(t, f.rec.changes, 1)
}
