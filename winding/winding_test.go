package winding

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tubbz-alt/DarkRadiant/geom"
)

// square returns a 10x10 square on z=0 facing +Z.
func square() Winding {
	return Winding{
		{-5, -5, 0},
		{5, -5, 0},
		{5, 5, 0},
		{-5, 5, 0},
	}
}

func contains(w Winding, p mgl64.Vec3) bool {
	for _, q := range w {
		if q.ApproxEqualThreshold(p, 1e-9) {
			return true
		}
	}
	return false
}

func TestSetFromPlane(t *testing.T) {
	planes := []geom.Plane{
		geom.NewPlane(mgl64.Vec3{0, 0, 1}, 16),
		geom.NewPlane(mgl64.Vec3{1, 0, 0}, -32),
		geom.NewPlane(mgl64.Vec3{1, 1, 1}, 5),
		geom.NewPlane(mgl64.Vec3{0, -1, 0.001}, 0),
	}

	for _, p := range planes {
		w := FromPlane(p)
		require.Len(t, w, 4)
		for _, pt := range w {
			assert.InDelta(t, 0, p.DistanceTo(pt), 1e-6, "point %v off plane %v", pt, p)
		}
		assert.True(t, w.IsHuge())
		assert.InDelta(t, 1, w.Plane().Normal.Dot(p.Normal), 1e-9, "quad must face the plane normal")
		assert.Equal(t, On, w.PlaneSide(p, OnEpsilon))
	}
}

func TestPlaneSide(t *testing.T) {
	w := square()

	testCases := []struct {
		Name  string
		Plane geom.Plane
		Want  Side
	}{
		{"coplanar", geom.NewPlane(mgl64.Vec3{0, 0, 1}, 0), On},
		{"below plane", geom.NewPlane(mgl64.Vec3{0, 0, 1}, 10), Back},
		{"above plane", geom.NewPlane(mgl64.Vec3{0, 0, 1}, -10), Front},
		{"cutting", geom.NewPlane(mgl64.Vec3{1, 0, 0}, 0), Cross},
		{"touching edge from front", geom.NewPlane(mgl64.Vec3{1, 0, 0}, -5), Front},
		{"touching edge from back", geom.NewPlane(mgl64.Vec3{1, 0, 0}, 5), Back},
		{"within epsilon", geom.NewPlane(mgl64.Vec3{0, 0, 1}, 0.05), On},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			first := w.PlaneSide(tc.Plane, OnEpsilon)
			assert.Equal(t, tc.Want, first)
			assert.Equal(t, first, w.PlaneSide(tc.Plane, OnEpsilon))
		})
	}
}

func TestClipFrontIsNoop(t *testing.T) {
	w := square()
	w.Clip(geom.NewPlane(mgl64.Vec3{1, 0, 0}, -10), OnEpsilon)
	assert.Equal(t, square(), w)

	// Points on the plane count as front.
	w.Clip(geom.NewPlane(mgl64.Vec3{1, 0, 0}, -5), OnEpsilon)
	assert.Equal(t, square(), w)
}

func TestClipHalf(t *testing.T) {
	w := square()
	w.Clip(geom.NewPlane(mgl64.Vec3{1, 0, 0}, 0), OnEpsilon)

	require.Len(t, w, 4)
	assert.InDelta(t, 50, w.Area(), 1e-9)
	for _, p := range w {
		assert.GreaterOrEqual(t, p.X(), 0.0)
	}
	assert.True(t, contains(w, mgl64.Vec3{0, -5, 0}))
	assert.True(t, contains(w, mgl64.Vec3{0, 5, 0}))
}

func TestClipAway(t *testing.T) {
	w := square()
	w.Clip(geom.NewPlane(mgl64.Vec3{1, 0, 0}, 10), OnEpsilon)
	assert.True(t, w.IsEmpty())
	assert.Nil(t, w)
}

func TestClipCorner(t *testing.T) {
	w := square()
	// Keep only the triangle around the (5,5) corner.
	w.Clip(geom.NewPlane(mgl64.Vec3{1, 1, 0}, 5), OnEpsilon)
	require.Len(t, w, 3)
	assert.InDelta(t, 12.5, w.Area(), 1e-6)
}

func TestSplitCross(t *testing.T) {
	w := square()
	orig := w.Clone()
	front, back, side := w.Split(geom.NewPlane(mgl64.Vec3{0, 1, 0}, 1), OnEpsilon)

	assert.Equal(t, Cross, side)
	assert.Equal(t, orig, w, "split must not alter the source")
	require.False(t, front.IsEmpty())
	require.False(t, back.IsEmpty())
	assert.InDelta(t, w.Area(), front.Area()+back.Area(), 1e-9)

	// Every original vertex ends up in exactly one half, and the only
	// additions are the two crossing points shared by both halves.
	for _, p := range w {
		assert.True(t, contains(front, p) != contains(back, p), "vertex %v", p)
	}
	var shared []mgl64.Vec3
	for _, p := range front {
		if contains(back, p) {
			shared = append(shared, p)
		}
	}
	require.Len(t, shared, 2)
	for _, p := range shared {
		assert.InDelta(t, 1, p.Y(), 1e-9)
	}
}

func TestSplitRecombines(t *testing.T) {
	w := Winding{{0, 0, 0}, {8, 0, 0}, {10, 6, 0}, {3, 9, 0}, {-2, 4, 0}}
	planes := []geom.Plane{
		geom.NewPlane(mgl64.Vec3{1, 0, 0}, 3),
		geom.NewPlane(mgl64.Vec3{1, 2, 0}, 7),
		geom.NewPlane(mgl64.Vec3{-1, 1, 0}, 0),
		geom.NewPlane(mgl64.Vec3{0, 1, 0}, 0), // passes through two vertices
	}

	for _, p := range planes {
		front, back, _ := w.Split(p, OnEpsilon)
		for _, v := range w {
			assert.True(t, contains(front, v) || contains(back, v), "vertex %v lost by %v", v, p)
		}
		for _, v := range append(front.Clone(), back...) {
			if contains(w, v) {
				continue
			}
			assert.InDelta(t, 0, p.DistanceTo(v), 1e-9, "invented point %v", v)
		}
	}
}

func TestSplitOneSided(t *testing.T) {
	w := square()

	front, back, side := w.Split(geom.NewPlane(mgl64.Vec3{0, 0, 1}, -1), OnEpsilon)
	assert.Equal(t, Front, side)
	assert.Equal(t, w, front)
	assert.True(t, back.IsEmpty())

	front, back, side = w.Split(geom.NewPlane(mgl64.Vec3{1, 0, 0}, 5), OnEpsilon)
	assert.Equal(t, Back, side)
	assert.True(t, front.IsEmpty())
	assert.Equal(t, w, back)
}

func TestSplitCoplanar(t *testing.T) {
	w := square()

	front, back, side := w.Split(geom.NewPlane(mgl64.Vec3{0, 0, 1}, 0), OnEpsilon)
	assert.Equal(t, On, side)
	assert.Equal(t, w, front)
	assert.Nil(t, back)

	front, back, side = w.Split(geom.NewPlane(mgl64.Vec3{0, 0, -1}, 0), OnEpsilon)
	assert.Equal(t, On, side)
	assert.Nil(t, front)
	assert.Equal(t, w, back)
}

func TestTinyAndHuge(t *testing.T) {
	assert.False(t, square().IsTiny())
	assert.False(t, square().IsHuge())

	sliver := Winding{{0, 0, 0}, {10, 0, 0}, {10, 0.05, 0}, {0, 0.05, 0}}
	assert.True(t, sliver.IsTiny())

	far := Winding{{MaxWorldCoord, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	assert.True(t, far.IsHuge())
}

func TestAreaAndCenter(t *testing.T) {
	w := square()
	assert.InDelta(t, 100, w.Area(), 1e-9)
	assert.True(t, w.Center().ApproxEqual(mgl64.Vec3{}))

	tri := Winding{{0, 0, 0}, {4, 0, 0}, {0, 3, 0}}
	assert.InDelta(t, 6, tri.Area(), 1e-9)

	pl := tri.Plane()
	assert.True(t, pl.Normal.ApproxEqual(mgl64.Vec3{0, 0, 1}))
	assert.True(t, tri.Reverse().Plane().Normal.ApproxEqual(mgl64.Vec3{0, 0, -1}))
}

func TestEmptyWinding(t *testing.T) {
	var w Winding
	assert.True(t, w.IsEmpty())
	assert.Equal(t, On, w.PlaneSide(geom.NewPlane(mgl64.Vec3{0, 0, 1}, 0), OnEpsilon))
	w.Clip(geom.NewPlane(mgl64.Vec3{0, 0, 1}, 0), OnEpsilon)
	assert.True(t, w.IsEmpty())
	assert.Equal(t, geom.Plane{}, w.Plane())
}
