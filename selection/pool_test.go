package selection

import (
	"testing"

	"gioui.org/f32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/scene"
)

func TestPool(t *testing.T) {
	box := func(min, max float64) geom.AABB {
		return geom.AABBFromMinMax(mgl64.Vec3{min, min, min}, mgl64.Vec3{max, max, max})
	}
	p := NewPool()
	assert.Equal(t, defaultWorkZone, p.WorkZone())
	_, ok := p.Ultimate()
	assert.False(t, ok)

	p.onSelectedChanged(1, true, box(0, 1))
	p.onSelectedChanged(2, true, box(2, 3))
	p.onSelectedChanged(1, true, box(0, 1))
	p.onSelectedChanged(3, true, geom.EmptyAABB())
	assert.Equal(t, []scene.NodeID{1, 2, 3}, p.IDs())
	assert.True(t, p.Contains(2))

	u, _ := p.Ultimate()
	pu, _ := p.Penultimate()
	assert.Equal(t, scene.NodeID(3), u)
	assert.Equal(t, scene.NodeID(2), pu)

	p.onSelectedChanged(2, false, box(2, 3))
	p.onSelectedChanged(7, false, box(2, 3))
	assert.Equal(t, []scene.NodeID{1, 3}, p.IDs())
	assert.Equal(t, box(0, 3), p.WorkZone(), "invalid bounds leave the zone alone")

	var visited []scene.NodeID
	p.Foreach(func(id scene.NodeID) {
		visited = append(visited, id)
		p.onSelectedChanged(id, false, geom.AABB{})
	})
	assert.Equal(t, []scene.NodeID{1, 3}, visited)
	assert.Zero(t, p.Count())
	assert.Equal(t, box(0, 3), p.WorkZone())

	p.ResetWorkZone()
	assert.Equal(t, box(0, 3), p.WorkZone())
	p.onSelectedChanged(4, true, box(5, 6))
	assert.Equal(t, box(5, 6), p.WorkZone())
}

func TestOrthoViewProjection(t *testing.T) {
	tests := []struct {
		name  string
		axis  int
		point mgl64.Vec3
		want  mgl64.Vec2
	}{
		{name: "top", axis: 2, point: mgl64.Vec3{64, 32, 5}, want: mgl64.Vec2{0.5, 0.25}},
		{name: "front", axis: 1, point: mgl64.Vec3{64, 5, 32}, want: mgl64.Vec2{0.5, 0.25}},
		{name: "side", axis: 0, point: mgl64.Vec3{5, 64, 32}, want: mgl64.Vec2{0.5, 0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewOrthoView(tt.axis, mgl64.Vec3{}, 128, 128, 256, 256)
			d, ok := v.Project(tt.point)
			assert.True(t, ok)
			assert.InDelta(t, tt.want[0], d[0], 1e-9)
			assert.InDelta(t, tt.want[1], d[1], 1e-9)
		})
	}
}

func TestDeviceFromWindow(t *testing.T) {
	v := topView()
	d := v.DeviceFromWindow(f32.Point{X: 256, Y: 256})
	assert.InDelta(t, 1, d.X, 1e-6)
	assert.InDelta(t, -1, d.Y, 1e-6)
	d = v.DeviceFromWindow(f32.Point{X: 128, Y: 64})
	assert.InDelta(t, 0, d.X, 1e-6)
	assert.InDelta(t, 0.5, d.Y, 1e-6)
}

func TestTestVolume(t *testing.T) {
	v := topView()
	tt := NewAreaTest(v, dev(-8, -8), dev(8, 8))

	_, ok := tt.Point(mgl64.Vec3{0, 0, 1000})
	assert.True(t, ok, "depth is unbounded in a 2D view")
	_, ok = tt.Point(mgl64.Vec3{9, 0, 0})
	assert.False(t, ok)

	near, ok := tt.AABB(geom.AABBFromMinMax(mgl64.Vec3{-4, -4, 10}, mgl64.Vec3{4, 4, 20}))
	assert.True(t, ok)
	far, ok := tt.AABB(geom.AABBFromMinMax(mgl64.Vec3{-4, -4, 0}, mgl64.Vec3{4, 4, 5}))
	assert.True(t, ok)
	assert.Less(t, near, far)

	_, ok = tt.AABB(geom.AABB{Origin: mgl64.Vec3{1, 1, 1}})
	assert.True(t, ok, "point boxes are still tested")
	_, ok = tt.AABB(geom.EmptyAABB())
	assert.False(t, ok)

	_, ok = tt.Segment(mgl64.Vec3{-100, 0, 0}, mgl64.Vec3{100, 0, 0})
	assert.True(t, ok)
	_, ok = tt.Segment(mgl64.Vec3{-100, 50, 0}, mgl64.Vec3{100, 50, 0})
	assert.False(t, ok)
}
