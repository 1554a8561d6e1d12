package geom

import "github.com/go-gl/mathgl/mgl64"

// Frustum holds six planes whose normals point inwards:
// left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the clip planes of a world-to-clip matrix
// (Gribb/Hartmann). mgl64 matrices are column-major, so row i of the clip
// transform is (m.At(i,0), m.At(i,1), m.At(i,2), m.At(i,3)).
func FrustumFromMatrix(m mgl64.Mat4) Frustum {
	row := func(i int) mgl64.Vec4 {
		return mgl64.Vec4{m.At(i, 0), m.At(i, 1), m.At(i, 2), m.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.Planes[0] = planeFromVec4(r3.Add(r0))
	f.Planes[1] = planeFromVec4(r3.Sub(r0))
	f.Planes[2] = planeFromVec4(r3.Add(r1))
	f.Planes[3] = planeFromVec4(r3.Sub(r1))
	f.Planes[4] = planeFromVec4(r3.Add(r2))
	f.Planes[5] = planeFromVec4(r3.Sub(r2))
	return f
}

// planeFromVec4 turns a·x + b·y + c·z + d >= 0 into a Plane.
func planeFromVec4(v mgl64.Vec4) Plane {
	return NewPlane(mgl64.Vec3{v[0], v[1], v[2]}, -v[3])
}

// ContainsPoint reports whether p is inside every plane.
func (f Frustum) ContainsPoint(p mgl64.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.DistanceTo(p) < 0 {
			return false
		}
	}
	return true
}

// ClipSegment clips the segment a-b to the frustum and returns the
// surviving parameter range.
func (f Frustum) ClipSegment(a, b mgl64.Vec3) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	for _, pl := range f.Planes {
		da := pl.DistanceTo(a)
		db := pl.DistanceTo(b)
		if da < 0 && db < 0 {
			return 0, 0, false
		}
		if da < 0 {
			t0 = max(t0, da/(da-db))
		} else if db < 0 {
			t1 = min(t1, da/(da-db))
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}
