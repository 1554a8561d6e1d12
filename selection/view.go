package selection

import (
	"gioui.org/f32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Tubbz-alt/DarkRadiant/geom"
	"github.com/Tubbz-alt/DarkRadiant/winding"
)

// View is a viewport camera. Device coordinates run from -1 to 1 on every
// axis with y up and smaller z nearer to the viewer.
type View struct {
	ViewProj mgl64.Mat4
	Width    int // viewport size in pixels
	Height   int
}

// NewView wraps a world to clip space matrix.
func NewView(viewProj mgl64.Mat4, width, height int) View {
	return View{ViewProj: viewProj, Width: width, Height: height}
}

// NewOrthoView returns a 2D view looking down the given world axis: 0 is
// the side view (along -X), 1 the front view (along +Y) and 2 the top view
// (along -Z). The view shows halfWidth by halfHeight world units around
// center.
func NewOrthoView(axis int, center mgl64.Vec3, halfWidth, halfHeight float64, width, height int) View {
	var dir, up mgl64.Vec3
	switch axis {
	case 0:
		dir, up = mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 0, 1}
	case 1:
		dir, up = mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}
	default:
		dir, up = mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}
	}
	view := mgl64.LookAtV(center.Sub(dir), center, up)
	depth := float64(winding.MaxWorldSize)
	proj := mgl64.Ortho(-halfWidth, halfWidth, -halfHeight, halfHeight, -depth, depth)
	return NewView(proj.Mul4(view), width, height)
}

// NewPerspectiveView returns a camera at eye looking at target with the
// vertical field of view fovy in degrees.
func NewPerspectiveView(eye, target, up mgl64.Vec3, fovy float64, width, height int) View {
	aspect := float64(width) / float64(height)
	proj := mgl64.Perspective(mgl64.DegToRad(fovy), aspect, 1, float64(winding.MaxWorldSize))
	return NewView(proj.Mul4(mgl64.LookAtV(eye, target, up)), width, height)
}

// Project maps a world point to device coordinates. ok is false for points
// behind a perspective camera.
func (v View) Project(p mgl64.Vec3) (mgl64.Vec3, bool) {
	c := v.ViewProj.Mul4x1(p.Vec4(1))
	if c[3] <= 0 {
		return mgl64.Vec3{}, false
	}
	return c.Vec3().Mul(1 / c[3]), true
}

func (v View) unproject(x, y, z float64) mgl64.Vec3 {
	c := v.ViewProj.Inv().Mul4x1(mgl64.Vec4{x, y, z, 1})
	return c.Vec3().Mul(1 / c[3])
}

// Ray returns the world ray through a device point, starting on the near
// plane.
func (v View) Ray(p f32.Point) geom.Ray {
	near := v.unproject(float64(p.X), float64(p.Y), -1)
	far := v.unproject(float64(p.X), float64(p.Y), 1)
	return geom.Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// PixelEpsilon is the device size of half a pixel on each side of a point,
// so a test of this size covers one pixel.
func (v View) PixelEpsilon() f32.Point {
	if v.Width <= 0 || v.Height <= 0 {
		return f32.Point{X: 1e-3, Y: 1e-3}
	}
	return f32.Point{X: 1 / float32(v.Width), Y: 1 / float32(v.Height)}
}

// DeviceFromWindow converts a window position in pixels, origin top left,
// to device coordinates.
func (v View) DeviceFromWindow(p f32.Point) f32.Point {
	return f32.Point{
		X: 2*p.X/float32(v.Width) - 1,
		Y: 1 - 2*p.Y/float32(v.Height),
	}
}
