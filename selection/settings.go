package selection

import "gioui.org/f32"

// Settings supplies the tunables of the selection system. They are read
// whenever they are needed, so a settings store may change them at any time.
type Settings interface {
	// PlaneEpsilon is the tolerance of plane side tests when clipping.
	PlaneEpsilon() float64
	// DeviceEpsilon is the half size of a point pick in device units.
	DeviceEpsilon() f32.Point
	// CycleTolerance is the device distance within which a click counts as
	// repeated at the same location.
	CycleTolerance() float64
	// ManipulatorSize is the length of the manipulator handles in world units.
	ManipulatorSize() float64
	// GridSize is the snapping grid.
	GridSize() float64
}

// DefaultSettings are used when no settings store is configured.
type DefaultSettings struct{}

func (DefaultSettings) PlaneEpsilon() float64    { return 0.1 }
func (DefaultSettings) DeviceEpsilon() f32.Point { return f32.Point{X: 0.02, Y: 0.02} }
func (DefaultSettings) CycleTolerance() float64  { return 0.001 }
func (DefaultSettings) ManipulatorSize() float64 { return 64 }
func (DefaultSettings) GridSize() float64        { return 8 }
