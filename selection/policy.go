package selection

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// AreaPolicy decides which objects a rectangle selects.
type AreaPolicy int

const (
	// PolicyIntersect selects objects whose geometry intersects the
	// rectangle's volume.
	PolicyIntersect AreaPolicy = iota
	// PolicyTouching selects objects whose device bounds overlap the
	// rectangle. Bounds that only share an edge with it do not count.
	PolicyTouching
	// PolicyInside selects objects whose device bounds lie within the
	// rectangle and the depth range, edges included.
	PolicyInside
	// PolicyCompleteTall is PolicyInside ignoring depth.
	PolicyCompleteTall
)

func (p AreaPolicy) String() string {
	switch p {
	case PolicyIntersect:
		return "intersect"
	case PolicyTouching:
		return "touching"
	case PolicyInside:
		return "inside"
	case PolicyCompleteTall:
		return "complete-tall"
	}
	return fmt.Sprintf("AreaPolicy(%d)", int(p))
}

// ParseAreaPolicy reads a policy name.
func ParseAreaPolicy(s string) (AreaPolicy, error) {
	for p := PolicyIntersect; p <= PolicyCompleteTall; p++ {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown area policy %q", s)
}

// accepts applies a bounds policy to the world points of a candidate.
// PolicyIntersect is not a bounds policy and is handled by the caller.
func (p AreaPolicy) accepts(t *Test, points []mgl64.Vec3) bool {
	min, max, ok := t.deviceBounds(points)
	if !ok {
		return false
	}
	rmin, rmax := t.Rect()
	x0, y0 := float64(rmin.X), float64(rmin.Y)
	x1, y1 := float64(rmax.X), float64(rmax.Y)

	switch p {
	case PolicyTouching:
		return min[0] < x1 && max[0] > x0 &&
			min[1] < y1 && max[1] > y0 &&
			min[2] < 1 && max[2] > -1
	case PolicyInside:
		return min[0] >= x0 && max[0] <= x1 &&
			min[1] >= y0 && max[1] <= y1 &&
			min[2] >= -1 && max[2] <= 1
	case PolicyCompleteTall:
		return min[0] >= x0 && max[0] <= x1 &&
			min[1] >= y0 && max[1] <= y1
	}
	return false
}
