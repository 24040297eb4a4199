package collision

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Axis indexes a component of a vector.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Side names a face of the hull box.
type Side uint8

const (
	SideNone Side = iota
	SideBottom
	SideTop
	SideLeft
	SideRight
)

// SideFor returns the face that leads when moving along axis with the given sign.
func SideFor(axis Axis, sign float64) Side {
	switch {
	case sign == 0:
		return SideNone
	case axis == AxisY && sign < 0:
		return SideBottom
	case axis == AxisY:
		return SideTop
	case sign < 0:
		return SideLeft
	}
	return SideRight
}

func (s Side) Axis() Axis {
	if s == SideLeft || s == SideRight {
		return AxisX
	}
	return AxisY
}

// Sign is the direction of travel that leads with this face.
func (s Side) Sign() float64 {
	switch s {
	case SideBottom, SideLeft:
		return -1
	case SideTop, SideRight:
		return 1
	}
	return 0
}

func (s Side) String() string {
	switch s {
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "none"
}

// Result is the outcome of a single Hull.Move call.
type Result struct {
	// Distance is the displacement to apply. Each axis is at most as long as
	// requested and never changes sign.
	Distance mgl64.Vec3

	HitTop    bool
	HitBottom bool
	HitLeft   bool
	HitRight  bool

	// Shrunk is the live collider box shrunk by 2*skin, used to place feelers.
	Shrunk Bounds
}

func newResult(delta mgl64.Vec3, live Bounds, skin float64) Result {
	return Result{
		Distance: delta,
		Shrunk:   live.Expand(-2 * skin),
	}
}

// Hit reports whether the given face was blocked.
func (r Result) Hit(side Side) bool {
	switch side {
	case SideBottom:
		return r.HitBottom
	case SideTop:
		return r.HitTop
	case SideLeft:
		return r.HitLeft
	case SideRight:
		return r.HitRight
	}
	return false
}

// Blocked reports whether any face was blocked.
func (r Result) Blocked() bool {
	return r.HitTop || r.HitBottom || r.HitLeft || r.HitRight
}

// Sides lists the blocked faces.
func (r Result) Sides() []Side {
	var sides []Side
	for _, s := range []Side{SideBottom, SideTop, SideLeft, SideRight} {
		if r.Hit(s) {
			sides = append(sides, s)
		}
	}
	return sides
}

// origins places three feelers on the leading edge of the probe box for a
// sweep along axis: at the min, center and max of the perpendicular axis.
// Horizontal feelers start from the box already moved by the resolved
// vertical distance.
func (r Result) origins(axis Axis) [3]mgl64.Vec3 {
	box := r.Shrunk
	if axis == AxisX {
		box = box.Translate(mgl64.Vec3{0, r.Distance.Y(), 0})
	}
	lo, hi := box.Min(), box.Max()

	lead := box.Center[axis]
	if d := r.Distance[axis]; d < 0 {
		lead = lo[axis]
	} else if d > 0 {
		lead = hi[axis]
	}

	across := AxisY
	if axis == AxisY {
		across = AxisX
	}

	var out [3]mgl64.Vec3
	for i, v := range [3]float64{lo[across], box.Center[across], hi[across]} {
		p := box.Center
		p[axis] = lead
		p[across] = v
		out[i] = p
	}
	return out
}

// limit shortens the travel along axis to length and flags the leading face.
func (r Result) limit(axis Axis, length float64) Result {
	d := r.Distance[axis]
	if d == 0 {
		return r
	}
	sign := 1.0
	if d < 0 {
		sign = -1
	}
	r.Distance[axis] = sign * length

	switch SideFor(axis, sign) {
	case SideBottom:
		r.HitBottom = true
	case SideTop:
		r.HitTop = true
	case SideLeft:
		r.HitLeft = true
	case SideRight:
		r.HitRight = true
	}
	return r
}
