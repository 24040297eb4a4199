package collision

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/jetpawn/common"
)

// Bounds is an axis-aligned box in world space (y-up).
type Bounds struct {
	Center  mgl64.Vec3
	Extents mgl64.Vec3
}

// NewBounds builds a box from its center and full size.
func NewBounds(center, size mgl64.Vec3) Bounds {
	return Bounds{Center: center, Extents: size.Mul(0.5)}
}

func BoundsFromMinMax(min, max mgl64.Vec3) Bounds {
	return Bounds{Center: min.Add(max).Mul(0.5), Extents: max.Sub(min).Mul(0.5)}
}

func (b Bounds) Min() mgl64.Vec3 {
	return b.Center.Sub(b.Extents)
}

func (b Bounds) Max() mgl64.Vec3 {
	return b.Center.Add(b.Extents)
}

func (b Bounds) Size() mgl64.Vec3 {
	return b.Extents.Mul(2)
}

// Expand grows the size of the box by amount on the x and y axes. A negative
// amount shrinks it. z is left alone since sweeps are planar.
func (b Bounds) Expand(amount float64) Bounds {
	half := amount / 2
	b.Extents[0] += half
	b.Extents[1] += half
	return b
}

func (b Bounds) Translate(d mgl64.Vec3) Bounds {
	b.Center = b.Center.Add(d)
	return b
}

// Overlaps reports whether the two boxes intersect in the x/y plane. Touching
// edges count as overlapping.
func (b Bounds) Overlaps(o Bounds) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := o.Min(), o.Max()
	return bMin.X() <= oMax.X() && bMax.X() >= oMin.X() &&
		bMin.Y() <= oMax.Y() && bMax.Y() >= oMin.Y()
}

// Contains reports whether p lies strictly inside the box in the x/y plane.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	bMin, bMax := b.Min(), b.Max()
	return p.X() > bMin.X() && p.X() < bMax.X() && p.Y() > bMin.Y() && p.Y() < bMax.Y()
}

// Validate checks min <= max on every axis and that all values are finite.
func (b Bounds) Validate() error {
	if !common.IsFinite(b.Center[0], b.Center[1], b.Center[2], b.Extents[0], b.Extents[1], b.Extents[2]) {
		return &common.ConfigError{Field: "bounds", Value: b, Reason: "non-finite"}
	}
	for i, e := range b.Extents {
		if e < 0 {
			return &common.ConfigError{Field: "bounds", Value: b, Reason: fmt.Sprintf("min > max on axis %d", i)}
		}
	}
	return nil
}

// MinHalfExtent is the smaller of the x and y half extents.
func (b Bounds) MinHalfExtent() float64 {
	return math.Min(b.Extents.X(), b.Extents.Y())
}

// BB converts the box to a Chipmunk bounding box.
func (b Bounds) BB() cp.BB {
	min, max := b.Min(), b.Max()
	return cp.BB{L: min.X(), B: min.Y(), R: max.X(), T: max.Y()}
}

func (b Bounds) String() string {
	min, max := b.Min(), b.Max()
	return fmt.Sprintf("[(%.3f, %.3f) - (%.3f, %.3f)]", min.X(), min.Y(), max.X(), max.Y())
}
