package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// vec formats a vector for zap.Stringer fields.
type vec struct {
	v mgl64.Vec3
}

func (v vec) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.v.X(), v.v.Y())
}
