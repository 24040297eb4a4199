package motion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
)

// Field is the gravity a pawn feels: a direction and a multiplier applied to
// the gravity strength derived from the jump tunables.
type Field struct {
	Direction mgl64.Vec3
	Scale     float64
}

// DefaultField pulls straight down at full strength.
func DefaultField() Field {
	return Field{Direction: mgl64.Vec3{0, -1, 0}, Scale: 1}
}

// FieldsFromVolumes converts overlapping gravity volumes, keeping their order.
func FieldsFromVolumes(volumes []collision.Volume) []Field {
	if len(volumes) == 0 {
		return nil
	}
	fields := make([]Field, len(volumes))
	for i, v := range volumes {
		fields[i] = Field{Direction: v.Direction, Scale: v.Scale}
	}
	return fields
}

// resolveField picks the first usable field, falling back to the default.
func resolveField(fields []Field) Field {
	for _, f := range fields {
		d := f.Direction
		d[2] = 0
		if !common.IsFinite(d[0], d[1], f.Scale) {
			continue
		}
		l := d.Len()
		if l <= common.Epsilon {
			continue
		}
		return Field{Direction: d.Mul(1 / l), Scale: f.Scale}
	}
	return DefaultField()
}
