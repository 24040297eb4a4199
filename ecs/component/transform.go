package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's world position. World space is y-up.
type Transform struct {
	Position mgl64.Vec3
}

func (t *Transform) X() float64 { return t.Position.X() }
func (t *Transform) Y() float64 { return t.Position.Y() }

var TransformComponent = NewComponent[Transform]()
