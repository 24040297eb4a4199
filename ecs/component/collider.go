package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
)

// BoxCollider is an axis-aligned box centred on the transform plus Offset.
type BoxCollider struct {
	Size   mgl64.Vec3
	Offset mgl64.Vec3
}

var BoxColliderComponent = NewComponent[BoxCollider]()

// ColliderBody binds a transform and its box collider so the collision hull
// and motion controller can read and move them in place.
type ColliderBody struct {
	Transform *Transform
	Collider  *BoxCollider
}

func (b ColliderBody) Position() mgl64.Vec3 {
	return b.Transform.Position
}

func (b ColliderBody) SetPosition(p mgl64.Vec3) {
	b.Transform.Position = p
}

func (b ColliderBody) Bounds() collision.Bounds {
	return collision.NewBounds(b.Transform.Position.Add(b.Collider.Offset), b.Collider.Size)
}
