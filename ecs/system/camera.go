package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update moves the camera toward its target. With zero smoothness the camera
// sits exactly on the target.
func (cs *CameraSystem) Update(w *ecs.World, dt float64) {
	if !ecs.IsAlive(w, cs.camEntity) {
		camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
		cs.targetEntity = 0
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	if !ecs.IsAlive(w, cs.targetEntity) {
		cs.targetEntity = findTarget(w, cam.TargetName)
	}

	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	goal, ok := targetPosition(w, cs.targetEntity)
	if !ok {
		return
	}

	if cam.Smoothness <= 0 || dt <= 0 {
		camTransform.Position = goal
		return
	}
	t := 1 - math.Exp(-cam.Smoothness*dt)
	camTransform.Position = camTransform.Position.Add(goal.Sub(camTransform.Position).Mul(t))
}

func findTarget(w *ecs.World, name string) ecs.Entity {
	if name == "player" {
		if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	if e, ok := ecs.First(w, component.CameraTargetComponent.Kind()); ok {
		return e
	}
	return 0
}

func targetPosition(w *ecs.World, e ecs.Entity) (mgl64.Vec3, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, false
	}
	pos := t.Position
	if target, ok := ecs.Get(w, e, component.CameraTargetComponent.Kind()); ok {
		pos = pos.Add(target.Offset)
	}
	return pos, true
}
