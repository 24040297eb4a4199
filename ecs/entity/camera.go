package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/prefabs"
)

// BuildCamera creates a camera following the player, starting at start.
func BuildCamera(w *ecs.World, spec prefabs.CameraSpec, start mgl64.Vec3) (ecs.Entity, error) {
	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = prefabs.DefaultPawnSpec().Camera.Zoom
	}

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), &component.Transform{Position: start}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		TargetName: "player",
		Zoom:       zoom,
		Smoothness: spec.Smoothness,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera: %w", err)
	}
	return camera, nil
}
