package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
)

const defaultZoom = 32.0

// Viewport maps between y-up world space and y-down screen pixels. Center is
// the world point drawn at the middle of the screen.
type Viewport struct {
	Center mgl64.Vec3
	Zoom   float64
	Width  int
	Height int
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return defaultZoom
	}
	return v.Zoom
}

func (v Viewport) WorldToScreen(p mgl64.Vec3) (float64, float64) {
	z := v.zoom()
	x := (p.X()-v.Center.X())*z + float64(v.Width)/2
	y := float64(v.Height)/2 - (p.Y()-v.Center.Y())*z
	return x, y
}

func (v Viewport) ScreenToWorld(sx, sy float64) mgl64.Vec3 {
	z := v.zoom()
	return mgl64.Vec3{
		(sx-float64(v.Width)/2)/z + v.Center.X(),
		(float64(v.Height)/2-sy)/z + v.Center.Y(),
		0,
	}
}

// CameraViewport builds the viewport of the first camera in w.
func CameraViewport(w *ecs.World, width, height int) Viewport {
	v := Viewport{Zoom: defaultZoom, Width: width, Height: height}
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return v
	}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok && cam.Zoom > 0 {
		v.Zoom = cam.Zoom
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		v.Center = t.Position
	}
	return v
}
