package component

import "github.com/go-gl/mathgl/mgl64"

type Camera struct {
	// TargetName is "player" or empty to follow the first CameraTarget.
	TargetName string
	// Zoom is screen pixels per world unit.
	Zoom float64
	// Smoothness is the follow rate per second; zero snaps to the target.
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()

// CameraTarget marks an entity the camera may follow.
type CameraTarget struct {
	Offset mgl64.Vec3
}

var CameraTargetComponent = NewComponent[CameraTarget]()
