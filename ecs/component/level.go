package component

import (
	"github.com/milk9111/jetpawn/collision"
)

// Solid is static level geometry, kept for drawing. Its collision shape
// lives in the collision space.
type Solid struct {
	Bounds collision.Bounds
	Layer  collision.Mask
}

var SolidComponent = NewComponent[Solid]()

type GravityVolume struct {
	Volume collision.Volume
}

var GravityVolumeComponent = NewComponent[GravityVolume]()

// LevelBounds is the playable area; pawns leaving it are respawned.
type LevelBounds struct {
	Bounds collision.Bounds
	Name   string
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
