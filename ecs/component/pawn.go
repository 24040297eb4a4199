package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/motion"
)

// Pawn is a player-driven body moved by a motion controller through its
// collision hull.
type Pawn struct {
	Controller *motion.Controller
	Hull       *collision.Hull
	// Spawn is where the pawn is put back after leaving the level.
	Spawn mgl64.Vec3
	// Prefab names the tunables file the controller was built from.
	Prefab string
}

var PawnComponent = NewComponent[Pawn]()
