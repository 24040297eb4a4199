package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/motion"
)

// Input stores per-frame input state for an entity.
type Input struct {
	MoveX       float64
	Jump        bool
	JumpPressed bool
	Thrust      bool
	// Target is the jetpack aim point in world space.
	Target mgl64.Vec3
	// PickPressed fires a surface pick toward Target.
	PickPressed bool
	// Respawn puts the pawn back at its spawn point before this step's move.
	Respawn bool
}

// Motion is the controller's view of this frame's input.
func (in Input) Motion() motion.Input {
	return motion.Input{
		MoveX:       in.MoveX,
		JumpPressed: in.JumpPressed,
		Thrust:      in.Thrust,
		Target:      in.Target,
	}
}

var InputComponent = NewComponent[Input]()
