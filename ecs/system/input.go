package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
)

const (
	stickDeadzone = 0.2
	// stickReach is how far from the pawn the right stick aims the jetpack.
	stickReach = 4.0
)

// deviceState is one frame of raw device input. Cursor is in screen pixels;
// Aim is a right stick direction used instead of the cursor when set.
type deviceState struct {
	MoveX       float64
	Jump        bool
	JumpPressed bool
	Thrust      bool
	PickPressed bool
	Respawn     bool
	CursorX     float64
	CursorY     float64
	Aim         mgl64.Vec3
	UseAim      bool
}

type InputSystem struct {
	width   int
	height  int
	read    func() deviceState
	respawn bool
}

// NewInputSystem reads keyboard, mouse and the first gamepad. width and
// height are the logical screen size used to project the cursor.
func NewInputSystem(width, height int) *InputSystem {
	return &InputSystem{width: width, height: height, read: readDevices}
}

func (i *InputSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	state := i.read()
	state.Respawn = state.Respawn || i.respawn
	i.respawn = false
	i.apply(w, state)
}

// RequestRespawn asks for a respawn on the next step, e.g. from a menu.
func (i *InputSystem) RequestRespawn() {
	i.respawn = true
}

func (i *InputSystem) apply(w *ecs.World, state deviceState) {
	view := CameraViewport(w, i.width, i.height)
	cursor := view.ScreenToWorld(state.CursorX, state.CursorY)

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.MoveX = state.MoveX
		input.Jump = state.Jump
		input.JumpPressed = state.JumpPressed
		input.Thrust = state.Thrust
		input.PickPressed = state.PickPressed
		input.Respawn = state.Respawn
		input.Target = cursor

		if state.UseAim {
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				input.Target = t.Position.Add(state.Aim.Mul(stickReach))
			}
		}
	})
}

func readDevices() deviceState {
	var s deviceState

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		s.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		s.MoveX += 1
	}
	s.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	s.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	s.Thrust = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	s.PickPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	cx, cy := ebiten.CursorPosition()
	s.CursorX, s.CursorY = float64(cx), float64(cy)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			s.MoveX = leftX
		}

		s.Jump = s.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		s.JumpPressed = s.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		s.Thrust = s.Thrust || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		s.PickPressed = s.PickPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			// stick y is down-positive
			s.Aim = mgl64.Vec3{rx, -ry, 0}
			s.UseAim = true
		}
	}
	return s
}
