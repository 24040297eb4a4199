package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"go.uber.org/zap"
)

// pilotDispatchScript is appended to every pilot script. The script must
// define update(pawn, ctl, state).
const pilotDispatchScript = `
update(__pawn, __ctl, __state)
`

// PilotSystem drives player pawns from a tengo script in place of the
// InputSystem. Each step the script sees the pawn's state and steers it
// through ctl.move, ctl.jump and ctl.thrust. state persists across steps.
type PilotSystem struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	frame    int64
	failed   bool
	respawn  bool
	log      *zap.Logger
}

func NewPilotSystem(name string, src []byte, logger *zap.Logger) (*PilotSystem, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + pilotDispatchScript))
	_ = script.Add("__pawn", map[string]any{})
	_ = script.Add("__ctl", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("pilot %s: %w", name, err)
	}
	if !compiled.IsDefined("update") {
		return nil, fmt.Errorf("pilot %s: script does not define update", name)
	}
	return &PilotSystem{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		log:      common.OrNop(logger),
	}, nil
}

// RequestRespawn asks for a respawn on the next step.
func (p *PilotSystem) RequestRespawn() {
	p.respawn = true
}

// Failed reports whether the script has errored and the pilot stopped.
func (p *PilotSystem) Failed() bool {
	return p.failed
}

func (p *PilotSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	respawn := p.respawn
	p.respawn = false
	if p.failed {
		// the pawn is released, but menu respawns still reach it
		ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), func(_ ecs.Entity, _ *component.PlayerTag, input *component.Input) {
			input.Respawn = respawn
		})
		return
	}
	ecs.ForEach3(w, component.PlayerTagComponent.Kind(), component.PawnComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, pawn *component.Pawn, input *component.Input) {
		*input = component.Input{}
		if p.failed || pawn.Controller == nil {
			return
		}
		if err := p.run(pawnObject(pawn, dt, p.frame), controlObject(input)); err != nil {
			p.failed = true
			*input = component.Input{}
			p.log.Error("pilot script failed, pawn released",
				zap.String("pilot", p.name),
				zap.Stringer("entity", e),
				zap.Int64("frame", p.frame),
				zap.Error(err),
			)
		}
		input.Respawn = respawn
	})
	p.frame++
}

func (p *PilotSystem) run(pawn, ctl *tengo.ImmutableMap) error {
	if err := p.compiled.Set("__pawn", pawn); err != nil {
		return err
	}
	if err := p.compiled.Set("__ctl", ctl); err != nil {
		return err
	}
	if err := p.compiled.Set("__state", p.state); err != nil {
		return err
	}
	return p.compiled.Run()
}

func pawnObject(pawn *component.Pawn, dt float64, frame int64) *tengo.ImmutableMap {
	s := pawn.Controller.Snapshot()
	last := pawn.Controller.LastResult()
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"x":             &tengo.Float{Value: s.Position.X()},
		"y":             &tengo.Float{Value: s.Position.Y()},
		"vx":            &tengo.Float{Value: s.Velocity.X()},
		"vy":            &tengo.Float{Value: s.Velocity.Y()},
		"charge":        &tengo.Float{Value: s.Charge},
		"grounded":      boolObject(s.Grounded),
		"blocked_left":  boolObject(last.Hit(collision.SideLeft)),
		"blocked_right": boolObject(last.Hit(collision.SideRight)),
		"blocked_up":    boolObject(last.Hit(collision.SideTop)),
		"blocked_down":  boolObject(last.Hit(collision.SideBottom)),
		"dt":            &tengo.Float{Value: dt},
		"frame":         &tengo.Int{Value: frame},
	}}
}

func controlObject(input *component.Input) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"move": &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			x, ok := tengo.ToFloat64(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "x", Expected: "float", Found: args[0].TypeName()}
			}
			input.MoveX = common.Clamp(x, -1, 1)
			return tengo.UndefinedValue, nil
		}},
		"jump": &tengo.UserFunction{Name: "jump", Value: func(args ...tengo.Object) (tengo.Object, error) {
			input.Jump = true
			input.JumpPressed = true
			return tengo.UndefinedValue, nil
		}},
		"thrust": &tengo.UserFunction{Name: "thrust", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			x, okX := tengo.ToFloat64(args[0])
			y, okY := tengo.ToFloat64(args[1])
			if !okX || !okY {
				return nil, tengo.ErrInvalidArgumentType{Name: "target", Expected: "float", Found: strings.Join([]string{args[0].TypeName(), args[1].TypeName()}, ",")}
			}
			input.Thrust = true
			input.Target = mgl64.Vec3{x, y, 0}
			return tengo.UndefinedValue, nil
		}},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
