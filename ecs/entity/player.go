package entity

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/motion"
	"github.com/milk9111/jetpawn/prefabs"
	"go.uber.org/zap"
)

var ErrNilLevel = errors.New("nil level")

type PlayerOption func(*playerOptions)

type playerOptions struct {
	log   *zap.Logger
	trace bool
}

func WithPlayerLogger(logger *zap.Logger) PlayerOption {
	return func(o *playerOptions) {
		o.log = logger
	}
}

// WithProbeTrace records the hull's feeler rays on the entity for drawing.
func WithProbeTrace() PlayerOption {
	return func(o *playerOptions) {
		o.trace = true
	}
}

// BuildPlayer creates the player pawn at spawn, moved through query.
func BuildPlayer(w *ecs.World, query collision.SurfaceQuery, spec prefabs.PawnSpec, spawn mgl64.Vec3, opts ...PlayerOption) (ecs.Entity, error) {
	o := playerOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := spec.Validate(); err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}

	transform := &component.Transform{Position: spawn}
	collider := &component.BoxCollider{Size: spec.Collider.Size(), Offset: spec.Collider.Offset()}
	body := component.ColliderBody{Transform: transform, Collider: collider}

	hullOpts := []collision.HullOption{collision.WithLogger(o.log)}
	var trace *component.ProbeTrace
	if o.trace {
		trace = &component.ProbeTrace{}
		hullOpts = append(hullOpts, collision.WithProbeObserver(trace))
	}
	hull, err := collision.NewHull(body, query, spec.Motion.HullConfig(), hullOpts...)
	if err != nil {
		return 0, fmt.Errorf("player: build hull: %w", err)
	}
	controller, err := motion.New(body, hull, spec.Motion, motion.WithLogger(o.log))
	if err != nil {
		return 0, fmt.Errorf("player: build controller: %w", err)
	}

	player := ecs.CreateEntity(w)
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}
	if err := ecs.Add(w, player, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, player, component.BoxColliderComponent.Kind(), collider); err != nil {
		return 0, fmt.Errorf("player: add collider: %w", err)
	}
	if err := ecs.Add(w, player, component.PawnComponent.Kind(), &component.Pawn{
		Controller: controller,
		Hull:       hull,
		Spawn:      spawn,
		Prefab:     spec.Name,
	}); err != nil {
		return 0, fmt.Errorf("player: add pawn: %w", err)
	}
	if err := ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{Target: spawn}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, player, component.CameraTargetComponent.Kind(), &component.CameraTarget{}); err != nil {
		return 0, fmt.Errorf("player: add camera target: %w", err)
	}
	if err := ecs.Add(w, player, component.MarkerComponent.Kind(), &component.Marker{}); err != nil {
		return 0, fmt.Errorf("player: add marker: %w", err)
	}
	if trace != nil {
		if err := ecs.Add(w, player, component.ProbeTraceComponent.Kind(), trace); err != nil {
			return 0, fmt.Errorf("player: add probe trace: %w", err)
		}
	}

	o.log.Info("player spawned",
		zap.Stringer("entity", player),
		zap.String("prefab", spec.Name),
		zap.Float64s("spawn", spawn[:2]),
	)
	return player, nil
}

// ReloadPawn applies new tunables to a live pawn. The collider is resized
// before the controller config is swapped; if the controller rejects the
// config the old collider is restored and nothing changes.
func ReloadPawn(w *ecs.World, e ecs.Entity, spec prefabs.PawnSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("player: reload: %w", err)
	}
	pawn, ok := ecs.Get(w, e, component.PawnComponent.Kind())
	if !ok || pawn.Controller == nil {
		return fmt.Errorf("player: reload: %w", component.ErrEntityNotAlive)
	}
	collider, ok := ecs.Get(w, e, component.BoxColliderComponent.Kind())
	if !ok {
		return fmt.Errorf("player: reload: entity %s has no collider", e)
	}

	prev := *collider
	collider.Size = spec.Collider.Size()
	collider.Offset = spec.Collider.Offset()
	if err := pawn.Controller.SetConfig(spec.Motion); err != nil {
		*collider = prev
		return fmt.Errorf("player: reload: %w", err)
	}
	pawn.Prefab = spec.Name
	return nil
}
