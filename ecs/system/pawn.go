package system

import (
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/motion"
	"go.uber.org/zap"
)

// VolumeQuery finds the gravity volumes overlapping a box, highest priority
// first. *collision.Space implements it.
type VolumeQuery interface {
	Overlapping(b collision.Bounds) []collision.Volume
}

// PawnSystem ticks every pawn controller with the gravity of the volumes it
// overlaps and raises collision events for contact changes.
type PawnSystem struct {
	volumes VolumeQuery
	log     *zap.Logger
}

func NewPawnSystem(volumes VolumeQuery, logger *zap.Logger) *PawnSystem {
	return &PawnSystem{volumes: volumes, log: common.OrNop(logger)}
}

func (s *PawnSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	var level *component.LevelBounds
	if e, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		level, _ = ecs.Get(w, e, component.LevelBoundsComponent.Kind())
	}

	ecs.ForEach2(w, component.PawnComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, pawn *component.Pawn, input *component.Input) {
		if pawn.Controller == nil || pawn.Hull == nil {
			return
		}
		if trace, ok := ecs.Get(w, e, component.ProbeTraceComponent.Kind()); ok {
			trace.Reset()
		}

		var fields []motion.Field
		if s.volumes != nil {
			fields = motion.FieldsFromVolumes(s.volumes.Overlapping(pawn.Hull.Bounds()))
		}

		c := pawn.Controller
		if input.Respawn {
			s.respawn(w, e, pawn, "requested")
		}
		wasGrounded := c.Grounded()
		prev := c.LastResult()
		res := c.Tick(dt, input.Motion(), fields)
		s.emit(w, e, c, wasGrounded, prev, res)

		if level != nil && !level.Bounds.Overlaps(pawn.Hull.Bounds()) {
			s.respawn(w, e, pawn, "left level "+level.Name)
		}
	})
}

func (s *PawnSystem) respawn(w *ecs.World, e ecs.Entity, pawn *component.Pawn, reason string) {
	s.log.Info("respawning pawn",
		zap.Stringer("entity", e),
		zap.String("reason", reason),
		zap.Stringer("position", vec{pawn.Controller.Snapshot().Position}),
	)
	pawn.Controller.Teleport(pawn.Spawn)
	w.Events().Push(ecs.CollisionEvent{Entity: e, Kind: ecs.CollisionEventRespawned})
}

func (s *PawnSystem) emit(w *ecs.World, e ecs.Entity, c *motion.Controller, wasGrounded bool, prev, res collision.Result) {
	ground := c.GroundSide()
	events := w.Events()

	switch {
	case c.Grounded() && !wasGrounded:
		events.Push(ecs.CollisionEvent{Entity: e, Kind: ecs.CollisionEventLanded, Side: ground})
	case !c.Grounded() && wasGrounded:
		events.Push(ecs.CollisionEvent{Entity: e, Kind: ecs.CollisionEventLeftGround, Side: ground})
	}

	for _, side := range res.Sides() {
		if side == ground || prev.Hit(side) {
			continue
		}
		events.Push(ecs.CollisionEvent{Entity: e, Kind: ecs.CollisionEventBumped, Side: side})
	}
}
