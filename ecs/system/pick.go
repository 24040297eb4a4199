package system

import (
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"go.uber.org/zap"
)

// pickRange is the longest surface pick, in world units.
const pickRange = 10.0

// PickSystem casts a ray from a pawn toward its aim point when pick is
// pressed and records the surface it hits in the pawn's Marker.
type PickSystem struct {
	query collision.SurfaceQuery
	log   *zap.Logger
}

func NewPickSystem(query collision.SurfaceQuery, logger *zap.Logger) *PickSystem {
	return &PickSystem{query: query, log: common.OrNop(logger)}
}

func (s *PickSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.query == nil {
		return
	}

	ecs.ForEach3(w, component.TransformComponent.Kind(), component.InputComponent.Kind(), component.MarkerComponent.Kind(), func(e ecs.Entity, t *component.Transform, input *component.Input, marker *component.Marker) {
		if !input.PickPressed {
			return
		}
		dir := input.Target.Sub(t.Position)
		dir[2] = 0
		if dir.Len() <= common.Epsilon {
			return
		}
		dir = dir.Normalize()

		mask := collision.MaskCollidable
		if pawn, ok := ecs.Get(w, e, component.PawnComponent.Kind()); ok && pawn.Hull != nil {
			mask = pawn.Hull.Config().Collidable
		}

		hit, ok := s.query.CastRay(t.Position, dir, pickRange, mask)
		if !ok {
			return
		}
		marker.Point = hit.Point
		marker.Normal = hit.Normal
		marker.Set = true
		s.log.Debug("surface picked",
			zap.Stringer("entity", e),
			zap.Stringer("point", vec{hit.Point}),
			zap.Stringer("normal", vec{hit.Normal}),
		)
	})
}
