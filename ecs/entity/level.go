package entity

import (
	"fmt"

	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/levels"
)

// BuildLevel adds the level's merged solids and gravity volumes to both the
// collision space and the world, plus a LevelBounds entity.
func BuildLevel(w *ecs.World, space *collision.Space, lvl *levels.Level) error {
	if lvl == nil {
		return fmt.Errorf("level: %w", ErrNilLevel)
	}

	for _, s := range lvl.Solids() {
		if space != nil {
			space.AddBox(s.Bounds, s.Layer)
		}
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.SolidComponent.Kind(), &component.Solid{Bounds: s.Bounds, Layer: s.Layer}); err != nil {
			return fmt.Errorf("level: add solid: %w", err)
		}
	}

	for _, v := range lvl.Volumes() {
		if space != nil {
			space.AddVolume(v)
		}
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.GravityVolumeComponent.Kind(), &component.GravityVolume{Volume: v}); err != nil {
			return fmt.Errorf("level: add gravity volume: %w", err)
		}
	}

	bounds := ecs.CreateEntity(w)
	// pawns get a margin before they count as out of the level
	if err := ecs.Add(w, bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Bounds: lvl.Bounds().Expand(4 * lvl.TileSize),
		Name:   lvl.Name,
	}); err != nil {
		return fmt.Errorf("level: add bounds: %w", err)
	}
	return nil
}
