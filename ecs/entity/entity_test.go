package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/levels"
	"github.com/milk9111/jetpawn/motion"
	"github.com/milk9111/jetpawn/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWorld(t *testing.T, name string) (*ecs.World, *collision.Space, *levels.Level) {
	t.Helper()
	lvl, err := levels.Load(name)
	require.NoError(t, err)
	w := ecs.NewWorld()
	space := collision.NewSpace()
	require.NoError(t, BuildLevel(w, space, lvl))
	return w, space, lvl
}

func TestBuildLevel(t *testing.T) {
	w, space, lvl := buildWorld(t, "intro")

	assert.Len(t, ecs.Query(w, component.SolidComponent.Kind()), len(lvl.Solids()))
	assert.Len(t, ecs.Query(w, component.GravityVolumeComponent.Kind()), 3)
	assert.Equal(t, len(lvl.Solids()), space.Shapes())
	assert.Equal(t, 3, space.Volumes())

	e, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	require.True(t, ok)
	bounds, ok := ecs.Get(w, e, component.LevelBoundsComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "intro", bounds.Name)
	assert.True(t, bounds.Bounds.Contains(lvl.Spawn()))

	require.Error(t, BuildLevel(w, space, nil))
}

func TestBuildPlayer(t *testing.T) {
	w, space, lvl := buildWorld(t, "flat")

	spawn := lvl.Spawn().Add(mgl64.Vec3{0, 1, 0})
	player, err := BuildPlayer(w, space, prefabs.DefaultPawnSpec(), spawn, WithProbeTrace())
	require.NoError(t, err)

	for name, has := range map[string]bool{
		"player_tag":    ecs.Has(w, player, component.PlayerTagComponent.Kind()),
		"transform":     ecs.Has(w, player, component.TransformComponent.Kind()),
		"collider":      ecs.Has(w, player, component.BoxColliderComponent.Kind()),
		"pawn":          ecs.Has(w, player, component.PawnComponent.Kind()),
		"input":         ecs.Has(w, player, component.InputComponent.Kind()),
		"camera_target": ecs.Has(w, player, component.CameraTargetComponent.Kind()),
		"marker":        ecs.Has(w, player, component.MarkerComponent.Kind()),
		"probe_trace":   ecs.Has(w, player, component.ProbeTraceComponent.Kind()),
	} {
		assert.True(t, has, name)
	}

	pawn, _ := ecs.Get(w, player, component.PawnComponent.Kind())
	transform, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	trace, _ := ecs.Get(w, player, component.ProbeTraceComponent.Kind())

	// the controller moves the stored transform in place
	pawn.Controller.Tick(1.0/60, motion.Input{}, nil)
	assert.Less(t, transform.Position.Y(), spawn.Y())
	assert.Len(t, trace.Probes, 3, "a pure fall casts one set of vertical feelers")

	bad := prefabs.DefaultPawnSpec()
	bad.Motion.Accel = 0
	_, err = BuildPlayer(w, space, bad, lvl.Spawn())
	require.Error(t, err)
	_, err = BuildPlayer(w, nil, prefabs.DefaultPawnSpec(), lvl.Spawn())
	require.Error(t, err)
}

func TestBuildCamera(t *testing.T) {
	w := ecs.NewWorld()
	cam, err := BuildCamera(w, prefabs.CameraSpec{Smoothness: 4}, mgl64.Vec3{1, 2, 0})
	require.NoError(t, err)

	c, ok := ecs.Get(w, cam, component.CameraComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "player", c.TargetName)
	assert.Equal(t, prefabs.DefaultPawnSpec().Camera.Zoom, c.Zoom)
	assert.Equal(t, 4.0, c.Smoothness)
}

func TestReloadPawn(t *testing.T) {
	w, space, lvl := buildWorld(t, "flat")
	player, err := BuildPlayer(w, space, prefabs.DefaultPawnSpec(), lvl.Spawn())
	require.NoError(t, err)
	pawn, _ := ecs.Get(w, player, component.PawnComponent.Kind())

	next := prefabs.DefaultPawnSpec()
	next.Name = "tuned"
	next.Motion.JumpHeight = 5
	next.Collider.Width = 0.8
	require.NoError(t, ReloadPawn(w, player, next))
	assert.Equal(t, 5.0, pawn.Controller.Config().JumpHeight)
	assert.Equal(t, "tuned", pawn.Prefab)
	collider, _ := ecs.Get(w, player, component.BoxColliderComponent.Kind())
	assert.Equal(t, 0.8, collider.Size.X())

	bad := next
	bad.Motion.JumpTime = -1
	require.Error(t, ReloadPawn(w, player, bad))
	assert.Equal(t, 5.0, pawn.Controller.Config().JumpHeight)
	assert.Equal(t, 0.8, collider.Size.X())

	require.Error(t, ReloadPawn(w, ecs.Entity(999), next))
}
