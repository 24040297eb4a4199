package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/ecs/entity"
	"github.com/milk9111/jetpawn/levels"
	"github.com/milk9111/jetpawn/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 1.0 / 60

type scene struct {
	w      *ecs.World
	space  *collision.Space
	level  *levels.Level
	player ecs.Entity
}

func newScene(t *testing.T, level string, spawn mgl64.Vec3) scene {
	t.Helper()
	lvl, err := levels.Load(level)
	require.NoError(t, err)
	w := ecs.NewWorld()
	space := collision.NewSpace()
	require.NoError(t, entity.BuildLevel(w, space, lvl))
	player, err := entity.BuildPlayer(w, space, prefabs.DefaultPawnSpec(), spawn)
	require.NoError(t, err)
	return scene{w: w, space: space, level: lvl, player: player}
}

func (s scene) input(t *testing.T) *component.Input {
	in, ok := ecs.Get(s.w, s.player, component.InputComponent.Kind())
	require.True(t, ok)
	return in
}

func (s scene) pawn(t *testing.T) *component.Pawn {
	p, ok := ecs.Get(s.w, s.player, component.PawnComponent.Kind())
	require.True(t, ok)
	return p
}

func TestViewportRoundTrip(t *testing.T) {
	view := Viewport{Center: mgl64.Vec3{5, 5, 0}, Zoom: 10, Width: 200, Height: 100}

	x, y := view.WorldToScreen(mgl64.Vec3{5, 5, 0})
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 50.0, y)

	x, y = view.WorldToScreen(mgl64.Vec3{6, 6, 0})
	assert.Equal(t, 110.0, x)
	assert.Equal(t, 40.0, y, "world up is screen up")

	p := mgl64.Vec3{-3.25, 12.5, 0}
	x, y = view.WorldToScreen(p)
	assert.InDelta(t, 0, view.ScreenToWorld(x, y).Sub(p).Len(), 1e-9)
}

func TestInputSystemProjectsCursor(t *testing.T) {
	w := ecs.NewWorld()
	_, err := entity.BuildCamera(w, prefabs.CameraSpec{Zoom: 10}, mgl64.Vec3{5, 5, 0})
	require.NoError(t, err)

	player := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{1, 1, 0}}))
	require.NoError(t, ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}))

	sys := NewInputSystem(200, 100)
	sys.read = func() deviceState {
		return deviceState{MoveX: -1, JumpPressed: true, Thrust: true, CursorX: 150, CursorY: 25}
	}
	sys.Update(w, step)

	in, _ := ecs.Get(w, player, component.InputComponent.Kind())
	assert.Equal(t, -1.0, in.MoveX)
	assert.True(t, in.JumpPressed)
	assert.True(t, in.Thrust)
	assert.Equal(t, mgl64.Vec3{10, 7.5, 0}, in.Target)

	sys.read = func() deviceState {
		return deviceState{UseAim: true, Aim: mgl64.Vec3{0, 1, 0}}
	}
	sys.Update(w, step)
	assert.Equal(t, mgl64.Vec3{1, 1 + stickReach, 0}, in.Target)
	assert.False(t, in.JumpPressed)

	m := in.Motion()
	assert.Equal(t, in.Target, m.Target)
	assert.Equal(t, in.MoveX, m.MoveX)
}

func TestPawnSystemEvents(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 2.5, 0})
	sys := NewPawnSystem(s.space, nil)

	var landed, bumpedRight int
	s.input(t).MoveX = 1
	for i := 0; i < 300; i++ {
		sys.Update(s.w, step)
		for _, evt := range s.w.Events().Drain() {
			require.Equal(t, s.player, evt.Entity)
			switch {
			case evt.Kind == ecs.CollisionEventLanded:
				assert.Equal(t, collision.SideBottom, evt.Side)
				landed++
			case evt.Kind == ecs.CollisionEventBumped && evt.Side == collision.SideRight:
				bumpedRight++
			}
		}
	}
	assert.Equal(t, 1, landed)
	assert.Equal(t, 1, bumpedRight, "resting against a wall is one bump")

	transform, _ := ecs.Get(s.w, s.player, component.TransformComponent.Kind())
	assert.InDelta(t, 10.5, transform.Position.X(), 1e-6)
}

func TestPawnSystemLeftGroundEvent(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 1.5, 0})
	sys := NewPawnSystem(s.space, nil)

	for i := 0; i < 5; i++ {
		sys.Update(s.w, step)
	}
	s.w.Events().Drain()
	require.True(t, s.pawn(t).Controller.Grounded())

	s.input(t).JumpPressed = true
	sys.Update(s.w, step)
	events := s.w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.CollisionEventLeftGround, events[0].Kind)
}

func TestPawnSystemUsesGravityVolumes(t *testing.T) {
	s := newScene(t, "intro", mgl64.Vec3{10, 4, 0})
	sys := NewPawnSystem(s.space, nil)

	sys.Update(s.w, step)
	c := s.pawn(t).Controller
	assert.InDelta(t, -0.3*c.Gravity()*step, c.Velocity().Y(), 1e-9)

	plain := NewPawnSystem(nil, nil)
	c.SetVelocity(mgl64.Vec3{})
	plain.Update(s.w, step)
	assert.InDelta(t, -c.Gravity()*step, c.Velocity().Y(), 1e-9)
}

func TestPawnSystemRespawnsOutsideLevel(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 2.5, 0})
	sys := NewPawnSystem(s.space, nil)
	pawn := s.pawn(t)

	pawn.Controller.Teleport(mgl64.Vec3{200, 200, 0})
	pawn.Controller.SetVelocity(mgl64.Vec3{1, 1, 0})
	sys.Update(s.w, step)

	transform, _ := ecs.Get(s.w, s.player, component.TransformComponent.Kind())
	assert.Equal(t, pawn.Spawn, transform.Position)
	assert.Equal(t, mgl64.Vec3{}, pawn.Controller.Velocity())

	events := s.w.Events().Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.CollisionEvent{Entity: s.player, Kind: ecs.CollisionEventRespawned}, events[0])
}

func TestPawnSystemRespawnOnRequest(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 1.5, 0})
	sys := NewPawnSystem(s.space, nil)
	pawn := s.pawn(t)

	s.input(t).MoveX = 1
	for i := 0; i < 60; i++ {
		sys.Update(s.w, step)
	}
	before := pawn.Controller.Snapshot().Position
	require.Greater(t, before.X(), pawn.Spawn.X()+1)
	s.w.Events().Drain()

	s.input(t).Respawn = true
	sys.Update(s.w, step)
	after := pawn.Controller.Snapshot().Position
	assert.Less(t, after.X(), before.X())
	assert.InDelta(t, pawn.Spawn.X(), after.X(), 0.1, "one step of travel from spawn")

	var kinds []ecs.CollisionEventKind
	for _, evt := range s.w.Events().Drain() {
		kinds = append(kinds, evt.Kind)
	}
	assert.Contains(t, kinds, ecs.CollisionEventRespawned)
}

func TestInputSystemRequestRespawn(t *testing.T) {
	w := ecs.NewWorld()
	player := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}))

	sys := NewInputSystem(200, 100)
	sys.read = func() deviceState { return deviceState{} }
	in, _ := ecs.Get(w, player, component.InputComponent.Kind())

	sys.RequestRespawn()
	sys.Update(w, step)
	assert.True(t, in.Respawn)

	sys.Update(w, step)
	assert.False(t, in.Respawn, "a request lasts one step")
}

func TestCameraSystem(t *testing.T) {
	tests := []struct {
		name   string
		smooth float64
		want   mgl64.Vec3
	}{
		{"snap", 0, mgl64.Vec3{4, 2, 0}},
		{"smoothed", 5, mgl64.Vec3{4, 2, 0}.Mul(0.3934693402873666)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			cam, err := entity.BuildCamera(w, prefabs.CameraSpec{Smoothness: tc.smooth}, mgl64.Vec3{})
			require.NoError(t, err)

			player := ecs.CreateEntity(w)
			require.NoError(t, ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
			require.NoError(t, ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{4, 2, 0}}))

			NewCameraSystem().Update(w, 0.1)
			ct, _ := ecs.Get(w, cam, component.TransformComponent.Kind())
			assert.InDelta(t, 0, ct.Position.Sub(tc.want).Len(), 1e-9)
		})
	}
}

func TestCameraTargetOffset(t *testing.T) {
	w := ecs.NewWorld()
	cam, err := entity.BuildCamera(w, prefabs.CameraSpec{}, mgl64.Vec3{})
	require.NoError(t, err)
	camComp, _ := ecs.Get(w, cam, component.CameraComponent.Kind())
	camComp.TargetName = ""

	target := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, target, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{1, 1, 0}}))
	require.NoError(t, ecs.Add(w, target, component.CameraTargetComponent.Kind(), &component.CameraTarget{Offset: mgl64.Vec3{0, 2, 0}}))

	NewCameraSystem().Update(w, step)
	ct, _ := ecs.Get(w, cam, component.TransformComponent.Kind())
	assert.Equal(t, mgl64.Vec3{1, 3, 0}, ct.Position)
}

func TestPickSystem(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 1.5, 0})
	sys := NewPickSystem(s.space, nil)

	in := s.input(t)
	in.Target = mgl64.Vec3{20, 1.5, 0}
	sys.Update(s.w, step)
	marker, _ := ecs.Get(s.w, s.player, component.MarkerComponent.Kind())
	assert.False(t, marker.Set, "nothing happens until pick is pressed")

	in.PickPressed = true
	sys.Update(s.w, step)
	require.True(t, marker.Set)
	assert.InDelta(t, 11, marker.Point.X(), 1e-6)
	assert.InDelta(t, 1.5, marker.Point.Y(), 1e-6)
	assert.InDelta(t, -1, marker.Normal.X(), 1e-6)

	// out of range: the marker keeps the last hit
	in.Target = mgl64.Vec3{3.5, -50, 0}
	s.pawn(t).Controller.Teleport(mgl64.Vec3{3.5, 30, 0})
	sys.Update(s.w, step)
	assert.InDelta(t, 11, marker.Point.X(), 1e-6)
}
