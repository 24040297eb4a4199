package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPilotSteersPawn(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 2.5, 0})
	pilot, err := NewPilotSystem("inline", []byte(`
update := func(pawn, ctl, state) {
	ctl.move(2)
	if pawn.frame == 0 {
		ctl.jump()
	}
	ctl.thrust(1, 2.5)
}
`), nil)
	require.NoError(t, err)

	pilot.Update(s.w, step)
	in := s.input(t)
	assert.Equal(t, 1.0, in.MoveX, "move is clamped")
	assert.True(t, in.JumpPressed)
	assert.True(t, in.Thrust)
	assert.Equal(t, mgl64.Vec3{1, 2.5, 0}, in.Target)

	pilot.Update(s.w, step)
	assert.False(t, in.JumpPressed, "inputs are rebuilt every step")
	assert.False(t, pilot.Failed())
}

func TestPilotStatePersists(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 1.5, 0})
	pilot, err := NewPilotSystem("counter", []byte(`
update := func(pawn, ctl, state) {
	if is_undefined(state.n) {
		state.n = 0
	}
	state.n = state.n + 1
	ctl.move(state.n / 10.0)
}
`), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		pilot.Update(s.w, step)
	}
	assert.InDelta(t, 0.3, s.input(t).MoveX, 1e-12)
}

func TestPilotScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "syntax", src: "update := func(pawn, ctl, state) {"},
		{name: "no_update", src: "x := 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPilotSystem(tt.name, []byte(tt.src), nil)
			require.Error(t, err)
		})
	}
}

func TestPilotRuntimeErrorReleasesPawn(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 1.5, 0})
	pilot, err := NewPilotSystem("bad", []byte(`
update := func(pawn, ctl, state) {
	ctl.move("left")
}
`), nil)
	require.NoError(t, err)

	s.input(t).MoveX = 1
	pilot.Update(s.w, step)
	assert.True(t, pilot.Failed())
	assert.Zero(t, s.input(t).MoveX)

	s.input(t).MoveX = 1
	pilot.Update(s.w, step)
	assert.Equal(t, 1.0, s.input(t).MoveX, "a failed pilot leaves input alone")
}

func TestPatrolScriptDrivesPawn(t *testing.T) {
	src, err := prefabs.LoadScript("patrol")
	require.NoError(t, err)

	s := newScene(t, "flat", mgl64.Vec3{3.5, 2.5, 0})
	pilot, err := NewPilotSystem("patrol", src, nil)
	require.NoError(t, err)
	pawns := NewPawnSystem(s.space, nil)

	maxX := 0.0
	for i := 0; i < 600; i++ {
		pilot.Update(s.w, step)
		pawns.Update(s.w, step)
		maxX = max(maxX, s.pawn(t).Controller.Snapshot().Position.X())
	}
	require.False(t, pilot.Failed())
	assert.Greater(t, maxX, 6.0)
}

func TestPilotRequestRespawn(t *testing.T) {
	s := newScene(t, "flat", mgl64.Vec3{3.5, 1.5, 0})
	pilot, err := NewPilotSystem("idle", []byte("update := func(pawn, ctl, state) {}"), nil)
	require.NoError(t, err)

	pilot.RequestRespawn()
	pilot.Update(s.w, step)
	assert.True(t, s.input(t).Respawn)

	pilot.Update(s.w, step)
	assert.False(t, s.input(t).Respawn)
}
