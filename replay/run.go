package replay

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/ecs/entity"
	"github.com/milk9111/jetpawn/ecs/system"
	"github.com/milk9111/jetpawn/levels"
	"github.com/milk9111/jetpawn/prefabs"
	"go.uber.org/zap"
)

// Sample is the pawn state after one step.
type Sample struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Grounded bool
	Charge   float64
}

type Trajectory []Sample

// Checksum hashes the exact bits of every sample, so two runs match only if
// they are bit-for-bit identical.
func (t Trajectory) Checksum() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 8*8)
	for _, s := range t {
		buf = buf[:0]
		for _, f := range [...]float64{
			s.Position[0], s.Position[1], s.Position[2],
			s.Velocity[0], s.Velocity[1], s.Velocity[2],
			s.Charge,
		} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
		if s.Grounded {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// Final is the last sample, or the zero sample for an empty trajectory.
func (t Trajectory) Final() Sample {
	if len(t) == 0 {
		return Sample{}
	}
	return t[len(t)-1]
}

type RunOption func(*runOptions)

type runOptions struct {
	log       *zap.Logger
	loadLevel func(name string) (*levels.Level, error)
}

func WithLogger(logger *zap.Logger) RunOption {
	return func(o *runOptions) {
		o.log = common.OrNop(logger)
	}
}

// WithLevelLoader replaces levels.Load, e.g. to replay against a level that
// is not on disk.
func WithLevelLoader(load func(name string) (*levels.Level, error)) RunOption {
	return func(o *runOptions) {
		o.loadLevel = load
	}
}

// sim is a headless world holding one player pawn.
type sim struct {
	w      *ecs.World
	space  *collision.Space
	player ecs.Entity
	input  *component.Input
	pawn   *component.Pawn
}

func newSim(level string, spec prefabs.PawnSpec, o runOptions) (*sim, error) {
	lvl, err := o.loadLevel(level)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	w := ecs.NewWorld()
	space := collision.NewSpace()
	if err := entity.BuildLevel(w, space, lvl); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	player, err := entity.BuildPlayer(w, space, spec, lvl.Spawn())
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	input, _ := ecs.Get(w, player, component.InputComponent.Kind())
	pawn, _ := ecs.Get(w, player, component.PawnComponent.Kind())
	return &sim{w: w, space: space, player: player, input: input, pawn: pawn}, nil
}

func (s *sim) sample() Sample {
	snap := s.pawn.Controller.Snapshot()
	return Sample{
		Position: snap.Position,
		Velocity: snap.Velocity,
		Grounded: snap.Grounded,
		Charge:   snap.Charge,
	}
}

// Run replays rec headless through the same pawn system the game uses and
// returns one sample per frame.
func Run(ctx context.Context, rec Recording, opts ...RunOption) (Trajectory, error) {
	o := newRunOptions(opts)
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	s, err := newSim(rec.Level, rec.Spec, o)
	if err != nil {
		return nil, err
	}
	sched := ecs.NewScheduler(system.NewPawnSystem(s.space, o.log))

	out := make(Trajectory, 0, len(rec.Frames))
	for i, f := range rec.Frames {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		if f.Spec != nil {
			if err := entity.ReloadPawn(s.w, s.player, *f.Spec); err != nil {
				return out, fmt.Errorf("replay: frame %d: %w", i, err)
			}
		}
		s.input.MoveX = f.Input.MoveX
		s.input.JumpPressed = f.Input.JumpPressed
		s.input.Thrust = f.Input.Thrust
		s.input.Target = f.Input.Target
		s.input.Respawn = f.Respawn
		sched.Update(s.w, f.DT)
		out = append(out, s.sample())
	}

	o.log.Debug("replay finished",
		zap.Stringer("recording", rec.ID),
		zap.String("level", rec.Level),
		zap.Int("frames", len(out)),
		zap.Uint64("checksum", out.Checksum()),
	)
	return out, nil
}

// Drive runs pilot against level for the given number of frames and records
// the inputs it produced. Replaying the recording with Run reproduces the
// returned trajectory.
func Drive(ctx context.Context, level string, spec prefabs.PawnSpec, pilot *system.PilotSystem, frames int, dt float64, opts ...RunOption) (Recording, Trajectory, error) {
	o := newRunOptions(opts)
	if pilot == nil {
		return Recording{}, nil, errors.New("replay: nil pilot")
	}
	s, err := newSim(level, spec, o)
	if err != nil {
		return Recording{}, nil, err
	}
	sched := ecs.NewScheduler(pilot, system.NewPawnSystem(s.space, o.log))
	recorder := NewRecorder(level, spec)

	out := make(Trajectory, 0, frames)
	for i := 0; i < frames; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return recorder.Recording(), out, err
			}
		}
		sched.Update(s.w, dt)
		recorder.Record(FrameOf(dt, *s.input))
		out = append(out, s.sample())
		if pilot.Failed() {
			return recorder.Recording(), out, errors.New("replay: pilot script failed")
		}
	}
	return recorder.Recording(), out, nil
}

func newRunOptions(opts []RunOption) runOptions {
	o := runOptions{log: zap.NewNop(), loadLevel: levels.Load}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
