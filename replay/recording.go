package replay

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/motion"
	"github.com/milk9111/jetpawn/prefabs"
	"gopkg.in/yaml.v3"
)

var ErrEmptyRecording = errors.New("replay: recording has no frames")

// Frame is the input applied for one fixed step.
type Frame struct {
	DT      float64      `yaml:"dt"`
	Input   motion.Input `yaml:"input"`
	Respawn bool         `yaml:"respawn,omitempty"`
	// Spec, when set, replaces the pawn tunables before this step runs.
	Spec *prefabs.PawnSpec `yaml:"spec,omitempty"`
}

// FrameOf captures what the pawn system consumed from in during a step.
func FrameOf(dt float64, in component.Input) Frame {
	return Frame{DT: dt, Input: in.Motion(), Respawn: in.Respawn}
}

// Recording is everything needed to reproduce a play session.
type Recording struct {
	ID     uuid.UUID        `yaml:"id"`
	Level  string           `yaml:"level"`
	Spec   prefabs.PawnSpec `yaml:"spec"`
	Frames []Frame          `yaml:"frames"`
}

func (r Recording) Validate() error {
	if len(r.Frames) == 0 {
		return ErrEmptyRecording
	}
	if err := r.Spec.Validate(); err != nil {
		return fmt.Errorf("replay: spec: %w", err)
	}
	for i, f := range r.Frames {
		in := f.Input
		if !common.IsFinite(f.DT, in.MoveX, in.Target[0], in.Target[1], in.Target[2]) {
			return fmt.Errorf("replay: frame %d: non-finite values", i)
		}
		if f.Spec != nil {
			if err := f.Spec.Validate(); err != nil {
				return fmt.Errorf("replay: frame %d: spec: %w", i, err)
			}
		}
	}
	return nil
}

// Recorder collects frames during play.
type Recorder struct {
	rec     Recording
	pending *prefabs.PawnSpec
}

func NewRecorder(level string, spec prefabs.PawnSpec) *Recorder {
	return &Recorder{rec: Recording{ID: uuid.New(), Level: level, Spec: spec}}
}

func (r *Recorder) Record(f Frame) {
	if r.pending != nil {
		f.Spec = r.pending
		r.pending = nil
	}
	r.rec.Frames = append(r.rec.Frames, f)
}

// SetSpec notes a tunables change applied to the live pawn. Before the first
// frame it replaces the starting spec; afterwards it rides on the next
// recorded frame so earlier frames keep the tunables they ran with.
func (r *Recorder) SetSpec(spec prefabs.PawnSpec) {
	if len(r.rec.Frames) == 0 {
		r.rec.Spec = spec
		return
	}
	r.pending = &spec
}

func (r *Recorder) Len() int {
	return len(r.rec.Frames)
}

// Recording returns a copy of what has been recorded so far.
func (r *Recorder) Recording() Recording {
	out := r.rec
	out.Frames = append([]Frame(nil), r.rec.Frames...)
	return out
}

func Marshal(rec Recording) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("replay: marshal %s: %w", rec.ID, err)
	}
	return data, nil
}

func Unmarshal(data []byte) (Recording, error) {
	rec := Recording{Spec: prefabs.DefaultPawnSpec()}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Recording{}, fmt.Errorf("replay: unmarshal: %w", err)
	}
	return rec, nil
}

func Save(path string, rec Recording) error {
	data, err := Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("replay: write %s: %w", path, err)
	}
	return nil
}

func Load(path string) (Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recording{}, fmt.Errorf("replay: read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// Synthesize builds a recording of pseudo-random play from seed: runs,
// jumps and jetpack bursts aimed around the level.
func Synthesize(level string, spec prefabs.PawnSpec, frames int, dt float64, seed int64) Recording {
	rng := rand.New(rand.NewSource(seed))
	rec := NewRecorder(level, spec)

	var in motion.Input
	for i := 0; i < frames; i++ {
		// hold each choice for a few frames so the pawn actually travels
		if i%12 == 0 {
			in.MoveX = float64(rng.Intn(3) - 1)
			in.Thrust = rng.Intn(4) == 0
			in.Target = mgl64.Vec3{rng.Float64() * 32, rng.Float64() * 12, 0}
		}
		in.JumpPressed = rng.Intn(30) == 0
		rec.Record(Frame{DT: dt, Input: in})
	}
	return rec.Recording()
}
