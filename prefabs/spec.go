package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/motion"
	"gopkg.in/yaml.v3"
)

// PawnFile is the default pawn prefab.
const PawnFile = "pawn.yaml"

// LoadSpec decodes a prefab file into T. Fields absent from the file keep the
// values already in base.
func LoadSpec[T any](filename string, base T) (T, error) {
	data, err := Load(filename)
	if err != nil {
		return base, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return DecodeSpec(filename, data, base)
}

func DecodeSpec[T any](filename string, data []byte, base T) (T, error) {
	spec := base
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return base, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

type ColliderSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x,omitempty"`
	OffsetY float64 `yaml:"offset_y,omitempty"`
}

func (c ColliderSpec) Size() mgl64.Vec3 {
	return mgl64.Vec3{c.Width, c.Height, 0}
}

func (c ColliderSpec) Offset() mgl64.Vec3 {
	return mgl64.Vec3{c.OffsetX, c.OffsetY, 0}
}

type CameraSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

// PawnSpec is everything needed to build a pawn entity.
type PawnSpec struct {
	Name     string        `yaml:"name"`
	Collider ColliderSpec  `yaml:"collider"`
	Motion   motion.Config `yaml:"motion"`
	Camera   CameraSpec    `yaml:"camera"`
}

func DefaultPawnSpec() PawnSpec {
	return PawnSpec{
		Name:     "pawn",
		Collider: ColliderSpec{Width: 1, Height: 1},
		Motion:   motion.DefaultConfig(),
		Camera:   CameraSpec{Zoom: 32, Smoothness: 6},
	}
}

// Validate checks the motion tunables and that the skin fits the collider.
func (s PawnSpec) Validate() error {
	if !common.IsFinite(s.Collider.Width, s.Collider.Height, s.Collider.OffsetX, s.Collider.OffsetY) ||
		s.Collider.Width <= 0 || s.Collider.Height <= 0 {
		return &common.ConfigError{
			Field:  "collider",
			Value:  fmt.Sprintf("%gx%g", s.Collider.Width, s.Collider.Height),
			Reason: "must be a positive finite size",
		}
	}
	if err := s.Motion.Validate(); err != nil {
		return err
	}
	b := collision.NewBounds(mgl64.Vec3{}, s.Collider.Size())
	if s.Motion.SkinWidth >= b.MinHalfExtent() {
		return &common.ConfigError{
			Field:  "motion.skin_width",
			Value:  s.Motion.SkinWidth,
			Reason: "must be smaller than the collider half extents",
		}
	}
	return nil
}

// LoadPawnSpec loads and validates a pawn prefab. An empty name loads the
// default pawn.
func LoadPawnSpec(name string) (PawnSpec, error) {
	if name == "" {
		name = PawnFile
	}
	spec, err := LoadSpec(name, DefaultPawnSpec())
	if err != nil {
		return DefaultPawnSpec(), err
	}
	if err := spec.Validate(); err != nil {
		return DefaultPawnSpec(), fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}

// ParsePawnSpec is LoadPawnSpec for bytes already read.
func ParsePawnSpec(name string, data []byte) (PawnSpec, error) {
	spec, err := DecodeSpec(name, data, DefaultPawnSpec())
	if err != nil {
		return DefaultPawnSpec(), err
	}
	if err := spec.Validate(); err != nil {
		return DefaultPawnSpec(), fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}
