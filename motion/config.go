package motion

import (
	"fmt"
	"strings"

	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"gopkg.in/yaml.v3"
)

// GroundMode decides which face of the hull counts as standing on the ground.
type GroundMode int

const (
	// GroundBottom treats the bottom face as the ground regardless of gravity.
	GroundBottom GroundMode = iota
	// GroundGravity treats the face gravity currently pulls toward as the ground.
	GroundGravity
)

func (m GroundMode) String() string {
	if m == GroundGravity {
		return "gravity"
	}
	return "bottom"
}

func ParseGroundMode(s string) (GroundMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bottom":
		return GroundBottom, nil
	case "gravity":
		return GroundGravity, nil
	}
	return GroundBottom, fmt.Errorf("motion: unknown ground mode %q", s)
}

func (m *GroundMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("motion: decode ground mode: %w", err)
	}
	mode, err := ParseGroundMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m GroundMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// Config holds the pawn tunables.
type Config struct {
	// Accel is the lateral acceleration and ground deceleration, units/s².
	Accel float64 `yaml:"accel"`
	// JumpTime is the time to the apex of a jump, seconds.
	JumpTime float64 `yaml:"jump_time"`
	// JumpHeight is the apex height of a jump, units.
	JumpHeight float64 `yaml:"jump_height"`
	// JetpackImpulse is the thrust acceleration toward the target, units/s².
	JetpackImpulse float64 `yaml:"jetpack_impulse"`
	// JetpackTime is the full jetpack charge, seconds of thrust.
	JetpackTime float64 `yaml:"jetpack_time"`

	SkinWidth  float64        `yaml:"skin_width"`
	Collidable collision.Mask `yaml:"collidable"`

	Ground GroundMode `yaml:"ground"`
}

func DefaultConfig() Config {
	return Config{
		Accel:          5,
		JumpTime:       0.75,
		JumpHeight:     3,
		JetpackImpulse: 5,
		JetpackTime:    3,
		SkinWidth:      0.1,
		Collidable:     collision.MaskCollidable,
		Ground:         GroundBottom,
	}
}

func (c Config) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"accel", c.Accel},
		{"jump_time", c.JumpTime},
		{"jump_height", c.JumpHeight},
		{"jetpack_time", c.JetpackTime},
		{"skin_width", c.SkinWidth},
	}
	for _, p := range positive {
		if !common.IsFinite(p.value) || p.value <= 0 {
			return &common.ConfigError{Field: p.field, Value: p.value, Reason: "must be positive"}
		}
	}
	if !common.IsFinite(c.JetpackImpulse) {
		return &common.ConfigError{Field: "jetpack_impulse", Value: c.JetpackImpulse, Reason: "must be finite"}
	}
	if c.Ground != GroundBottom && c.Ground != GroundGravity {
		return &common.ConfigError{Field: "ground", Value: int(c.Ground), Reason: "unknown ground mode"}
	}
	return nil
}

// HullConfig extracts the collision tunables.
func (c Config) HullConfig() collision.HullConfig {
	return collision.HullConfig{SkinWidth: c.SkinWidth, Collidable: c.Collidable}
}

// DeriveJumpValues turns a jump apex height and time-to-apex into the gravity
// strength and the initial jump speed that produce it.
func DeriveJumpValues(jumpHeight, jumpTime float64) (gravity, impulse float64) {
	gravity = 2 * jumpHeight / (jumpTime * jumpTime)
	impulse = gravity * jumpTime
	return gravity, impulse
}
