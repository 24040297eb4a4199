package levels

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"gopkg.in/yaml.v3"
)

// Tile characters. Rows are written top first.
const (
	TileEmpty    = '.'
	TileSolid    = '#'
	TilePlatform = '='
	TileGlass    = '+'
	TileSpawn    = 'P'
)

var (
	ErrNoSpawn     = errors.New("levels: no spawn tile")
	ErrRaggedTiles = errors.New("levels: tile rows differ in width")
	ErrUnknownTile = errors.New("levels: unknown tile")
	ErrEmptyLevel  = errors.New("levels: no tiles")
	ErrMultiSpawn  = errors.New("levels: more than one spawn tile")
	ErrBadVolume   = errors.New("levels: invalid gravity volume")
	ErrBadTileSize = errors.New("levels: tile_size must be positive")
)

// VolumeSpec is a gravity volume in world units.
type VolumeSpec struct {
	Min       [2]float64 `yaml:"min,flow"`
	Max       [2]float64 `yaml:"max,flow"`
	Direction [2]float64 `yaml:"direction,flow"`
	// Scale defaults to 1 when omitted; zero is a valid weightless zone.
	Scale    *float64 `yaml:"scale,omitempty"`
	Priority int      `yaml:"priority,omitempty"`
}

type Level struct {
	Name           string       `yaml:"name"`
	TileSize       float64      `yaml:"tile_size"`
	Tiles          []string     `yaml:"tiles"`
	GravityVolumes []VolumeSpec `yaml:"gravity_volumes,omitempty"`
}

// Solid is a merged rectangle of same-layer tiles.
type Solid struct {
	Bounds collision.Bounds
	Layer  collision.Mask
}

// Parse decodes and validates a level file. A missing tile_size means 1.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if lvl.TileSize == 0 {
		lvl.TileSize = 1
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	if !common.IsFinite(l.TileSize) || l.TileSize <= 0 {
		return ErrBadTileSize
	}
	if len(l.Tiles) == 0 || len(l.Tiles[0]) == 0 {
		return ErrEmptyLevel
	}

	spawns := 0
	width := len(l.Tiles[0])
	for row, line := range l.Tiles {
		if len(line) != width {
			return fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRaggedTiles, row, len(line), width)
		}
		for col := 0; col < len(line); col++ {
			switch line[col] {
			case TileEmpty, TileSolid, TilePlatform, TileGlass:
			case TileSpawn:
				spawns++
			default:
				return fmt.Errorf("%w %q at row %d col %d", ErrUnknownTile, line[col], row, col)
			}
		}
	}
	switch {
	case spawns == 0:
		return ErrNoSpawn
	case spawns > 1:
		return ErrMultiSpawn
	}

	for i, v := range l.GravityVolumes {
		if err := v.validate(); err != nil {
			return fmt.Errorf("%w %d: %v", ErrBadVolume, i, err)
		}
	}
	return nil
}

func (v VolumeSpec) validate() error {
	if !common.IsFinite(v.Min[0], v.Min[1], v.Max[0], v.Max[1], v.Direction[0], v.Direction[1]) {
		return errors.New("non-finite coordinates")
	}
	if v.Max[0] <= v.Min[0] || v.Max[1] <= v.Min[1] {
		return errors.New("max must exceed min")
	}
	if v.Scale != nil && !common.IsFinite(*v.Scale) {
		return errors.New("non-finite scale")
	}
	return nil
}

func (l *Level) Width() int {
	if len(l.Tiles) == 0 {
		return 0
	}
	return len(l.Tiles[0])
}

func (l *Level) Height() int {
	return len(l.Tiles)
}

// tileMin is the world-space lower left corner of a tile. Row 0 is the top
// row, so it sits highest in the y-up world.
func (l *Level) tileMin(col, row int) mgl64.Vec3 {
	return mgl64.Vec3{float64(col) * l.TileSize, float64(l.Height()-1-row) * l.TileSize, 0}
}

// Spawn is the centre of the spawn tile.
func (l *Level) Spawn() mgl64.Vec3 {
	half := l.TileSize / 2
	for row, line := range l.Tiles {
		for col := 0; col < len(line); col++ {
			if line[col] == TileSpawn {
				return l.tileMin(col, row).Add(mgl64.Vec3{half, half, 0})
			}
		}
	}
	return mgl64.Vec3{}
}

// Bounds covers the whole tile grid.
func (l *Level) Bounds() collision.Bounds {
	size := mgl64.Vec3{float64(l.Width()) * l.TileSize, float64(l.Height()) * l.TileSize, 0}
	return collision.BoundsFromMinMax(mgl64.Vec3{}, size)
}

func tileLayer(c byte) collision.Mask {
	switch c {
	case TileSolid:
		return collision.LayerSolid
	case TilePlatform:
		return collision.LayerPlatform
	case TileGlass:
		return collision.LayerGlass
	default:
		return 0
	}
}

// Solids merges contiguous tiles of the same layer into rectangles, growing
// each one as wide as possible and then as tall as the whole width allows.
func (l *Level) Solids() []Solid {
	w, h := l.Width(), l.Height()
	processed := make([]bool, w*h)
	var out []Solid

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := row*w + col
			if processed[idx] {
				continue
			}
			layer := tileLayer(l.Tiles[row][col])
			if layer == 0 {
				processed[idx] = true
				continue
			}

			rw := 1
			for col+rw < w {
				idx2 := row*w + col + rw
				if processed[idx2] || tileLayer(l.Tiles[row][col+rw]) != layer {
					break
				}
				rw++
			}

			rh := 1
		heightLoop:
			for row+rh < h {
				for c := col; c < col+rw; c++ {
					idx2 := (row+rh)*w + c
					if processed[idx2] || tileLayer(l.Tiles[row+rh][c]) != layer {
						break heightLoop
					}
				}
				rh++
			}

			for r := row; r < row+rh; r++ {
				for c := col; c < col+rw; c++ {
					processed[r*w+c] = true
				}
			}

			lo := l.tileMin(col, row+rh-1)
			hi := lo.Add(mgl64.Vec3{float64(rw) * l.TileSize, float64(rh) * l.TileSize, 0})
			out = append(out, Solid{Bounds: collision.BoundsFromMinMax(lo, hi), Layer: layer})
		}
	}
	return out
}

// Volumes converts the gravity volume specs in file order.
func (l *Level) Volumes() []collision.Volume {
	out := make([]collision.Volume, 0, len(l.GravityVolumes))
	for _, v := range l.GravityVolumes {
		scale := 1.0
		if v.Scale != nil {
			scale = *v.Scale
		}
		out = append(out, collision.Volume{
			Bounds:    collision.BoundsFromMinMax(mgl64.Vec3{v.Min[0], v.Min[1], 0}, mgl64.Vec3{v.Max[0], v.Max[1], 0}),
			Direction: mgl64.Vec3{v.Direction[0], v.Direction[1], 0},
			Scale:     scale,
			Priority:  v.Priority,
		})
	}
	return out
}
