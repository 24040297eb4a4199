package levels

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxLevel = `
name: box
tiles:
  - "####"
  - "#P.#"
  - "#..="
  - "####"
`

func TestParseDefaults(t *testing.T) {
	lvl, err := Parse([]byte(boxLevel))
	require.NoError(t, err)
	assert.Equal(t, "box", lvl.Name)
	assert.Equal(t, 1.0, lvl.TileSize)
	assert.Equal(t, 4, lvl.Width())
	assert.Equal(t, 4, lvl.Height())
	assert.Equal(t, mgl64.Vec3{1.5, 2.5, 0}, lvl.Spawn())

	b := lvl.Bounds()
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, b.Min())
	assert.Equal(t, mgl64.Vec3{4, 4, 0}, b.Max())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"no_tiles", "name: x\n", ErrEmptyLevel},
		{"ragged", "tiles: ['###', '#P']\n", ErrRaggedTiles},
		{"unknown", "tiles: ['#P?']\n", ErrUnknownTile},
		{"no_spawn", "tiles: ['###']\n", ErrNoSpawn},
		{"two_spawns", "tiles: ['PP']\n", ErrMultiSpawn},
		{"negative_tile_size", "tile_size: -2\ntiles: ['P']\n", ErrBadTileSize},
		{"inverted_volume", "tiles: ['P']\ngravity_volumes:\n  - {min: [2, 2], max: [1, 3], direction: [0, 1]}\n", ErrBadVolume},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}

	_, err := Parse([]byte("tiles: [[1, 2]"))
	require.Error(t, err)
}

func TestSolidsMergeRectangles(t *testing.T) {
	lvl, err := Parse([]byte(boxLevel))
	require.NoError(t, err)

	rect := func(x0, y0, x1, y1 float64, layer collision.Mask) Solid {
		return Solid{
			Bounds: collision.BoundsFromMinMax(mgl64.Vec3{x0, y0, 0}, mgl64.Vec3{x1, y1, 0}),
			Layer:  layer,
		}
	}
	want := []Solid{
		rect(0, 3, 4, 4, collision.LayerSolid),    // top row
		rect(0, 0, 1, 3, collision.LayerSolid),    // left column down to the floor
		rect(3, 2, 4, 3, collision.LayerSolid),    // right wall above the platform
		rect(3, 1, 4, 2, collision.LayerPlatform), // platform tile
		rect(1, 0, 4, 1, collision.LayerSolid),    // rest of the floor
	}
	assert.Equal(t, want, lvl.Solids())
}

func TestSolidsCoverEveryTileOnce(t *testing.T) {
	for _, name := range []string{"intro", "flat"} {
		t.Run(name, func(t *testing.T) {
			lvl, err := Load(name)
			require.NoError(t, err)
			solids := lvl.Solids()

			for row, line := range lvl.Tiles {
				for col := 0; col < len(line); col++ {
					center := lvl.tileMin(col, row).Add(mgl64.Vec3{lvl.TileSize / 2, lvl.TileSize / 2, 0})
					var covering []Solid
					for _, s := range solids {
						if s.Bounds.Contains(center) {
							covering = append(covering, s)
						}
					}

					layer := tileLayer(line[col])
					if layer == 0 {
						assert.Empty(t, covering, "row %d col %d", row, col)
						continue
					}
					require.Len(t, covering, 1, "row %d col %d", row, col)
					assert.Equal(t, layer, covering[0].Layer)
				}
			}
			assert.Less(t, len(solids), lvl.Width()*lvl.Height()/4, "tiles should be merged")
		})
	}
}

func TestVolumes(t *testing.T) {
	lvl, err := Parse([]byte(`
tiles: ['P']
gravity_volumes:
  - {min: [0, 0], max: [2, 4], direction: [0, 1]}
  - {min: [1, 1], max: [3, 3], direction: [1, 0], scale: 0, priority: 2}
`))
	require.NoError(t, err)

	vols := lvl.Volumes()
	require.Len(t, vols, 2)
	assert.Equal(t, 1.0, vols[0].Scale)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, vols[0].Direction)
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, vols[0].Bounds.Center)
	assert.Equal(t, 0.0, vols[1].Scale, "an explicit zero scale is kept")
	assert.Equal(t, 2, vols[1].Priority)
}

func TestLoadEmbedded(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	assert.Equal(t, []string{"flat", "intro"}, names)

	lvl, err := Load("levels/intro.yaml")
	require.NoError(t, err)
	assert.Equal(t, "intro", lvl.Name)
	assert.Len(t, lvl.Volumes(), 3)

	_, err = Load("missing")
	require.Error(t, err)
}
