package collision

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mask is a bitmask of collision layers. A hull only collides with surfaces
// whose layer is set in its mask.
type Mask uint32

const (
	LayerSolid Mask = 1 << iota
	LayerPlatform
	LayerGlass
	// LayerVolume holds gravity volumes. They are never hit by feeler rays.
	LayerVolume
)

// MaskCollidable is every layer a pawn can stand on.
const MaskCollidable = LayerSolid | LayerPlatform | LayerGlass

// namedLayers is the union of every layer with a name.
const namedLayers = LayerSolid | LayerPlatform | LayerGlass | LayerVolume

var layerNames = map[string]Mask{
	"solid":    LayerSolid,
	"platform": LayerPlatform,
	"glass":    LayerGlass,
	"volume":   LayerVolume,
}

// ParseLayer resolves a layer by name.
func ParseLayer(name string) (Mask, error) {
	m, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("collision: unknown layer %q", name)
	}
	return m, nil
}

func (m Mask) Has(layer Mask) bool {
	return m&layer != 0
}

// Names lists the named layers set in the mask in a stable order.
func (m Mask) Names() []string {
	names := make([]string, 0, bits.OnesCount32(uint32(m)))
	for name, layer := range layerNames {
		if m.Has(layer) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return layerNames[names[i]] < layerNames[names[j]] })
	return names
}

func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	names := m.Names()
	if extra := m &^ namedLayers; extra != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(extra)))
	}
	return strings.Join(names, "|")
}

// UnmarshalYAML accepts either a raw integer mask or a list of layer names.
func (m *Mask) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var raw uint32
		if err := node.Decode(&raw); err == nil {
			*m = Mask(raw)
			return nil
		}
		layer, err := ParseLayer(node.Value)
		if err != nil {
			return err
		}
		*m = layer
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return fmt.Errorf("collision: decode layer list: %w", err)
		}
		var out Mask
		for _, name := range names {
			layer, err := ParseLayer(name)
			if err != nil {
				return err
			}
			out |= layer
		}
		*m = out
		return nil
	}
	return fmt.Errorf("collision: line %d: layer mask must be an integer or a list of names", node.Line)
}

// MarshalYAML writes the layer names, or the raw integer when the mask holds
// bits without a name so that it reads back unchanged.
func (m Mask) MarshalYAML() (any, error) {
	if m&^namedLayers != 0 {
		return uint32(m), nil
	}
	return m.Names(), nil
}
