package collision

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/jetpawn/common"
	"go.uber.org/zap"
)

// Volume is a region that overrides gravity for pawns overlapping it.
type Volume struct {
	Bounds Bounds
	// Direction gravity pulls in while inside. Need not be normalised.
	Direction mgl64.Vec3
	// Scale multiplies the pawn's derived gravity strength.
	Scale float64
	// Priority orders overlapping volumes; the highest wins.
	Priority int
}

type volumeEntry struct {
	volume Volume
	order  int
}

type SpaceOption func(*Space)

func WithSpaceLogger(logger *zap.Logger) SpaceOption {
	return func(s *Space) {
		s.log = common.OrNop(logger)
	}
}

// Space is a Chipmunk2D backed SurfaceQuery holding the static geometry of a
// level and its gravity volumes.
type Space struct {
	space   *cp.Space
	shapes  int
	volumes int
	log     *zap.Logger
}

func NewSpace(opts ...SpaceOption) *Space {
	s := &Space{space: cp.NewSpace(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBox adds a static solid box on layer.
func (s *Space) AddBox(b Bounds, layer Mask) *cp.Shape {
	shape := cp.NewBox2(s.space.StaticBody, b.BB(), 0)
	return s.addStatic(shape, layer)
}

// AddSegment adds a static line from a to b with the given thickness radius.
func (s *Space) AddSegment(a, b mgl64.Vec3, radius float64, layer Mask) *cp.Shape {
	shape := cp.NewSegment(s.space.StaticBody, cp.Vector{X: a.X(), Y: a.Y()}, cp.Vector{X: b.X(), Y: b.Y()}, radius)
	return s.addStatic(shape, layer)
}

func (s *Space) addStatic(shape *cp.Shape, layer Mask) *cp.Shape {
	shape.SetFriction(0.8)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	s.space.AddShape(shape)
	s.shapes++
	s.log.Debug("space: added static shape",
		zap.Stringer("layer", layer),
		zap.Float64s("bb", bbValues(shape.BB())),
	)
	return shape
}

// AddVolume registers a gravity volume as a sensor on LayerVolume.
func (s *Space) AddVolume(v Volume) *cp.Shape {
	shape := cp.NewBox2(s.space.StaticBody, v.Bounds.BB(), 0)
	shape.SetSensor(true)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(LayerVolume), cp.ALL_CATEGORIES))
	shape.UserData = volumeEntry{volume: v, order: s.volumes}
	s.space.AddShape(shape)
	s.volumes++
	s.log.Debug("space: added gravity volume",
		zap.Stringer("bounds", v.Bounds),
		zap.Float64("scale", v.Scale),
		zap.Int("priority", v.Priority),
	)
	return shape
}

// CastRay returns the nearest surface on mask along dir within maxDistance.
// Gravity volumes are never hit.
func (s *Space) CastRay(origin, dir mgl64.Vec3, maxDistance float64, mask Mask) (RayHit, bool) {
	if s == nil || maxDistance <= 0 {
		return RayHit{}, false
	}
	mask &^= LayerVolume
	if mask == 0 {
		return RayHit{}, false
	}

	start := cp.Vector{X: origin.X(), Y: origin.Y()}
	end := start.Add(cp.Vector{X: dir.X() * maxDistance, Y: dir.Y() * maxDistance})
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))

	info := s.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return RayHit{}, false
	}
	return RayHit{
		Distance: info.Alpha * maxDistance,
		Point:    mgl64.Vec3{info.Point.X, info.Point.Y, origin.Z()},
		Normal:   mgl64.Vec3{info.Normal.X, info.Normal.Y, 0},
	}, true
}

// Overlapping returns the gravity volumes touching b, highest priority first
// and in insertion order among equal priorities.
func (s *Space) Overlapping(b Bounds) []Volume {
	if s == nil || s.volumes == 0 {
		return nil
	}

	var found []volumeEntry
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(LayerVolume))
	s.space.BBQuery(b.BB(), filter, func(shape *cp.Shape, _ interface{}) {
		entry, ok := shape.UserData.(volumeEntry)
		if !ok {
			return
		}
		if !entry.volume.Bounds.Overlaps(b) {
			return
		}
		found = append(found, entry)
	}, nil)

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].volume.Priority != found[j].volume.Priority {
			return found[i].volume.Priority > found[j].volume.Priority
		}
		return found[i].order < found[j].order
	})

	out := make([]Volume, len(found))
	for i, entry := range found {
		out[i] = entry.volume
	}
	return out
}

// Shapes is the number of static solid shapes added.
func (s *Space) Shapes() int {
	return s.shapes
}

// Volumes is the number of gravity volumes added.
func (s *Space) Volumes() int {
	return s.volumes
}

func bbValues(bb cp.BB) []float64 {
	return []float64{bb.L, bb.B, bb.R, bb.T}
}
