package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/common"
	"go.uber.org/zap"
)

// HullConfig holds the tunables of a collision hull.
type HullConfig struct {
	// SkinWidth shrinks the probe box and pads every feeler so surfaces the
	// box already touches are not reported.
	SkinWidth float64 `yaml:"skin_width"`
	// Collidable selects which layers block the hull.
	Collidable Mask `yaml:"collidable"`
}

// DefaultHullConfig matches the values used by the shipped pawn prefab.
func DefaultHullConfig() HullConfig {
	return HullConfig{SkinWidth: 0.1, Collidable: MaskCollidable}
}

func (c HullConfig) Validate() error {
	if !common.IsFinite(c.SkinWidth) || c.SkinWidth <= 0 {
		return &common.ConfigError{Field: "skin_width", Value: c.SkinWidth, Reason: "must be positive"}
	}
	return nil
}

// fits checks the skin against the collider it will be applied to.
func (c HullConfig) fits(b Bounds) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if c.SkinWidth >= b.MinHalfExtent() {
		return &common.ConfigError{
			Field:  "skin_width",
			Value:  c.SkinWidth,
			Reason: "must be smaller than the collider half extents",
		}
	}
	return nil
}

type HullOption func(*Hull)

func WithLogger(logger *zap.Logger) HullOption {
	return func(h *Hull) {
		h.log = common.OrNop(logger)
	}
}

// WithProbeObserver reports every feeler cast to o.
func WithProbeObserver(o ProbeObserver) HullOption {
	return func(h *Hull) {
		h.observer = o
	}
}

// Hull moves a box through collidable geometry by probing each axis with
// three parallel feeler rays.
type Hull struct {
	source   BoundsSource
	query    SurfaceQuery
	cfg      HullConfig
	observer ProbeObserver
	log      *zap.Logger
}

// NewHull validates cfg against the current collider bounds.
func NewHull(source BoundsSource, query SurfaceQuery, cfg HullConfig, opts ...HullOption) (*Hull, error) {
	if source == nil {
		return nil, &common.MissingDependencyError{Component: "collision hull", Dependency: "bounds source"}
	}
	if query == nil {
		return nil, &common.MissingDependencyError{Component: "collision hull", Dependency: "surface query"}
	}

	h := &Hull{source: source, query: query, log: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.SetConfig(cfg); err != nil {
		return nil, err
	}
	return h, nil
}

// SetConfig swaps the tunables. An invalid config leaves the hull unchanged.
func (h *Hull) SetConfig(cfg HullConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.fits(h.source.Bounds()); err != nil {
		return err
	}
	h.cfg = cfg
	h.log.Debug("collision hull configured",
		zap.Float64("skin_width", cfg.SkinWidth),
		zap.Stringer("collidable", cfg.Collidable),
	)
	return nil
}

func (h *Hull) Config() HullConfig {
	return h.cfg
}

// Bounds is the live collider box.
func (h *Hull) Bounds() Bounds {
	return h.source.Bounds()
}

// Move returns the largest displacement, per axis, up to delta that does not
// enter a collidable surface, and the faces that were blocked. The vertical
// axis is resolved before the horizontal one.
func (h *Hull) Move(delta mgl64.Vec3) Result {
	live := h.source.Bounds()
	if !common.IsFinite(delta[0], delta[1], delta[2]) {
		h.log.Warn("collision hull: rejecting non-finite move", zap.Float64s("delta", delta[:]))
		return newResult(mgl64.Vec3{}, live, h.cfg.SkinWidth)
	}

	result := newResult(delta, live, h.cfg.SkinWidth)
	result = h.sweep(result, AxisY)
	result = h.sweep(result, AxisX)
	return result
}

func (h *Hull) sweep(r Result, axis Axis) Result {
	travel := r.Distance[axis]
	if travel == 0 {
		return r
	}

	var dir mgl64.Vec3
	dir[axis] = math.Copysign(1, travel)

	skin := h.cfg.SkinWidth
	length := skin + math.Abs(travel)
	nearest := length
	blocked := false

	for _, origin := range r.origins(axis) {
		hit, ok := h.query.CastRay(origin, dir, nearest, h.cfg.Collidable)
		if h.observer != nil {
			h.observer.ObserveProbe(Probe{
				Axis:     axis,
				Origin:   origin,
				Dir:      dir,
				Length:   nearest,
				Hit:      ok,
				Distance: hit.Distance,
			})
		}
		if ok && hit.Distance < nearest {
			nearest = hit.Distance
			blocked = true
		}
	}

	if !blocked {
		return r
	}
	return r.limit(axis, math.Max(nearest-skin, 0))
}
