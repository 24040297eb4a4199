package collision

import "github.com/go-gl/mathgl/mgl64"

// RayHit is the nearest surface found by a ray cast.
type RayHit struct {
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
}

// SurfaceQuery casts rays against collidable geometry. dir is a unit vector;
// only surfaces whose layer is in mask are considered and only hits within
// maxDistance are reported. A ray starting inside a surface ignores it.
type SurfaceQuery interface {
	CastRay(origin, dir mgl64.Vec3, maxDistance float64, mask Mask) (RayHit, bool)
}

// BoundsSource reports the live collider box of an entity for the current tick.
type BoundsSource interface {
	Bounds() Bounds
}

// BoundsFunc adapts a function to BoundsSource.
type BoundsFunc func() Bounds

func (f BoundsFunc) Bounds() Bounds {
	return f()
}

// Probe describes one feeler cast, for debug visualisation.
type Probe struct {
	Axis     Axis
	Origin   mgl64.Vec3
	Dir      mgl64.Vec3
	Length   float64
	Hit      bool
	Distance float64
}

// End is the point the feeler reached: the hit point or the tip of the ray.
func (p Probe) End() mgl64.Vec3 {
	length := p.Length
	if p.Hit {
		length = p.Distance
	}
	return p.Origin.Add(p.Dir.Mul(length))
}

// ProbeObserver receives every feeler cast by a hull.
type ProbeObserver interface {
	ObserveProbe(p Probe)
}

type ProbeObserverFunc func(p Probe)

func (f ProbeObserverFunc) ObserveProbe(p Probe) {
	f(p)
}
