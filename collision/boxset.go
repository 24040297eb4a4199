package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoxSet is a SurfaceQuery over a flat list of static boxes. It is exact and
// allocation free, which makes it handy for small rooms and for tests where a
// full physics space is more than needed.
type BoxSet struct {
	boxes  []Bounds
	layers []Mask
}

func (s *BoxSet) Add(b Bounds, layer Mask) {
	s.boxes = append(s.boxes, b)
	s.layers = append(s.layers, layer)
}

func (s *BoxSet) Len() int {
	return len(s.boxes)
}

func (s *BoxSet) CastRay(origin, dir mgl64.Vec3, maxDistance float64, mask Mask) (RayHit, bool) {
	if s == nil || maxDistance <= 0 {
		return RayHit{}, false
	}

	dx := dir.X() * maxDistance
	dy := dir.Y() * maxDistance
	closestT := math.Inf(1)
	var closestN mgl64.Vec3

	for i, box := range s.boxes {
		if !mask.Has(s.layers[i]) || box.Contains(origin) {
			continue
		}
		lo, hi := box.Min(), box.Max()
		t, n, ok := segmentAABBHit(origin.X(), origin.Y(), dx, dy, lo.X(), lo.Y(), hi.X(), hi.Y())
		if ok && t < closestT {
			closestT = t
			closestN = n
		}
	}

	if math.IsInf(closestT, 1) {
		return RayHit{}, false
	}
	distance := closestT * maxDistance
	return RayHit{
		Distance: distance,
		Point:    origin.Add(dir.Mul(distance)),
		Normal:   closestN,
	}, true
}

// segmentAABBHit clips the segment (x0,y0)+(dx,dy)*t, t in [0,1], against the
// box with the slab method and returns the entry parameter and face normal.
func segmentAABBHit(x0, y0, dx, dy, minX, minY, maxX, maxY float64) (float64, mgl64.Vec3, bool) {
	tmin := 0.0
	tmax := 1.0
	var normal mgl64.Vec3

	if dx != 0 {
		invD := 1.0 / dx
		t1 := (minX - x0) * invD
		t2 := (maxX - x0) * invD
		n := mgl64.Vec3{-1, 0, 0}
		if t1 > t2 {
			t1, t2 = t2, t1
			n = mgl64.Vec3{1, 0, 0}
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		tmax = math.Min(tmax, t2)
	} else if x0 < minX || x0 > maxX {
		return 0, normal, false
	}

	if dy != 0 {
		invD := 1.0 / dy
		t1 := (minY - y0) * invD
		t2 := (maxY - y0) * invD
		n := mgl64.Vec3{0, -1, 0}
		if t1 > t2 {
			t1, t2 = t2, t1
			n = mgl64.Vec3{0, 1, 0}
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		tmax = math.Min(tmax, t2)
	} else if y0 < minY || y0 > maxY {
		return 0, normal, false
	}

	// tmax == 0 means the segment starts on a face and leaves the box.
	if tmax >= tmin && tmax > 0 {
		return tmin, normal, true
	}
	return 0, normal, false
}
