package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
)

// ProbeTrace collects the feeler rays a hull cast during the last step.
type ProbeTrace struct {
	Probes []collision.Probe
}

func (p *ProbeTrace) ObserveProbe(probe collision.Probe) {
	p.Probes = append(p.Probes, probe)
}

func (p *ProbeTrace) Reset() {
	p.Probes = p.Probes[:0]
}

var ProbeTraceComponent = NewComponent[ProbeTrace]()

// Marker is the last surface point hit by a pick ray, with its normal.
type Marker struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Set    bool
}

var MarkerComponent = NewComponent[Marker]()
