package system

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"golang.org/x/image/colornames"
)

var (
	volumeFill   = color.RGBA{R: 80, G: 40, B: 160, A: 40}
	glassFill    = color.RGBA{R: 173, G: 216, B: 230, A: 96}
	chargeBack   = color.RGBA{R: 20, G: 20, B: 20, A: 180}
	probeMissCol = color.RGBA{R: 0, G: 200, B: 80, A: 200}
)

// RenderSystem draws the level, pawns and, in debug mode, the hull feelers.
type RenderSystem struct {
	debug bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) SetDebug(debug bool) {
	r.debug = debug
}

func (r *RenderSystem) Debug() bool {
	return r.debug
}

func (r *RenderSystem) Update(*ecs.World, float64) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}
	screen.Fill(colornames.Midnightblue)

	b := screen.Bounds()
	view := CameraViewport(w, b.Dx(), b.Dy())

	ecs.ForEach(w, component.GravityVolumeComponent.Kind(), func(_ ecs.Entity, v *component.GravityVolume) {
		r.drawVolume(screen, view, v.Volume)
	})
	ecs.ForEach(w, component.SolidComponent.Kind(), func(_ ecs.Entity, s *component.Solid) {
		fillBounds(screen, view, s.Bounds, solidColor(s.Layer))
	})

	ecs.ForEach3(w, component.PawnComponent.Kind(), component.TransformComponent.Kind(), component.BoxColliderComponent.Kind(), func(e ecs.Entity, pawn *component.Pawn, t *component.Transform, box *component.BoxCollider) {
		body := component.ColliderBody{Transform: t, Collider: box}
		clr := color.Color(colornames.Crimson)
		if pawn.Controller != nil && pawn.Controller.Grounded() {
			clr = colornames.Orange
		}
		fillBounds(screen, view, body.Bounds(), clr)

		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok && input.Thrust {
			x0, y0 := view.WorldToScreen(t.Position)
			x1, y1 := view.WorldToScreen(input.Target)
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, colornames.Lightgrey, true)
		}
		if marker, ok := ecs.Get(w, e, component.MarkerComponent.Kind()); ok && marker.Set {
			r.drawMarker(screen, view, marker)
		}
		if r.debug {
			if trace, ok := ecs.Get(w, e, component.ProbeTraceComponent.Kind()); ok {
				r.drawProbes(screen, view, trace.Probes)
			}
		}
		if pawn.Controller != nil {
			r.drawHUD(screen, pawn)
		}
	})
}

func (r *RenderSystem) drawVolume(screen *ebiten.Image, view Viewport, v collision.Volume) {
	fillBounds(screen, view, v.Bounds, volumeFill)
	strokeBounds(screen, view, v.Bounds, colornames.Mediumpurple)

	dir := v.Direction
	dir[2] = 0
	if dir.Len() == 0 {
		return
	}
	from := v.Bounds.Center
	to := from.Add(dir.Normalize().Mul(v.Bounds.MinHalfExtent()))
	x0, y0 := view.WorldToScreen(from)
	x1, y1 := view.WorldToScreen(to)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, colornames.Mediumpurple, true)
	vector.FillCircle(screen, float32(x1), float32(y1), 3, colornames.Mediumpurple, true)
}

func (r *RenderSystem) drawMarker(screen *ebiten.Image, view Viewport, m *component.Marker) {
	x0, y0 := view.WorldToScreen(m.Point)
	x1, y1 := view.WorldToScreen(m.Point.Add(m.Normal.Mul(0.5)))
	vector.FillCircle(screen, float32(x0), float32(y0), 4, colornames.Yellow, true)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, colornames.Yellow, true)
}

func (r *RenderSystem) drawProbes(screen *ebiten.Image, view Viewport, probes []collision.Probe) {
	for _, p := range probes {
		clr := color.Color(probeMissCol)
		if p.Hit {
			clr = colornames.Red
		}
		x0, y0 := view.WorldToScreen(p.Origin)
		x1, y1 := view.WorldToScreen(p.End())
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, false)
	}
}

func (r *RenderSystem) drawHUD(screen *ebiten.Image, pawn *component.Pawn) {
	c := pawn.Controller
	full := c.Config().JetpackTime
	frac := 0.0
	if full > 0 {
		frac = c.Charge() / full
	}

	const barW, barH = 120, 8
	vector.FillRect(screen, 10, 10, barW, barH, chargeBack, false)
	vector.FillRect(screen, 10, 10, float32(barW*frac), barH, colornames.Deepskyblue, false)

	if !r.debug {
		return
	}
	s := c.Snapshot()
	msg := fmt.Sprintf("pos %s\nvel %s\ngrounded %v\nground %s\ngravity %s x%.2f",
		vec{s.Position}, vec{s.Velocity}, s.Grounded, c.GroundSide(), vec{s.Field.Direction}, s.Field.Scale)
	ebitenutil.DebugPrintAt(screen, msg, 10, 24)
}

func solidColor(layer collision.Mask) color.Color {
	switch {
	case layer.Has(collision.LayerGlass):
		return glassFill
	case layer.Has(collision.LayerPlatform):
		return colornames.Peru
	default:
		return colornames.Slategray
	}
}

func screenRect(view Viewport, b collision.Bounds) (x, y, w, h float32) {
	lo, hi := b.Min(), b.Max()
	x0, y0 := view.WorldToScreen(mgl64.Vec3{lo.X(), hi.Y(), 0})
	x1, y1 := view.WorldToScreen(mgl64.Vec3{hi.X(), lo.Y(), 0})
	return float32(x0), float32(y0), float32(x1 - x0), float32(y1 - y0)
}

func fillBounds(screen *ebiten.Image, view Viewport, b collision.Bounds, clr color.Color) {
	x, y, w, h := screenRect(view, b)
	vector.FillRect(screen, x, y, w, h, clr, false)
}

func strokeBounds(screen *ebiten.Image, view Viewport, b collision.Bounds, clr color.Color) {
	x, y, w, h := screenRect(view, b)
	vector.StrokeRect(screen, x, y, w, h, 1, clr, false)
}
