package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"go.uber.org/zap"
)

// Input is the per-tick input snapshot for one pawn.
type Input struct {
	// MoveX is the lateral axis in [-1, 1].
	MoveX float64 `yaml:"move_x,omitempty"`
	// JumpPressed is true only on the tick the jump button went down.
	JumpPressed bool `yaml:"jump,omitempty"`
	// Thrust is true while the jetpack button is held.
	Thrust bool `yaml:"thrust,omitempty"`
	// Target is the world point the jetpack pushes toward.
	Target mgl64.Vec3 `yaml:"target,flow"`
}

// Mover displaces the pawn through the world, reporting blocked faces.
// *collision.Hull is the production implementation.
type Mover interface {
	Move(delta mgl64.Vec3) collision.Result
}

// Body is the entity transform the controller drives.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
}

type hullConfigurer interface {
	SetConfig(cfg collision.HullConfig) error
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.log = common.OrNop(logger)
	}
}

// State is a copy of the controller's per-tick state.
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Grounded bool
	Charge   float64
	Field    Field
}

// Controller turns input and gravity into velocity, moves the pawn through its
// hull and reconciles velocity with what the hull blocked.
type Controller struct {
	body Body
	hull Mover
	cfg  Config
	log  *zap.Logger

	gravity     float64
	jumpImpulse float64

	velocity mgl64.Vec3
	grounded bool
	charge   float64
	field    Field
	last     collision.Result
}

// New builds a controller for body moved through hull. The jetpack starts
// fully charged.
func New(body Body, hull Mover, cfg Config, opts ...Option) (*Controller, error) {
	if body == nil {
		return nil, &common.MissingDependencyError{Component: "motion controller", Dependency: "body"}
	}
	if hull == nil {
		return nil, &common.MissingDependencyError{Component: "motion controller", Dependency: "collision hull"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		body:  body,
		hull:  hull,
		log:   zap.NewNop(),
		field: DefaultField(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.applyConfig(cfg)
	c.charge = cfg.JetpackTime
	return c, nil
}

// SetConfig swaps the tunables, forwarding the collision part to the hull.
// On error nothing changes.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if h, ok := c.hull.(hullConfigurer); ok {
		if err := h.SetConfig(cfg.HullConfig()); err != nil {
			return err
		}
	}
	c.applyConfig(cfg)
	c.charge = math.Min(c.charge, cfg.JetpackTime)
	return nil
}

func (c *Controller) applyConfig(cfg Config) {
	c.cfg = cfg
	c.gravity, c.jumpImpulse = DeriveJumpValues(cfg.JumpHeight, cfg.JumpTime)
	c.log.Debug("motion controller configured",
		zap.Float64("gravity", c.gravity),
		zap.Float64("jump_impulse", c.jumpImpulse),
		zap.Stringer("ground", cfg.Ground),
	)
}

// Tick advances the pawn by dt seconds. fields are the gravity volumes the
// pawn overlaps, highest priority first. A non-positive or non-finite dt does
// nothing.
func (c *Controller) Tick(dt float64, in Input, fields []Field) collision.Result {
	if !common.IsFinite(dt) || dt <= 0 {
		return collision.Result{}
	}

	c.rechargeJetpack(dt)
	c.field = resolveField(fields)
	ground := c.groundSide()

	c.jump(in, ground)
	c.accelerate(dt, in.MoveX, ground)
	c.thrust(dt, in)
	c.velocity = c.velocity.Add(c.field.Direction.Mul(c.gravity * c.field.Scale * dt))

	res := c.hull.Move(c.velocity.Mul(dt))
	if res.HitTop || res.HitBottom {
		c.velocity[1] = 0
	}
	if res.HitLeft || res.HitRight {
		c.velocity[0] = 0
	}
	c.body.SetPosition(c.body.Position().Add(res.Distance))

	wasGrounded := c.grounded
	c.grounded = res.Hit(ground)
	if c.grounded != wasGrounded {
		c.log.Debug("pawn ground contact changed",
			zap.Bool("grounded", c.grounded),
			zap.Stringer("ground", ground),
		)
	}
	c.last = res
	return res
}

func (c *Controller) rechargeJetpack(dt float64) {
	if !c.grounded {
		return
	}
	c.charge = math.Min(c.cfg.JetpackTime, c.charge+dt)
}

// groundSide is the face that counts as standing on something this tick.
func (c *Controller) groundSide() collision.Side {
	if c.cfg.Ground != GroundGravity {
		return collision.SideBottom
	}
	d := c.field.Direction
	if math.Abs(d.X()) > math.Abs(d.Y()) {
		return collision.SideFor(collision.AxisX, d.X())
	}
	if d.Y() > 0 {
		return collision.SideTop
	}
	return collision.SideBottom
}

func (c *Controller) jump(in Input, ground collision.Side) {
	if !in.JumpPressed || !c.grounded {
		return
	}
	c.velocity[ground.Axis()] = -ground.Sign() * c.jumpImpulse
}

func (c *Controller) accelerate(dt, moveX float64, ground collision.Side) {
	lateral := collision.AxisX
	if ground.Axis() == collision.AxisX {
		lateral = collision.AxisY
	}

	moveX = common.Clamp(moveX, -1, 1)
	if moveX != 0 {
		c.velocity[lateral] += c.cfg.Accel * moveX * dt
		return
	}
	if !c.grounded {
		return
	}

	// friction: slow toward zero without overshooting
	v := c.velocity[lateral]
	step := c.cfg.Accel * dt
	if math.Abs(v) <= step {
		c.velocity[lateral] = 0
		return
	}
	c.velocity[lateral] = v - math.Copysign(step, v)
}

func (c *Controller) thrust(dt float64, in Input) {
	if !in.Thrust || c.charge <= 0 {
		return
	}
	dir := in.Target.Sub(c.body.Position())
	dir[2] = 0
	if l := dir.Len(); l > common.Epsilon {
		c.velocity = c.velocity.Add(dir.Mul(c.cfg.JetpackImpulse * dt / l))
	}
	c.charge = math.Max(0, c.charge-dt)
}

// GroundSide is the hull face that counts as ground under the current field.
func (c *Controller) GroundSide() collision.Side {
	return c.groundSide()
}

// Teleport moves the pawn without sweeping and drops its velocity and
// ground contact.
func (c *Controller) Teleport(p mgl64.Vec3) {
	c.body.SetPosition(p)
	c.velocity = mgl64.Vec3{}
	c.grounded = false
	c.last = collision.Result{}
}

func (c *Controller) Velocity() mgl64.Vec3 {
	return c.velocity
}

// SetVelocity overrides the current velocity, e.g. on respawn.
func (c *Controller) SetVelocity(v mgl64.Vec3) {
	c.velocity = v
}

func (c *Controller) Grounded() bool {
	return c.grounded
}

// Charge is the remaining jetpack time in seconds.
func (c *Controller) Charge() float64 {
	return c.charge
}

// Gravity is the derived gravity strength before any volume scaling.
func (c *Controller) Gravity() float64 {
	return c.gravity
}

func (c *Controller) JumpImpulse() float64 {
	return c.jumpImpulse
}

// GravityDirection is the unit direction gravity pulled in on the last tick.
func (c *Controller) GravityDirection() mgl64.Vec3 {
	return c.field.Direction
}

func (c *Controller) Config() Config {
	return c.cfg
}

// LastResult is the hull result of the most recent tick.
func (c *Controller) LastResult() collision.Result {
	return c.last
}

func (c *Controller) Snapshot() State {
	return State{
		Position: c.body.Position(),
		Velocity: c.velocity,
		Grounded: c.grounded,
		Charge:   c.charge,
		Field:    c.field,
	}
}
