package main

import (
	"fmt"
	"os"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/jetpawn/collision"
	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/ecs"
	"github.com/milk9111/jetpawn/ecs/component"
	"github.com/milk9111/jetpawn/ecs/entity"
	"github.com/milk9111/jetpawn/ecs/system"
	"github.com/milk9111/jetpawn/levels"
	"github.com/milk9111/jetpawn/prefabs"
	"github.com/milk9111/jetpawn/replay"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tps        = 60
)

type GameOptions struct {
	Level      string
	Prefab     string
	Debug      bool
	RecordPath string
	Watch      bool
	// Pilot names a script in prefabs/scripts that drives the player
	// instead of the keyboard.
	Pilot  string
	Logger *zap.Logger
}

// driver fills the player's input each step and can queue a respawn so that
// it goes through the input stream and gets recorded.
type driver interface {
	ecs.System
	RequestRespawn()
}

type Game struct {
	opts  GameOptions
	log   *zap.Logger
	clock common.Clock

	world  *ecs.World
	sched  *ecs.Scheduler
	render *system.RenderSystem
	input  driver
	player ecs.Entity
	spec   prefabs.PawnSpec

	recorder *replay.Recorder
	watcher  *prefabs.Watcher

	paused  bool
	pauseUI *ebitenui.UI
	quit    bool
	frames  int
}

func NewGame(opts GameOptions) (*Game, error) {
	g := &Game{
		opts:   opts,
		log:    common.OrNop(opts.Logger),
		clock:  common.FixedClock{Step: 1.0 / tps},
		render: system.NewRenderSystem(),
	}
	g.render.SetDebug(opts.Debug)

	spec, err := prefabs.LoadPawnSpec(opts.Prefab)
	if err != nil {
		return nil, err
	}
	g.spec = spec

	if err := g.loadLevel(); err != nil {
		return nil, err
	}
	if opts.RecordPath != "" {
		g.recorder = replay.NewRecorder(opts.Level, spec)
	}
	if opts.Watch {
		g.startWatcher()
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

// loadLevel builds a fresh world for the configured level and player spec.
func (g *Game) loadLevel() error {
	lvl, err := levels.Load(g.opts.Level)
	if err != nil {
		return err
	}

	world := ecs.NewWorld()
	space := collision.NewSpace(collision.WithSpaceLogger(g.log.Named("space")))
	if err := entity.BuildLevel(world, space, lvl); err != nil {
		return err
	}

	playerOpts := []entity.PlayerOption{entity.WithPlayerLogger(g.log.Named("pawn"))}
	if g.opts.Debug {
		playerOpts = append(playerOpts, entity.WithProbeTrace())
	}
	player, err := entity.BuildPlayer(world, space, g.spec, lvl.Spawn(), playerOpts...)
	if err != nil {
		return err
	}
	if _, err := entity.BuildCamera(world, g.spec.Camera, lvl.Spawn()); err != nil {
		return err
	}

	input, err := g.newDriver()
	if err != nil {
		return err
	}

	g.world = world
	g.player = player
	g.input = input
	g.sched = ecs.NewScheduler(
		input,
		system.NewPawnSystem(space, g.log.Named("pawn")),
		system.NewPickSystem(space, g.log.Named("pick")),
		system.NewCameraSystem(),
		g.render,
	)
	g.log.Info("level loaded",
		zap.String("level", lvl.Name),
		zap.Int("solids", space.Shapes()),
		zap.Int("volumes", space.Volumes()),
	)
	return nil
}

func (g *Game) newDriver() (driver, error) {
	if g.opts.Pilot == "" {
		return system.NewInputSystem(baseWidth, baseHeight), nil
	}
	src, err := prefabs.LoadScript(g.opts.Pilot)
	if err != nil {
		return nil, err
	}
	return system.NewPilotSystem(g.opts.Pilot, src, g.log.Named("pilot"))
}

func (g *Game) startWatcher() {
	var dirs []string
	for _, dir := range []string{prefabs.Dir(), "levels"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return
	}
	w, err := prefabs.NewWatcher(dirs, prefabs.WithWatcherLogger(g.log.Named("watch")))
	if err != nil {
		g.log.Warn("hot reload disabled", zap.Error(err))
		return
	}
	g.watcher = w
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.render.SetDebug(!g.render.Debug())
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.respawn()
	}

	g.frames++
	dt := g.clock.DeltaTime()
	g.sched.Update(g.world, dt)

	for _, evt := range g.world.Events().Drain() {
		g.log.Debug("collision event",
			zap.Stringer("entity", evt.Entity),
			zap.String("kind", string(evt.Kind)),
			zap.Stringer("side", evt.Side),
		)
	}
	if g.recorder != nil {
		if in, ok := ecs.Get(g.world, g.player, component.InputComponent.Kind()); ok {
			g.recorder.Record(replay.FrameOf(dt, *in))
		}
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	if prefabs.Matches(path, g.opts.Prefab) {
		spec, err := prefabs.LoadPawnSpec(g.opts.Prefab)
		if err == nil {
			err = entity.ReloadPawn(g.world, g.player, spec)
		}
		if err != nil {
			g.log.Warn("prefab rejected, keeping previous tunables", zap.String("path", path), zap.Error(err))
			return
		}
		g.spec = spec
		if g.recorder != nil {
			g.recorder.SetSpec(spec)
		}
		g.log.Info("prefab reloaded", zap.String("path", path))
		return
	}

	if levels.Matches(path, g.opts.Level) {
		if g.recorder != nil {
			g.log.Warn("level changed while recording, ignoring", zap.String("path", path))
			return
		}
		if err := g.loadLevel(); err != nil {
			g.log.Warn("level rejected, keeping current level", zap.String("path", path), zap.Error(err))
		}
	}
}

// respawn queues a respawn for the next step.
func (g *Game) respawn() {
	g.input.RequestRespawn()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.sched.Draw(g.world, screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()), baseWidth-130, 10)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// Close stops the watcher and writes the recording, if any.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.recorder == nil || g.recorder.Len() == 0 {
		return
	}
	rec := g.recorder.Recording()
	if err := replay.Save(g.opts.RecordPath, rec); err != nil {
		g.log.Error("failed to save recording", zap.Error(err))
		return
	}
	g.log.Info("recording saved",
		zap.String("path", g.opts.RecordPath),
		zap.Stringer("id", rec.ID),
		zap.Int("frames", len(rec.Frames)),
	)
}
