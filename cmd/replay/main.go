// Command replay re-simulates a recorded session headless and checks that
// every run produces the same trajectory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/milk9111/jetpawn/common"
	"github.com/milk9111/jetpawn/ecs/system"
	"github.com/milk9111/jetpawn/prefabs"
	"github.com/milk9111/jetpawn/replay"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const step = 1.0 / 60

func main() {
	in := flag.String("in", "", "recording to replay")
	runs := flag.Int("n", 4, "number of concurrent runs to compare")
	debug := flag.Bool("debug", false, "enable debug logging")
	generate := flag.Int("generate", 0, "synthesize a recording with this many frames instead of reading -in")
	levelName := flag.String("level", "intro", "level for -generate")
	prefab := flag.String("prefab", "pawn.yaml", "pawn prefab for -generate")
	pilot := flag.String("pilot", "", "drive -generate with this script instead of random input")
	seed := flag.Int64("seed", 1, "random seed for -generate")
	out := flag.String("out", "", "write the synthesized recording here")
	flag.Parse()

	logger := common.NewLogger(*debug)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec, err := loadRecording(ctx, source{
		path:   *in,
		frames: *generate,
		level:  *levelName,
		prefab: *prefab,
		pilot:  *pilot,
		seed:   *seed,
	}, logger)
	if err != nil {
		logger.Error("no recording", zap.Error(err))
		os.Exit(2)
	}
	if *out != "" {
		if err := replay.Save(*out, rec); err != nil {
			logger.Error("failed to write recording", zap.Error(err))
			os.Exit(2)
		}
		logger.Info("recording written", zap.String("path", *out))
	}

	sums, err := runAll(ctx, rec, *runs, logger)
	if err != nil {
		logger.Error("replay failed", zap.Error(err))
		os.Exit(1)
	}
	for i, sum := range sums[1:] {
		if sum != sums[0] {
			logger.Error("trajectory diverged",
				zap.Int("run", i+1),
				zap.Uint64("want", sums[0]),
				zap.Uint64("got", sum),
			)
			os.Exit(1)
		}
	}
	logger.Info("replay deterministic",
		zap.Stringer("recording", rec.ID),
		zap.String("level", rec.Level),
		zap.Int("frames", len(rec.Frames)),
		zap.Int("runs", len(sums)),
		zap.String("checksum", fmt.Sprintf("%016x", sums[0])),
	)
}

// source says where the recording comes from: a file, or a synthesized
// session when frames > 0.
type source struct {
	path   string
	frames int
	level  string
	prefab string
	pilot  string
	seed   int64
}

func loadRecording(ctx context.Context, src source, logger *zap.Logger) (replay.Recording, error) {
	if src.frames <= 0 {
		if src.path == "" {
			return replay.Recording{}, fmt.Errorf("either -in or -generate is required")
		}
		return replay.Load(src.path)
	}

	spec, err := prefabs.LoadPawnSpec(src.prefab)
	if err != nil {
		return replay.Recording{}, err
	}
	if src.pilot == "" {
		return replay.Synthesize(src.level, spec, src.frames, step, src.seed), nil
	}

	script, err := prefabs.LoadScript(src.pilot)
	if err != nil {
		return replay.Recording{}, err
	}
	pilot, err := system.NewPilotSystem(src.pilot, script, logger.Named("pilot"))
	if err != nil {
		return replay.Recording{}, err
	}
	rec, _, err := replay.Drive(ctx, src.level, spec, pilot, src.frames, step, replay.WithLogger(logger))
	return rec, err
}

func runAll(ctx context.Context, rec replay.Recording, n int, logger *zap.Logger) ([]uint64, error) {
	if n < 1 {
		n = 1
	}
	sums := make([]uint64, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := range sums {
		g.Go(func() error {
			traj, err := replay.Run(ctx, rec, replay.WithLogger(logger.With(zap.Int("run", i))))
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			sums[i] = traj.Checksum()
			final := traj.Final()
			logger.Debug("run finished",
				zap.Int("run", i),
				zap.Float64("x", final.Position.X()),
				zap.Float64("y", final.Position.Y()),
				zap.Bool("grounded", final.Grounded),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}
