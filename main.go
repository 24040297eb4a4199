package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/jetpawn/common"
	"go.uber.org/zap"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and probe drawing")
	levelName := flag.String("level", "intro", "level name in levels/ (basename, .yaml optional)")
	prefab := flag.String("prefab", "pawn.yaml", "pawn prefab in prefabs/")
	record := flag.String("record", "", "write a replay of this session to the given path on exit")
	pilot := flag.String("pilot", "", "script in prefabs/scripts that drives the player")
	watch := flag.Bool("watch", true, "hot reload prefabs and levels edited on disk")
	flag.Parse()

	logger := common.NewLogger(*debug)
	defer func() { _ = logger.Sync() }()

	game, err := NewGame(GameOptions{
		Level:      *levelName,
		Prefab:     *prefab,
		Debug:      *debug,
		RecordPath: *record,
		Watch:      *watch,
		Pilot:      *pilot,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		os.Exit(1)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("jetpawn")
	ebiten.SetTPS(tps)

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		logger.Error("game exited", zap.Error(err))
	}
}
