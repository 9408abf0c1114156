package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/gfx"
	"github.com/tomz197/beestrike/internal/score"
)

func main() {
	configPath := flag.String("config", config.GetEnv("BEESTRIKE_CONFIG", ""), "path to a YAML config file")
	fullscreen := flag.Bool("fullscreen", config.GetEnvBool("FULLSCREEN", false), "start in fullscreen")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	logger := config.NewLogger(os.Stderr, "beestrike", cfg.Log.Level)
	if err != nil {
		logger.Fatal("cannot load config", "err", err)
	}

	player := audio.Open(cfg.Audio.Enabled, cfg.Audio.Volume, logger)
	defer audio.Close(player)

	g, err := gfx.New(gfx.Options{
		Game:   cfg.Game,
		Audio:  player,
		Scores: score.Open(cfg.Scores.Path),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("cannot create game", "err", err)
	}
	defer g.Close()

	ebiten.SetWindowSize(int(cfg.Game.Width), int(cfg.Game.Height))
	ebiten.SetWindowTitle("Bee Strike")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(*fullscreen)

	logger.Info("starting", "width", cfg.Game.Width, "height", cfg.Game.Height, "audio", player.Enabled())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game error", "err", err)
	}
}
