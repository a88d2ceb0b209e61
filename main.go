// Gametree - tic-tac-toe against a minimax AI, built with Ebitengine
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/config"
	"github.com/hailam/gametree/internal/storage"
	"github.com/hailam/gametree/internal/ui"
)

var configPath = flag.String("config", "", "path to a JSON config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr)

	store, err := storage.OpenConfigured(cfg.Storage.Dir, cfg.Storage.InMemory)
	if err != nil {
		log.Warn().Err(err).Msg("storage-unavailable")
		store = nil
	} else {
		defer store.Close()
	}

	game, err := ui.NewGame(ui.Options{Settings: cfg.Engine, Storage: store})
	if err != nil {
		log.Fatal().Err(err).Msg("game-init-failed")
	}

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Gametree")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("run-failed")
	}
}
