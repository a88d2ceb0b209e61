// Command gametree-arena plays the tic-tac-toe AI against itself and
// optionally records the games.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/arena"
	"github.com/hailam/gametree/internal/config"
	"github.com/hailam/gametree/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to a JSON config file")
	games      = flag.Int("games", 0, "number of games, default from config")
	workers    = flag.Int("workers", 0, "concurrent games, default from config")
	depth      = flag.Int("depth", -1, "search depth, default from config")
	record     = flag.Bool("record", false, "store every game in the database")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr)

	opts := arena.Options{
		Games:         cfg.Arena.Games,
		Workers:       cfg.Arena.Workers,
		Depth:         cfg.Arena.Depth,
		RandomOpening: cfg.Arena.RandomOpening,
		Settings:      &cfg.Engine,
	}
	if *games > 0 {
		opts.Games = *games
	}
	if *workers > 0 {
		opts.Workers = *workers
	}
	if *depth >= 0 {
		opts.Depth = *depth
	}

	if *record {
		store, err := storage.OpenConfigured(cfg.Storage.Dir, cfg.Storage.InMemory)
		if err != nil {
			log.Fatal().Err(err).Msg("storage-open-failed")
		}
		defer store.Close()
		opts.OnGame = func(g arena.Game) error {
			_, err := store.SaveRecord(storage.GameRecord{
				Moves:   g.Moves,
				Outcome: g.Outcome.String(),
				Depth:   opts.Depth,
			})
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := arena.Run(ctx, opts)
	if err != nil {
		log.Error().Err(err).Msg("arena-failed")
		os.Exit(1)
	}
	fmt.Println(summary)
}
