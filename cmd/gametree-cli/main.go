// Command gametree-cli drives the tic-tac-toe AI over a line protocol on
// stdin/stdout, or searches a game scripted in Lua.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/config"
	"github.com/hailam/gametree/internal/console"
	"github.com/hailam/gametree/internal/engine"
	"github.com/hailam/gametree/internal/luagame"
)

var (
	configPath = flag.String("config", "", "path to a JSON config file")
	luaScript  = flag.String("lua", "", "search the initial state of a Lua game script and exit")
	depth      = flag.Int("depth", -1, "search depth, default from config")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr)
	if *depth >= 0 {
		cfg.Engine.MaxDepth = *depth
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("cpu-profile-create-failed")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("cpu-profile-start-failed")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu-profile-enabled")
	}

	if *luaScript != "" {
		if err := searchLua(*luaScript, cfg.Engine); err != nil {
			log.Error().Err(err).Str("script", *luaScript).Msg("lua-search-failed")
			os.Exit(1)
		}
		return
	}

	c, err := console.New(cfg.Engine, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("console-init-failed")
	}
	if err := c.Run(os.Stdin); err != nil {
		log.Error().Err(err).Msg("console-read-failed")
	}
}

func searchLua(path string, settings engine.Settings) error {
	g, err := luagame.LoadFile(path)
	if err != nil {
		return err
	}
	defer g.Close()

	m, err := engine.NewMinimax[string, string](g, settings)
	if err != nil {
		return err
	}
	m.SetStateHash(luagame.Fingerprint)

	res, err := m.Search(g.InitialState(), true)
	if err != nil {
		return err
	}
	if !res.Found {
		fmt.Println("bestmove none")
	} else {
		fmt.Printf("bestmove %s score %g\n", res.Move, res.Score)
	}
	fmt.Println(m.Stats())
	return nil
}
