// Command gametree-server serves tic-tac-toe moves over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/config"
	httpserver "github.com/hailam/gametree/internal/server/http"
)

var (
	configPath = flag.String("config", "", "path to a JSON config file")
	addr       = flag.String("addr", "", "listen address, default from config")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	svc, err := httpserver.NewService(cfg.Engine)
	if err != nil {
		log.Fatal().Err(err).Msg("service-init-failed")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpserver.NewRouter(svc),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown-failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Int("depth", cfg.Engine.MaxDepth).Msg("server-listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server-failed")
	}
	log.Info().Str("stats", svc.Stats().String()).Msg("server-stopped")
}
