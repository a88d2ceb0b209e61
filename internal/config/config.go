// Package config loads the JSON configuration shared by the commands.
package config

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/engine"
	"github.com/hailam/gametree/internal/tictactoe"
)

// Config is the full application configuration.
type Config struct {
	Engine   engine.Settings `json:"engine"`
	Storage  StorageConfig   `json:"storage"`
	Server   ServerConfig    `json:"server"`
	Arena    ArenaConfig     `json:"arena"`
	LogLevel string          `json:"log_level"`
}

// StorageConfig locates the database. An empty Dir means the platform data
// directory.
type StorageConfig struct {
	Dir      string `json:"dir"`
	InMemory bool   `json:"in_memory"`
}

// ServerConfig configures the move service.
type ServerConfig struct {
	Addr         string   `json:"addr"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

// ArenaConfig configures self-play.
type ArenaConfig struct {
	Games         int  `json:"games"`
	Workers       int  `json:"workers"`
	Depth         int  `json:"depth"`
	RandomOpening bool `json:"random_opening"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: tictactoe.DefaultSettings(),
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(5 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
		},
		Arena: ArenaConfig{
			Games:         18,
			Workers:       4,
			Depth:         tictactoe.PerfectDepth,
			RandomOpening: true,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config: read")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the commands cannot use.
func (c Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return errors.Wrap(err, "config: engine")
	}
	if c.Arena.Games < 1 || c.Arena.Workers < 1 {
		return errors.Errorf("config: arena needs at least one game and one worker, got %d and %d",
			c.Arena.Games, c.Arena.Workers)
	}
	if c.Arena.Depth < 0 {
		return errors.Wrapf(engine.ErrNegativeDepth, "config: arena depth %d", c.Arena.Depth)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config: log level")
	}
	return nil
}

// Level returns the configured log level, info if it does not parse.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetupLogging points the global zerolog logger at w with a console writer
// and applies the configured level.
func (c Config) SetupLogging(w io.Writer) {
	zerolog.SetGlobalLevel(c.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
}
