package storage

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// badgerLogger forwards badger's printf-style logging to zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

var _ badger.Logger = badgerLogger{}

func newBadgerLogger() badgerLogger {
	return badgerLogger{l: log.With().Str("component", "badger").Logger()}
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(trim(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(trim(format), args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Info().Msgf(trim(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug().Msgf(trim(format), args...)
}

// badger terminates most formats with a newline.
func trim(format string) string {
	return strings.TrimRight(format, "\n")
}
