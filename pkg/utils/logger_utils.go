package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global zerolog logger.
// pretty selects the human-readable ConsoleWriter; otherwise JSON lines are written to stderr.
func InitLogger(level string, pretty bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var output io.Writer = os.Stderr
	if pretty {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	log.Debug().Str("level", lvl.String()).Msg("Logger initialized")
}

// LogError is a helper to log an error with zerolog.
func LogError(err error, message string, fields ...map[string]interface{}) {
	if err == nil {
		return
	}
	event := log.Error().Err(err)
	for _, f := range fields {
		event = event.Fields(f)
	}
	event.Msg(message)
}

// LogWarn logs an expected failure, e.g. a rejected duplicate name.
func LogWarn(err error, message string, fields ...map[string]interface{}) {
	event := log.Warn()
	if err != nil {
		event = event.Err(err)
	}
	for _, f := range fields {
		event = event.Fields(f)
	}
	event.Msg(message)
}

// LogInfo is a helper to log an informational message.
func LogInfo(message string, fields ...map[string]interface{}) {
	event := log.Info()
	for _, f := range fields {
		event = event.Fields(f)
	}
	event.Msg(message)
}

// LogDebug is a helper to log a debug message.
func LogDebug(message string, fields ...map[string]interface{}) {
	event := log.Debug()
	for _, f := range fields {
		event = event.Fields(f)
	}
	event.Msg(message)
}
