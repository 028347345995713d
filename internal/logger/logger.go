// Package logger is a thin zerolog wrapper with package-level helpers.
// Output defaults to io.Discard since the terminal UI owns stdout.
package logger

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	output io.Writer = io.Discard
	logger zerolog.Logger
)

func init() {
	initLogger(true)
}

func initLogger(noColor bool) {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	}
	logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
}

// SetOutput sends log lines to w. Colors are off since w is usually a file.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	output = w
	initLogger(true)
}

// SetLevel sets the global log level. Unknown names fall back to info.
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func Debugf(format string, v ...interface{}) {
	logger.Debug().Msgf(format, v...)
}

func Infof(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	logger.Warn().Msgf(format, v...)
}

// Error logs msg with the error attached
func Error(msg string, err error) {
	logger.Error().Err(err).Msg(msg)
}

// Errorf logs a formatted message with the error attached
func Errorf(format string, err error, v ...interface{}) {
	logger.Error().Err(err).Msgf(format, v...)
}
