package gcm

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds the pipeline logger from config. Unknown levels fall
// back to info; anything but "json" renders for a console.
func NewLogger(cfg *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
