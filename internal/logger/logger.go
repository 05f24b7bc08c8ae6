package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog instance. Call once, before anything logs.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			zerolog.SetGlobalLevel(parsed)
		}
	}
}
