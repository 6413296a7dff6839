// internal/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rollbar/rollbar-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Unknown levels fall back to info.
func Init(level string, production bool) {
	if production {
		// Plain JSON lines in production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Use ConsoleWriter for human-readable, colorized output in development
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	// Add a hook to include the caller's file and line number
	log.Logger = log.With().Caller().Logger()
}

// EnableRollbar forwards error-level and worse log messages to Rollbar.
// It does nothing when token is empty.
func EnableRollbar(token, environment string) {
	if token == "" {
		return
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetEnabled(true)

	log.Logger = log.Logger.Hook(RollbarHook{})
	log.Info().Str("environment", environment).Msg("Rollbar error reporting enabled")
}

// Flush waits for queued Rollbar items to be sent.
func Flush() {
	rollbar.Wait()
}

// RollbarHook is a zerolog hook reporting error, fatal and panic messages.
type RollbarHook struct{}

func (RollbarHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	switch level {
	case zerolog.ErrorLevel:
		rollbar.Error(msg)
	case zerolog.FatalLevel, zerolog.PanicLevel:
		rollbar.Critical(msg)
		rollbar.Wait()
	}
}
