package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-server/internal/config"
)

func newDefaultLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	logger.Info().Msg("initialized default logger")
	return logger
}

func (a *Application) MustInitApplicationLogger() {
	level, w, err := loggerSettings(a.cfg.Env, a.cfg.Log, os.Stdout)
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("env", a.cfg.Env).
			Str("level", a.cfg.Log.Level).
			Msg("invalid logger settings")
		panic(err)
	}

	zerolog.SetGlobalLevel(level)
	a.logger = a.logger.Output(w).
		With().
		Str("service", a.cfg.Log.Service).
		Str("env", a.cfg.Env).
		Logger()
	a.logger.Info().
		Stringer("level", level).
		Msg("initialized application logger")
}

// loggerSettings picks the level and writer for env. Local runs get a
// human-readable console writer; an explicit level wins over the env
// default.
func loggerSettings(env string, logCfg config.LogConfig, out io.Writer) (zerolog.Level, io.Writer, error) {
	var level zerolog.Level
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvProd:
		level = zerolog.InfoLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = out
		out = consoleWriter
	default:
		return zerolog.NoLevel, nil, fmt.Errorf("unknown env: %s", env)
	}

	if logCfg.Level != "" {
		parsed, err := zerolog.ParseLevel(logCfg.Level)
		if err != nil {
			return zerolog.NoLevel, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	return level, out, nil
}
