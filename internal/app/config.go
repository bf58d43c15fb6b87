package app

import (
	"github.com/adanyl0v/go-todo-server/internal/config"
)

const dotEnvPath = ".env"

func (a *Application) MustReadEnv() {
	reader := config.NewEnvReader(dotEnvPath)

	found, err := reader.LoadDotEnv()
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("path", dotEnvPath).
			Msg("failed to load dotenv file")
		panic(err)
	}
	if found {
		a.logger.Info().
			Str("path", dotEnvPath).
			Msg("loaded dotenv file")
	} else {
		a.logger.Info().
			Str("path", dotEnvPath).
			Msg("dotenv file not found")
	}

	cfg, err := reader.Read()
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	a.logger.Info().
		Str("env", cfg.Env).
		Msg("read env")

	a.cfg = cfg
}
