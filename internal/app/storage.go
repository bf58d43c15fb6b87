package app

import (
	"context"

	"github.com/adanyl0v/go-todo-server/internal/services"
)

func (a *Application) MustOpenStorage() {
	driver, _, err := services.ParseDatabaseURL(a.cfg.DatabaseURL)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("invalid database url")
		panic(err)
	}

	logger := a.logger.With().
		Str("driver", driver).
		Logger()

	todos, err := services.Open(context.Background(), logger, a.cfg.DatabaseURL, a.cfg.Storage)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to open storage")
		panic(err)
	}
	a.todos = todos
}

func (a *Application) CloseStorage() {
	if a.todos == nil {
		return
	}
	a.todos.Close()
}
