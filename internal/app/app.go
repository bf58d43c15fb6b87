package app

import (
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-server/internal/config"
	"github.com/adanyl0v/go-todo-server/internal/services"
)

// Application owns the process-wide resources. They are created by the
// Must* methods in order and handed to the HTTP layer explicitly.
type Application struct {
	logger zerolog.Logger
	cfg    *config.Config
	todos  services.TodoService
}

func New() *Application {
	return &Application{
		logger: newDefaultLogger(),
	}
}
