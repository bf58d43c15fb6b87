package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-server/internal/services"
)

type Handler interface {
	HandleRequestLogger(c *gin.Context)

	HandleListTodos(c *gin.Context)
	HandleCreateTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleHealth(c *gin.Context)
	HandleFallback(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	todos  services.TodoService
}

func New(
	logger zerolog.Logger,
	todoService services.TodoService,
) Handler {
	return &handlerImpl{
		logger: logger,
		todos:  todoService,
	}
}

// RegisterRoutes binds the handlers. The GET routes are the legacy
// surface and must not change; the POST, PUT and DELETE routes are
// aliases for clients that use conventional methods. /healthz is not
// part of the legacy surface and shadows the fallback for that path.
// The engine should have RedirectTrailingSlash disabled so that every
// unmatched path reaches the fallback.
func RegisterRoutes(router *gin.Engine, h Handler) {
	router.GET("/", h.HandleListTodos)
	router.GET("/healthz", h.HandleHealth)

	router.GET("/create", h.HandleCreateTodo)
	router.POST("/create", h.HandleCreateTodo)

	router.GET("/delete/:id", h.HandleDeleteTodo)
	router.DELETE("/delete/:id", h.HandleDeleteTodo)

	router.GET("/update", h.HandleUpdateTodo)
	router.PUT("/update", h.HandleUpdateTodo)

	router.NoRoute(h.HandleFallback)
	router.NoMethod(h.HandleFallback)
}
