package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-server/internal/config"
	"github.com/adanyl0v/go-todo-server/internal/delivery/http/v1"
	"github.com/adanyl0v/go-todo-server/internal/services"
)

func (a *Application) MustListenAndServeHTTP() {
	if a.cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := a.cfg.HTTP
	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           NewRouter(a.logger, a.cfg, a.todos),
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		a.logger.Error().
			Err(err).
			Msg("failed to listen and serve http")
		// Panicking on this goroutine lets deferred cleanup in main run.
		panic(err)
	case <-quit:
	}

	a.logger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	a.logger.Info().Msg("shut down http server")
}

// NewRouter builds the gin engine serving todos from the given service.
func NewRouter(logger zerolog.Logger, cfg *config.Config, todos services.TodoService) *gin.Engine {
	router := gin.New()
	router.ContextWithFallback = true
	// Unmatched paths, trailing slash included, fall through to the
	// fallback handler instead of a redirect.
	router.RedirectTrailingSlash = false

	v1Handler := v1.New(logger, todos)
	router.Use(gin.Recovery())
	router.Use(v1Handler.HandleRequestLogger)
	if cfg.CORS.Enabled() {
		router.Use(v1.NewCORS(cfg.CORS.AllowOrigins))
	}

	v1.RegisterRoutes(router, v1Handler)
	return router
}
