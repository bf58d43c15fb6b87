package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
)

// HandleRequestLogger tags the request with an id, taken from the
// X-Request-ID header when the client sends one, and logs the outcome.
func (h *handlerImpl) HandleRequestLogger(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		requestID = uuid.NewString()
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	c.Next()

	status := c.Writer.Status()
	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = h.logger.Error()
	case status >= http.StatusBadRequest:
		event = h.logger.Warn()
	default:
		event = h.logger.Info()
	}

	if err := c.Errors.Last(); err != nil {
		event = event.Err(err.Err)
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Int("bytes", c.Writer.Size()).
		Dur("latency", time.Since(start)).
		Msg("handled request")
}

// NewCORS returns the CORS middleware for the given origins. A single
// "*" allows every origin.
func NewCORS(allowOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 1 && allowOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cors.New(cfg)
}
