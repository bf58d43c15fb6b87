package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-server/internal/services"
)

const (
	fallbackBody = "Hello, world!"
	healthyBody  = "ok"
)

// abort writes err as a plain-text response. A missing todo keeps the
// 200 status of the legacy surface, decoding failures are 400 and every
// other error is 500.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()

	var storageErr *services.StorageError
	if errors.As(err, &storageErr) && storageErr.Kind == services.KindNotFound {
		c.String(http.StatusOK, "Todo %d not found", storageErr.TodoID)
		return
	}

	switch services.KindOf(err) {
	case services.KindValidation:
		c.String(http.StatusBadRequest, "Invalid request: %s", err)
	default:
		c.String(http.StatusInternalServerError, "Something went wrong: %s", err)
	}
}
