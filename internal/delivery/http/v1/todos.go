package v1

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/adanyl0v/go-todo-server/internal/models"
	"github.com/adanyl0v/go-todo-server/internal/services"
)

// maxFormBytes bounds the urlencoded body read for GET requests, which
// net/http does not parse on its own. Larger bodies are rejected whole.
const maxFormBytes = 1 << 20

var errFormTooLarge = fmt.Errorf("form body exceeds %d bytes", maxFormBytes)

type getTodoResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func newGetTodoResponse(todo models.Todo) getTodoResponse {
	return getTodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
	}
}

type createTodoRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Completed   bool   `form:"completed"`
}

type updateTodoRequest struct {
	ID          *int64 `form:"id"`
	Title       string `form:"title"`
	Description string `form:"description"`
	Completed   bool   `form:"completed"`
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	todos, err := h.todos.ListTodos(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list todos")
		abort(c, err)
		return
	}

	response := make([]getTodoResponse, len(todos))
	for i, todo := range todos {
		response[i] = newGetTodoResponse(todo)
	}

	h.logger.Debug().
		Int("count", len(response)).
		Msg("listed todos")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	err := bindForm(c, &req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind create form")
		abort(c, services.NewValidationError("decode create form", err))
		return
	}

	todoID, err := h.todos.CreateTodo(c, models.NewTodo{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		abort(c, err)
		return
	}

	c.String(http.StatusOK, "Created todo %d", todoID)
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	todoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("id", c.Param("id")).
			Msg("invalid todo id")
		abort(c, services.NewValidationError("decode todo id", err))
		return
	}

	rowsAffected, err := h.todos.DeleteTodo(c, todoID)
	if err == nil && rowsAffected == 0 {
		err = services.NewNotFoundError("delete todo", todoID)
	}
	if err != nil {
		abort(c, err)
		return
	}
	c.String(http.StatusOK, "Deleted todo %d", todoID)
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	var req updateTodoRequest
	err := bindForm(c, &req)
	if err == nil && req.ID == nil {
		err = errors.New("id is required")
	}
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind update form")
		abort(c, services.NewValidationError("decode update form", err))
		return
	}

	todo := models.Todo{
		ID:          *req.ID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	rowsAffected, err := h.todos.UpdateTodo(c, todo)
	if err == nil && rowsAffected == 0 {
		err = services.NewNotFoundError("update todo", todo.ID)
	}
	if err != nil {
		abort(c, err)
		return
	}
	c.String(http.StatusOK, "Updated todo %d", todo.ID)
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	err := h.todos.Ping(c)
	if err != nil {
		abort(c, err)
		return
	}
	c.String(http.StatusOK, healthyBody)
}

func (h *handlerImpl) HandleFallback(c *gin.Context) {
	c.String(http.StatusOK, fallbackBody)
}

// bindForm decodes form values from the query string and from an
// urlencoded body. Legacy clients send the body on GET requests, so the
// body is read here whatever the method.
func bindForm(c *gin.Context, obj any) error {
	values := url.Values{}
	for key, vs := range c.Request.URL.Query() {
		values[key] = append(values[key], vs...)
	}

	if c.Request.Body != nil && c.Request.Body != http.NoBody && isURLEncoded(c.GetHeader("Content-Type")) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFormBytes+1))
		if err != nil {
			return fmt.Errorf("read form body: %w", err)
		}
		if len(body) > maxFormBytes {
			return errFormTooLarge
		}

		bodyValues, err := url.ParseQuery(string(body))
		if err != nil {
			return fmt.Errorf("parse form body: %w", err)
		}
		// Body values take precedence over the query string.
		for key, vs := range bodyValues {
			values[key] = vs
		}
	}

	return binding.MapFormWithTag(obj, values, "form")
}

func isURLEncoded(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == binding.MIMEPOSTForm
}
