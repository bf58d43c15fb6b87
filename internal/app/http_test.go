package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-todo-server/internal/config"
	"github.com/adanyl0v/go-todo-server/internal/services"
)

type todoJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func newSQLiteRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	todos, err := services.Open(context.Background(), zerolog.Nop(), "sqlite::memory:", config.StorageConfig{})
	require.NoError(t, err)
	t.Cleanup(todos.Close)

	return NewRouter(zerolog.Nop(), &config.Config{}, todos)
}

func serve(router http.Handler, method, target, form string) *httptest.ResponseRecorder {
	var req *http.Request
	if form == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func listTodos(t *testing.T, router http.Handler) []todoJSON {
	t.Helper()

	rec := serve(router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var todos []todoJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	return todos
}

func TestTodoScenario(t *testing.T) {
	router := newSQLiteRouter(t)

	assert.Empty(t, listTodos(t, router))

	rec := serve(router, http.MethodGet, "/create", "title=Buy+milk&description=2%25&completed=false")
	require.Equal(t, http.StatusOK, rec.Code)

	todos := listTodos(t, router)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.Equal(t, "2%", todos[0].Description)
	assert.False(t, todos[0].Completed)
	assert.Equal(t, "Created todo "+itoa(todos[0].ID), rec.Body.String())

	rec = serve(router, http.MethodGet, "/delete/"+itoa(todos[0].ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted todo "+itoa(todos[0].ID), rec.Body.String())

	assert.Empty(t, listTodos(t, router))

	rec = serve(router, http.MethodGet, "/delete/"+itoa(todos[0].ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Todo "+itoa(todos[0].ID)+" not found", rec.Body.String())
}

func TestUpdateIsNotAnUpsert(t *testing.T) {
	router := newSQLiteRouter(t)

	rec := serve(router, http.MethodGet, "/update", "id=99&title=ghost&description=&completed=true")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Todo 99 not found", rec.Body.String())
	assert.Empty(t, listTodos(t, router))

	serve(router, http.MethodGet, "/create", "title=a&description=b")
	id := listTodos(t, router)[0].ID

	rec = serve(router, http.MethodGet, "/update", "id="+itoa(id)+"&title=c&description=d&completed=true")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []todoJSON{{ID: id, Title: "c", Description: "d", Completed: true}}, listTodos(t, router))
}

func TestListIsOrderedByID(t *testing.T) {
	router := newSQLiteRouter(t)

	for _, title := range []string{"one", "two", "three"} {
		rec := serve(router, http.MethodPost, "/create", "title="+title)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	todos := listTodos(t, router)
	require.Len(t, todos, 3)
	assert.Less(t, todos[0].ID, todos[1].ID)
	assert.Less(t, todos[1].ID, todos[2].ID)
	assert.Equal(t, "three", todos[2].Title)
}

func TestUnmatchedRoute(t *testing.T) {
	router := newSQLiteRouter(t)

	for _, target := range []string{"/nonexistent", "/create/", "/update/", "/delete/1/", "/healthz/"} {
		rec := serve(router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "Hello, world!", rec.Body.String(), target)
		assert.Empty(t, rec.Header().Get("Location"), target)
	}
}

func TestOversizedFormIsNotStored(t *testing.T) {
	router := newSQLiteRouter(t)

	rec := serve(router, http.MethodGet, "/create", "title=a&description="+strings.Repeat("x", 2<<20))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, listTodos(t, router))
}

func TestCORSEnabledByConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	todos, err := services.Open(context.Background(), zerolog.Nop(), "sqlite::memory:", config.StorageConfig{})
	require.NoError(t, err)
	t.Cleanup(todos.Close)

	cfg := &config.Config{CORS: config.CORSConfig{AllowOrigins: []string{"*"}}}
	router := NewRouter(zerolog.Nop(), cfg, todos)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anywhere.test")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
