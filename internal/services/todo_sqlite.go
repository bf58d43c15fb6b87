package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/adanyl0v/go-todo-server/internal/config"
	"github.com/adanyl0v/go-todo-server/internal/models"
)

const sqliteMemoryPath = ":memory:"

type sqliteTodoService struct {
	logger zerolog.Logger
	sqlDB  *sql.DB
}

func NewSQLiteTodoService(
	ctx context.Context,
	logger zerolog.Logger,
	path string,
	cfg config.StorageConfig,
) (TodoService, error) {
	const op = "open sqlite"

	dsn := path + "?_pragma=busy_timeout(5000)"
	if path != sqliteMemoryPath {
		path = filepath.Clean(path)
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to open sqlite database")
		return nil, sqliteError(op, err)
	}

	switch {
	case path == sqliteMemoryPath:
		// Each connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
	case cfg.MaxConns > 0:
		sqlDB.SetMaxOpenConns(int(cfg.MaxConns))
	}

	s := &sqliteTodoService{
		logger: logger,
		sqlDB:  sqlDB,
	}

	pingCtx, cancel := withOptionalTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	err = s.Ping(pingCtx)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	const createTableQuery = `
CREATE TABLE IF NOT EXISTS todos (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT    NOT NULL,
    description TEXT    NOT NULL,
    completed   BOOLEAN NOT NULL DEFAULT 0
)
`
	_, err = sqlDB.ExecContext(ctx, createTableQuery)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create todos table")
		_ = sqlDB.Close()
		return nil, sqliteError(op, err)
	}

	logger.Info().
		Str("path", path).
		Msg("opened sqlite database")
	return s, nil
}

func (s *sqliteTodoService) ListTodos(ctx context.Context) ([]models.Todo, error) {
	const selectTodosQuery = `
SELECT id,
       title,
       description,
       completed
FROM todos
ORDER BY id
`
	rows, err := s.sqlDB.QueryContext(ctx, selectTodosQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select todos")
		return nil, sqliteError("list todos", err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		var todo models.Todo
		err = rows.Scan(
			&todo.ID,
			&todo.Title,
			&todo.Description,
			&todo.Completed,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan todo")
			return nil, sqliteError("list todos", err)
		}
		todos = append(todos, todo)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, sqliteError("list todos", err)
	}

	s.logger.Debug().
		Int("count", len(todos)).
		Msg("selected todos")
	return todos, nil
}

func (s *sqliteTodoService) CreateTodo(ctx context.Context, todo models.NewTodo) (int64, error) {
	const insertTodoQuery = `
INSERT INTO todos (title,
                   description,
                   completed)
VALUES (?, ?, ?)
`
	result, err := s.sqlDB.ExecContext(
		ctx,
		insertTodoQuery,
		todo.Title,
		todo.Description,
		todo.Completed,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return 0, sqliteError("create todo", err)
	}

	todoID, err := result.LastInsertId()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to read inserted todo id")
		return 0, sqliteError("create todo", err)
	}

	s.logger.Info().
		Int64("todo_id", todoID).
		Msg("created todo")
	return todoID, nil
}

func (s *sqliteTodoService) DeleteTodo(ctx context.Context, id int64) (int64, error) {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = ?
`
	result, err := s.sqlDB.ExecContext(ctx, deleteTodoQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return 0, sqliteError("delete todo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, sqliteError("delete todo", err)
	}

	s.logger.Info().
		Int64("todo_id", id).
		Int64("rows_affected", rowsAffected).
		Msg("deleted todo")
	return rowsAffected, nil
}

func (s *sqliteTodoService) UpdateTodo(ctx context.Context, todo models.Todo) (int64, error) {
	const updateTodoQuery = `
UPDATE todos
SET title = ?,
    description = ?,
    completed = ?
WHERE id = ?
`
	result, err := s.sqlDB.ExecContext(
		ctx,
		updateTodoQuery,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("todo_id", todo.ID).
			Msg("failed to update todo")
		return 0, sqliteError("update todo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, sqliteError("update todo", err)
	}

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Int64("rows_affected", rowsAffected).
		Msg("updated todo")
	return rowsAffected, nil
}

func (s *sqliteTodoService) Ping(ctx context.Context) error {
	err := s.sqlDB.PingContext(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to ping sqlite database")
		return sqliteError("ping", err)
	}
	return nil
}

func (s *sqliteTodoService) Close() {
	err := s.sqlDB.Close()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to close sqlite database")
		return
	}
	s.logger.Info().Msg("closed sqlite database")
}

func sqliteError(op string, err error) *StorageError {
	return &StorageError{Op: op, Kind: classifySQLiteError(err), Err: err}
}

func classifySQLiteError(err error) Kind {
	if isContextError(err) || errors.Is(err, sql.ErrConnDone) {
		return KindUnavailable
	}

	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return KindStorage
	}

	// Extended result codes carry the primary code in the low byte.
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_CONSTRAINT:
		return KindConstraint
	case sqlite3lib.SQLITE_BUSY,
		sqlite3lib.SQLITE_LOCKED,
		sqlite3lib.SQLITE_CANTOPEN,
		sqlite3lib.SQLITE_IOERR,
		sqlite3lib.SQLITE_FULL,
		sqlite3lib.SQLITE_READONLY:
		return KindUnavailable
	}
	return KindStorage
}
