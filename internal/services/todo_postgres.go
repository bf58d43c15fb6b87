package services

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-server/internal/config"
	"github.com/adanyl0v/go-todo-server/internal/models"
)

type postgresTodoService struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresTodoService(
	ctx context.Context,
	logger zerolog.Logger,
	connURL string,
	cfg config.StorageConfig,
) (TodoService, error) {
	const op = "open postgres"

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		return nil, NewValidationError(op, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		return nil, postgresError(op, err)
	}

	s := &postgresTodoService{
		logger: logger,
		pgPool: pgPool,
	}

	pingCtx, cancel := withOptionalTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	err = s.Ping(pingCtx)
	if err != nil {
		pgPool.Close()
		return nil, err
	}

	const createTableQuery = `
CREATE TABLE IF NOT EXISTS todos (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT      NOT NULL,
    description TEXT      NOT NULL,
    completed   BOOLEAN   NOT NULL DEFAULT FALSE
)
`
	_, err = pgPool.Exec(ctx, createTableQuery)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create todos table")
		pgPool.Close()
		return nil, postgresError(op, err)
	}

	logger.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Uint16("port", poolCfg.ConnConfig.Port).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("connected to postgres")
	return s, nil
}

func (s *postgresTodoService) ListTodos(ctx context.Context) ([]models.Todo, error) {
	const selectTodosQuery = `
SELECT id,
       title,
       description,
       completed
FROM todos
ORDER BY id
`
	rows, err := s.pgPool.Query(ctx, selectTodosQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select todos")
		return nil, postgresError("list todos", err)
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
			return nil, postgresError("list todos", err)
		}
		todos = append(todos, todo)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, postgresError("list todos", err)
	}

	s.logger.Debug().
		Int("count", len(todos)).
		Msg("selected todos")
	return todos, nil
}

func (s *postgresTodoService) CreateTodo(ctx context.Context, todo models.NewTodo) (int64, error) {
	const insertTodoQuery = `
INSERT INTO todos (title,
                   description,
                   completed)
VALUES ($1, $2, $3)
RETURNING id
`
	var todoID int64
	err := s.pgPool.QueryRow(
		ctx,
		insertTodoQuery,
		todo.Title,
		todo.Description,
		todo.Completed,
	).Scan(&todoID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return 0, postgresError("create todo", err)
	}

	s.logger.Info().
		Int64("todo_id", todoID).
		Msg("created todo")
	return todoID, nil
}

func (s *postgresTodoService) DeleteTodo(ctx context.Context, id int64) (int64, error) {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTodoQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return 0, postgresError("delete todo", err)
	}

	s.logger.Info().
		Int64("todo_id", id).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("deleted todo")
	return tag.RowsAffected(), nil
}

func (s *postgresTodoService) UpdateTodo(ctx context.Context, todo models.Todo) (int64, error) {
	const updateTodoQuery = `
UPDATE todos
SET title = $1,
    description = $2,
    completed = $3
WHERE id = $4
`
	tag, err := s.pgPool.Exec(
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
		return 0, postgresError("update todo", err)
	}

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("updated todo")
	return tag.RowsAffected(), nil
}

func (s *postgresTodoService) Ping(ctx context.Context) error {
	err := s.pgPool.Ping(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		return postgresError("ping", err)
	}
	return nil
}

func (s *postgresTodoService) Close() {
	s.pgPool.Close()
	s.logger.Info().Msg("disconnected from postgres")
}

func postgresError(op string, err error) *StorageError {
	return &StorageError{Op: op, Kind: classifyPostgresError(err), Err: err}
}

func classifyPostgresError(err error) Kind {
	if isContextError(err) {
		return KindUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		// Class 23: integrity constraint violation.
		case strings.HasPrefix(pgErr.Code, "23"):
			return KindConstraint
		// Class 08: connection exception, 53: insufficient resources,
		// 57P0x: operator intervention.
		case strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57P0"):
			return KindUnavailable
		}
		return KindStorage
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return KindUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindUnavailable
	}
	return KindStorage
}
