package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adanyl0v/go-todo-server/internal/models"
)

// TodoService is the gateway to the todos table. Every failure it returns
// is a *StorageError.
type TodoService interface {
	// ListTodos returns all todos ordered by ascending id. An empty table
	// yields an empty, non-nil slice.
	ListTodos(ctx context.Context) ([]models.Todo, error)

	// CreateTodo inserts a todo and returns the id assigned by the engine.
	CreateTodo(ctx context.Context, todo models.NewTodo) (int64, error)

	// DeleteTodo deletes the todo with the given id and returns the number
	// of deleted rows. Zero rows is not an error.
	DeleteTodo(ctx context.Context, id int64) (int64, error)

	// UpdateTodo replaces title, description and completed of the todo
	// with todo.ID and returns the number of updated rows. It never
	// inserts, and zero rows is not an error.
	UpdateTodo(ctx context.Context, todo models.Todo) (int64, error)

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close()
}

type Kind uint8

const (
	KindStorage Kind = iota
	KindUnavailable
	KindConstraint
	KindNotFound
	KindValidation
)

var (
	ErrStorage     = errors.New("storage failure")
	ErrUnavailable = errors.New("storage unavailable")
	ErrConstraint  = errors.New("constraint violation")
	ErrNotFound    = errors.New("todo not found")
	ErrValidation  = errors.New("invalid input")
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindConstraint:
		return "constraint"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "storage"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnavailable:
		return ErrUnavailable
	case KindConstraint:
		return ErrConstraint
	case KindNotFound:
		return ErrNotFound
	case KindValidation:
		return ErrValidation
	default:
		return ErrStorage
	}
}

// StorageError wraps a failure of the gateway or the underlying engine.
// errors.Is matches both the wrapped error and the kind sentinel. TodoID
// is set when the failure concerns a single todo.
type StorageError struct {
	Op     string
	Kind   Kind
	Err    error
	TodoID int64
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf returns the kind of err, or KindStorage if err is not a
// *StorageError.
func KindOf(err error) Kind {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Kind
	}
	return KindStorage
}

func NewValidationError(op string, err error) *StorageError {
	return &StorageError{Op: op, Kind: KindValidation, Err: err}
}

// NewNotFoundError reports a missing todo. The gateway itself signals
// absence through affected row counts; callers use this to carry the
// outcome through the same error taxonomy.
func NewNotFoundError(op string, id int64) *StorageError {
	return &StorageError{Op: op, Kind: KindNotFound, Err: fmt.Errorf("todo %d not found", id), TodoID: id}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
