package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-server/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database named by databaseURL. postgres:// and
// postgresql:// URLs use PostgreSQL; sqlite:, file: and bare paths use a
// SQLite file.
func Open(ctx context.Context, logger zerolog.Logger, databaseURL string, cfg config.StorageConfig) (TodoService, error) {
	driver, target, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverPostgres:
		return NewPostgresTodoService(ctx, logger, target, cfg)
	default:
		return NewSQLiteTodoService(ctx, logger, target, cfg)
	}
}

// ParseDatabaseURL returns the driver for databaseURL and the target it
// should be opened with: the URL itself for PostgreSQL, the file path
// for SQLite.
func ParseDatabaseURL(databaseURL string) (driver, target string, err error) {
	const op = "parse database url"

	raw := strings.TrimSpace(databaseURL)
	if raw == "" {
		return "", "", NewValidationError(op, fmt.Errorf("database url is required"))
	}

	scheme, rest, hasScheme := strings.Cut(raw, ":")
	if !hasScheme || len(scheme) <= 1 || strings.ContainsAny(scheme, `/\.`) {
		// A bare path, possibly with a Windows drive letter.
		return DriverSQLite, stripQuery(raw), nil
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		if _, err := url.Parse(raw); err != nil {
			return "", "", NewValidationError(op, err)
		}
		return DriverPostgres, raw, nil
	case "sqlite", "sqlite3", "file":
		path := stripQuery(strings.TrimPrefix(rest, "//"))
		if path == "" {
			return "", "", NewValidationError(op, fmt.Errorf("sqlite path is required"))
		}
		return DriverSQLite, path, nil
	default:
		return "", "", NewValidationError(op, fmt.Errorf("unsupported database url scheme %q", scheme))
	}
}

func stripQuery(path string) string {
	path, _, _ = strings.Cut(path, "?")
	return path
}
