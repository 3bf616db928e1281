package migrations

import (
	"context"
	"database/sql"
)

// DBExecutor represents a database connection that can execute queries
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Migration is one numbered schema step.
type Migration interface {
	Version() int
	Name() string
	// Up runs inside a transaction; dialect is "sqlite" or "postgres".
	Up(ctx context.Context, db DBExecutor, dialect string) error
}
