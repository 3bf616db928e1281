package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/locvowork/shift_scheduler/internal/logger"
)

const createVersionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TEXT NOT NULL
)`

// Run applies every pending migration from the default registry.
func Run(ctx context.Context, db *sql.DB, dialect string) error {
	return RunWith(ctx, db, dialect, DefaultRegistry)
}

// RunWith applies every migration in reg whose version is not yet recorded.
// Each migration commits on its own, so a failure keeps earlier steps.
func RunWith(ctx context.Context, db *sql.DB, dialect string, reg *Registry) error {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range reg.Migrations() {
		if applied[m.Version()] {
			continue
		}
		if err := apply(ctx, db, dialect, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version(), m.Name(), err)
		}
		logger.InfoLog(ctx, "Applied migration %d (%s)", m.Version(), m.Name())
	}
	return nil
}

// CurrentVersion returns the highest applied version, or 0 on a fresh store.
func CurrentVersion(ctx context.Context, db DBExecutor) (int, error) {
	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}
	current := 0
	for v := range applied {
		if v > current {
			current = v
		}
	}
	return current, nil
}

// AppliedVersions returns the set of recorded migration versions.
func AppliedVersions(ctx context.Context, db DBExecutor) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, dialect string, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := m.Up(ctx, tx, dialect); err != nil {
		return err
	}

	query, args, err := builder(dialect).
		Insert("schema_migrations").
		Columns("version", "name", "applied_at").
		Values(m.Version(), m.Name(), time.Now().UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}
	return nil
}

func builder(dialect string) sq.StatementBuilderType {
	if dialect == "postgres" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// tableExists and columnExists paper over the catalog differences between engines.
func tableExists(ctx context.Context, db DBExecutor, dialect, table string) (bool, error) {
	var q sq.SelectBuilder
	if dialect == "postgres" {
		q = builder(dialect).Select("COUNT(*)").From("information_schema.tables").
			Where(sq.Eq{"table_schema": "public", "table_name": table})
	} else {
		q = builder(dialect).Select("COUNT(*)").From("sqlite_master").
			Where(sq.Eq{"type": "table", "name": table})
	}
	return countPositive(ctx, db, q)
}

func columnExists(ctx context.Context, db DBExecutor, dialect, table, column string) (bool, error) {
	var q sq.SelectBuilder
	if dialect == "postgres" {
		q = builder(dialect).Select("COUNT(*)").From("information_schema.columns").
			Where(sq.Eq{"table_schema": "public", "table_name": table, "column_name": column})
	} else {
		// table is always one of our own identifiers, never user input
		q = builder(dialect).Select("COUNT(*)").From("pragma_table_info('" + table + "')").
			Where(sq.Eq{"name": column})
	}
	return countPositive(ctx, db, q)
}

func countPositive(ctx context.Context, db DBExecutor, q sq.SelectBuilder) (bool, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
