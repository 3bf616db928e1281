package migrations

import (
	"context"
	"fmt"
)

// V1Migration creates the employee and time-slot tables. CREATE ... IF NOT
// EXISTS keeps it safe on files written by the legacy desktop tool, which
// already had an employees table.
type V1Migration struct{}

func (m *V1Migration) Version() int { return 1 }

func (m *V1Migration) Name() string { return "base" }

func (m *V1Migration) Up(ctx context.Context, db DBExecutor, dialect string) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS employees (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS time_slots (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            start_time TEXT NOT NULL,
            end_time TEXT NOT NULL
        )`,
	}
	if dialect == "postgres" {
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS employees (
                id BIGSERIAL PRIMARY KEY,
                name TEXT NOT NULL
            )`,
			`CREATE TABLE IF NOT EXISTS time_slots (
                id BIGSERIAL PRIMARY KEY,
                start_time TEXT NOT NULL,
                end_time TEXT NOT NULL
            )`,
		}
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create base tables: %w", err)
		}
	}
	return nil
}

func init() {
	Register(&V1Migration{})
}
