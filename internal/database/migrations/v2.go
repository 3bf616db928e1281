package migrations

import (
	"context"
	"fmt"
)

// V2Migration reconciles column drift between the schema variants seen in
// the field: employees gain the optional age column and time_slots gain an
// explicit position so the grid's row order survives a round trip.
type V2Migration struct{}

func (m *V2Migration) Version() int { return 2 }

func (m *V2Migration) Name() string { return "column_drift" }

func (m *V2Migration) Up(ctx context.Context, db DBExecutor, dialect string) error {
	columns := []struct {
		table, column, ddl string
	}{
		{"employees", "age", "ALTER TABLE employees ADD COLUMN age INTEGER"},
		{"time_slots", "position", "ALTER TABLE time_slots ADD COLUMN position INTEGER NOT NULL DEFAULT 0"},
	}

	for _, c := range columns {
		ok, err := columnExists(ctx, db, dialect, c.table, c.column)
		if err != nil {
			return fmt.Errorf("inspect %s.%s: %w", c.table, c.column, err)
		}
		if ok {
			continue
		}
		if _, err := db.ExecContext(ctx, c.ddl); err != nil {
			return fmt.Errorf("add %s.%s: %w", c.table, c.column, err)
		}
	}

	// rows written before position existed keep their insertion order
	if _, err := db.ExecContext(ctx, "UPDATE time_slots SET position = id WHERE position = 0"); err != nil {
		return fmt.Errorf("backfill time_slots.position: %w", err)
	}
	return nil
}

func init() {
	Register(&V2Migration{})
}
