package migrations

import (
	"context"
	"fmt"

	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/logger"
)

const (
	legacyScheduleTable  = "schedule"
	renamedLegacyTable   = "legacy_schedule"
	scheduleEntriesTable = "schedule_entries"
)

// V3Migration creates the canonical schedule_entries table and imports rows
// from a legacy "schedule" table when one is present.
//
// Two legacy layouts are understood: (employee_id, day, start_time, end_time)
// and (employee_id, day, time) with a combined "HH:MM-HH:MM" label. Day labels
// are normalised, rows for missing employees or unparseable slots are skipped,
// and duplicates collapse onto the new unique key. The legacy table is kept
// under a new name rather than dropped.
type V3Migration struct{}

func (m *V3Migration) Version() int { return 3 }

func (m *V3Migration) Name() string { return "schedule_entries" }

func (m *V3Migration) Up(ctx context.Context, db DBExecutor, dialect string) error {
	idCol := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == "postgres" {
		idCol = "id BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS schedule_entries (
            %s,
            employee_id BIGINT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
            day TEXT NOT NULL,
            start_time TEXT NOT NULL,
            end_time TEXT NOT NULL,
            UNIQUE (employee_id, day, start_time, end_time)
        )`, idCol),
		`CREATE INDEX IF NOT EXISTS idx_schedule_entries_day ON schedule_entries (day, start_time)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schedule_entries: %w", err)
		}
	}

	exists, err := tableExists(ctx, db, dialect, legacyScheduleTable)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return importLegacySchedule(ctx, db, dialect)
}

type legacyRow struct {
	employeeID int64
	day        string
	start, end string
}

func importLegacySchedule(ctx context.Context, db DBExecutor, dialect string) error {
	combined, err := columnExists(ctx, db, dialect, legacyScheduleTable, "time")
	if err != nil {
		return err
	}

	cols := []string{"s.employee_id", "s.day", "s.start_time", "s.end_time"}
	if combined {
		cols = []string{"s.employee_id", "s.day", `s."time"`, "''"}
	}
	query, args, err := builder(dialect).
		Select(cols...).
		From(legacyScheduleTable + " s").
		Join("employees e ON e.id = s.employee_id").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("read legacy schedule: %w", err)
	}
	var legacy []legacyRow
	for rows.Next() {
		var r legacyRow
		var day, start, end *string
		if err := rows.Scan(&r.employeeID, &day, &start, &end); err != nil {
			rows.Close()
			return err
		}
		r.day, r.start, r.end = deref(day), deref(start), deref(end)
		legacy = append(legacy, r)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	imported, skipped := 0, 0
	for _, r := range legacy {
		label := r.start
		if !combined {
			label = r.start + "-" + r.end
		}
		day, derr := domain.ParseDay(r.day)
		slot, serr := domain.ParseTimeSlot(label)
		if derr != nil || serr != nil {
			skipped++
			continue
		}

		query, args, err := builder(dialect).
			Insert(scheduleEntriesTable).
			Columns("employee_id", "day", "start_time", "end_time").
			Values(r.employeeID, string(day), slot.Start.String(), slot.End.String()).
			Suffix("ON CONFLICT (employee_id, day, start_time, end_time) DO NOTHING").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("import legacy row: %w", err)
		}
		imported++
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", legacyScheduleTable, renamedLegacyTable)); err != nil {
		return fmt.Errorf("rename legacy schedule: %w", err)
	}

	logger.InfoLog(ctx, "Imported %d legacy schedule rows (%d skipped)", imported, skipped)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() {
	Register(&V3Migration{})
}
