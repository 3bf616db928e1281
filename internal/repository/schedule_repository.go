package repository

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/domain"
)

const upsertConflict = "ON CONFLICT (employee_id, day, start_time, end_time) DO UPDATE SET day = excluded.day RETURNING id"

type scheduleRepository struct {
	db DBTX
	sb sq.StatementBuilderType
}

// NewScheduleRepository creates a new instance of ScheduleRepository
func NewScheduleRepository(db DBTX, dialect database.Dialect) domain.ScheduleRepository {
	return &scheduleRepository{db: db, sb: dialect.Builder()}
}

// Upsert inserts the entry or, when its key already exists, returns the existing row's id.
func (r *scheduleRepository) Upsert(ctx context.Context, e *domain.ScheduleEntry) error {
	if !e.Day.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDay, e.Day)
	}
	if err := e.Slot.Validate(); err != nil {
		return err
	}

	query, args, err := r.sb.Insert("schedule_entries").
		Columns("employee_id", "day", "start_time", "end_time").
		Values(e.EmployeeID, string(e.Day), e.Slot.Start.String(), e.Slot.End.String()).
		Suffix(upsertConflict).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("upsert schedule entry %s: %w", e.Key(), err)
	}
	return nil
}

func (r *scheduleRepository) DeleteByKey(ctx context.Context, key domain.EntryKey) error {
	if err := key.Slot.Validate(); err != nil {
		return err
	}
	query, args, err := r.sb.Delete("schedule_entries").
		Where(sq.Eq{
			"employee_id": key.EmployeeID,
			"day":         string(key.Day),
			"start_time":  key.Slot.Start.String(),
			"end_time":    key.Slot.End.String(),
		}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete schedule entry %s: %w", key, err)
	}
	return nil
}

// ListRows returns every entry joined with its employee, in grid order.
func (r *scheduleRepository) ListRows(ctx context.Context) ([]domain.ScheduleRow, error) {
	query, args, err := r.sb.Select("s.id", "s.employee_id", "e.name", "s.day", "s.start_time", "s.end_time").
		From("schedule_entries s").
		Join("employees e ON e.id = s.employee_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ScheduleRow{}
	for rows.Next() {
		var row domain.ScheduleRow
		var day, start, end string
		if err := rows.Scan(&row.EntryID, &row.EmployeeID, &row.EmployeeName, &day, &start, &end); err != nil {
			return nil, err
		}
		if row.Day, err = domain.ParseDay(day); err != nil {
			return nil, fmt.Errorf("schedule entry %d: %w", row.EntryID, err)
		}
		if row.Slot, err = domain.ParseTimeSlot(start + "-" + end); err != nil {
			return nil, fmt.Errorf("schedule entry %d: %w", row.EntryID, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	SortRows(out)
	return out, nil
}

func (r *scheduleRepository) Clear(ctx context.Context) error {
	query, args, err := r.sb.Delete("schedule_entries").ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// deleteOutsideSlots drops entries whose slot is not in keep.
func (r *scheduleRepository) deleteOutsideSlots(ctx context.Context, keep []domain.TimeSlot) (int64, error) {
	del := r.sb.Delete("schedule_entries")
	if len(keep) > 0 {
		or := sq.Or{}
		for _, s := range keep {
			or = append(or, sq.Eq{"start_time": s.Start.String(), "end_time": s.End.String()})
		}
		cond, args, err := or.ToSql()
		if err != nil {
			return 0, err
		}
		del = del.Where("NOT ("+cond+")", args...)
	}

	query, args, err := del.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete entries on removed slots: %w", err)
	}
	return res.RowsAffected()
}

// SortRows orders rows by day, slot, then employee name.
func SortRows(rows []domain.ScheduleRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Day != b.Day {
			return a.Day.Index() < b.Day.Index()
		}
		if a.Slot != b.Slot {
			if a.Slot.Start != b.Slot.Start {
				return a.Slot.Start < b.Slot.Start
			}
			return a.Slot.End < b.Slot.End
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		return a.EmployeeID < b.EmployeeID
	})
}
