package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/domain"
)

type timeSlotRepository struct {
	db DBTX
	sb sq.StatementBuilderType
	// atomic runs fn in a transaction, or directly when db already is one.
	atomic func(ctx context.Context, fn func(DBTX) error) error
}

// NewTimeSlotRepository binds a slot repository to a connection or transaction.
func NewTimeSlotRepository(db DBTX, dialect database.Dialect) domain.TimeSlotRepository {
	return &timeSlotRepository{
		db: db,
		sb: dialect.Builder(),
		atomic: func(ctx context.Context, fn func(DBTX) error) error {
			return fn(db)
		},
	}
}

func (r *timeSlotRepository) List(ctx context.Context) ([]domain.TimeSlot, error) {
	query, args, err := r.sb.Select("start_time", "end_time").
		From("time_slots").
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []domain.TimeSlot{}
	for rows.Next() {
		var start, end string
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		s, err := domain.ParseTimeSlot(start + "-" + end)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// Replace swaps the whole slot list for slots, keeping their order.
func (r *timeSlotRepository) Replace(ctx context.Context, slots []domain.TimeSlot) error {
	return r.atomic(ctx, func(q DBTX) error {
		return replaceSlots(ctx, q, r.sb, slots)
	})
}

func replaceSlots(ctx context.Context, q DBTX, sb sq.StatementBuilderType, slots []domain.TimeSlot) error {
	query, args, err := sb.Delete("time_slots").ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear time slots: %w", err)
	}
	if len(slots) == 0 {
		return nil
	}

	ins := sb.Insert("time_slots").Columns("position", "start_time", "end_time")
	seen := make(map[domain.TimeSlot]bool, len(slots))
	pos := 0
	for _, s := range slots {
		if seen[s] {
			continue
		}
		seen[s] = true
		pos++
		ins = ins.Values(pos, s.Start.String(), s.End.String())
	}

	query, args, err = ins.ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert time slots: %w", err)
	}
	return nil
}
