package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/logger"
)

// Store implements domain.Store on top of one opened database handle.
type Store struct {
	db      *sql.DB
	dialect database.Dialect

	employees domain.EmployeeRepository
	schedule  domain.ScheduleRepository
	slots     *timeSlotRepository
}

// NewStore wires the repositories to db.
func NewStore(db *database.DB) *Store {
	return newStore(db.DB, db.Dialect)
}

func newStore(db *sql.DB, dialect database.Dialect) *Store {
	s := &Store{
		db:        db,
		dialect:   dialect,
		employees: NewEmployeeRepository(db, dialect),
		schedule:  NewScheduleRepository(db, dialect),
	}
	slots := NewTimeSlotRepository(db, dialect).(*timeSlotRepository)
	slots.atomic = func(ctx context.Context, fn func(DBTX) error) error {
		return s.WithTransaction(ctx, func(tx *sql.Tx) error { return fn(tx) })
	}
	s.slots = slots
	return s
}

func (s *Store) Employees() domain.EmployeeRepository { return s.employees }

func (s *Store) Schedule() domain.ScheduleRepository { return s.schedule }

func (s *Store) TimeSlots() domain.TimeSlotRepository { return s.slots }

func (s *Store) Close() error { return s.db.Close() }

// WithTransaction executes fn within a transaction. The transaction is rolled
// back when fn fails or the commit does.
func (s *Store) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer rollback - this will be a no-op if we successfully commit
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SaveGrid applies the diff, drops entries on slots that are no longer part of
// the grid and replaces the slot list, all or nothing.
func (s *Store) SaveGrid(ctx context.Context, diff domain.ScheduleDiff, slots []domain.TimeSlot) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		sched := &scheduleRepository{db: tx, sb: s.dialect.Builder()}

		for _, e := range diff.Remove {
			if err := sched.DeleteByKey(ctx, e.Key()); err != nil {
				return err
			}
		}
		for i := range diff.Add {
			if err := sched.Upsert(ctx, &diff.Add[i]); err != nil {
				return err
			}
		}

		dropped, err := sched.deleteOutsideSlots(ctx, slots)
		if err != nil {
			return err
		}
		if dropped > 0 {
			logger.InfoLog(ctx, "Dropped %d entries on removed time slots", dropped)
		}

		return replaceSlots(ctx, tx, s.dialect.Builder(), slots)
	})
}

var _ domain.Store = (*Store)(nil)
