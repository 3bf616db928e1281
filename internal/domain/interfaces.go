package domain

import "context"

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Employee, error)

	// FindIDByName resolves a display name. Returns ErrNotFound when no row
	// matches and ErrAmbiguousName when several do.
	FindIDByName(ctx context.Context, name string) (int64, error)
}

// ScheduleRepository defines the interface for schedule entry data access
type ScheduleRepository interface {
	// Upsert stores the entry keyed by (employee, day, slot) and sets e.ID.
	Upsert(ctx context.Context, e *ScheduleEntry) error
	DeleteByKey(ctx context.Context, key EntryKey) error
	ListRows(ctx context.Context) ([]ScheduleRow, error)
	Clear(ctx context.Context) error
}

// TimeSlotRepository defines the interface for the grid's row layout
type TimeSlotRepository interface {
	List(ctx context.Context) ([]TimeSlot, error)
	Replace(ctx context.Context, slots []TimeSlot) error
}

// Store is the persistence root handed to services.
type Store interface {
	Employees() EmployeeRepository
	Schedule() ScheduleRepository
	TimeSlots() TimeSlotRepository

	// SaveGrid applies diff and replaces the slot list in one transaction.
	SaveGrid(ctx context.Context, diff ScheduleDiff, slots []TimeSlot) error
	Close() error
}
