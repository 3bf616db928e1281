package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/grid"
	"github.com/locvowork/shift_scheduler/internal/logger"
)

// ScheduleService owns the grid being edited and moves it to and from the store.
type ScheduleService struct {
	store domain.Store

	mu   sync.Mutex
	grid *grid.Grid
}

// NewScheduleService creates a ScheduleService with an empty default grid.
// Call Load to pick up the persisted state.
func NewScheduleService(store domain.Store) *ScheduleService {
	return &ScheduleService{
		store: store,
		grid:  grid.New(domain.DefaultTimeSlots()),
	}
}

// Load replaces the grid with the persisted slots and entries. With no slots
// stored the default hourly layout is used.
func (s *ScheduleService) Load(ctx context.Context) error {
	slots, err := s.store.TimeSlots().List(ctx)
	if err != nil {
		return fmt.Errorf("load time slots: %w", err)
	}
	if len(slots) == 0 {
		slots = domain.DefaultTimeSlots()
	}

	rows, err := s.store.Schedule().ListRows(ctx)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}

	g, skipped := grid.FromRows(slots, rows)
	if skipped > 0 {
		logger.WarnLog(ctx, "%d stored entries are not on any time slot and were not loaded", skipped)
	}

	s.mu.Lock()
	s.grid = g
	s.mu.Unlock()
	logger.InfoLog(ctx, "Loaded %d entries on %d time slots", len(rows)-skipped, len(slots))
	return nil
}

// Snapshot returns a copy of the grid.
func (s *ScheduleService) Snapshot() *grid.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Assign appends the employee to the cell at (day, row).
func (s *ScheduleService) Assign(ctx context.Context, day domain.Day, row int, employeeID int64) error {
	e, err := s.store.Employees().GetByID(ctx, employeeID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Assign(day, row, grid.Assignee{ID: e.ID, Name: e.Name})
}

// AssignByName assigns whoever carries name. An unknown name changes nothing
// and is not an error; a name shared by several employees is.
func (s *ScheduleService) AssignByName(ctx context.Context, day domain.Day, row int, name string) (bool, error) {
	id, err := s.store.Employees().FindIDByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		logger.DebugLog(ctx, "No employee named %q, nothing assigned", name)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.Assign(ctx, day, row, id); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ScheduleService) ClearCell(ctx context.Context, day domain.Day, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.ClearCell(day, row)
}

// SetSlots changes the grid rows. Nothing is written until Save.
func (s *ScheduleService) SetSlots(ctx context.Context, slots []domain.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.SetSlots(slots)
	logger.DebugLog(ctx, "Grid now has %d time slots", s.grid.Rows())
}

func (s *ScheduleService) AddSlot(ctx context.Context, slot domain.TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.AddSlot(slot)
}

func (s *ScheduleService) RemoveSlot(ctx context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.RemoveSlot(row)
}

// Pending reports what Save would change.
func (s *ScheduleService) Pending(ctx context.Context) (domain.ScheduleDiff, error) {
	rows, err := s.store.Schedule().ListRows(ctx)
	if err != nil {
		return domain.ScheduleDiff{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Diff(rows), nil
}

// Save writes the grid: entries removed from it are deleted, new ones are
// upserted, entries on slots no longer shown are dropped and the slot list
// is replaced, in one transaction.
func (s *ScheduleService) Save(ctx context.Context) (domain.ScheduleDiff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dropMissingEmployees(ctx); err != nil {
		return domain.ScheduleDiff{}, err
	}
	rows, err := s.store.Schedule().ListRows(ctx)
	if err != nil {
		return domain.ScheduleDiff{}, err
	}
	diff := s.grid.Diff(rows)
	if err := s.store.SaveGrid(ctx, diff, s.grid.Slots()); err != nil {
		return domain.ScheduleDiff{}, fmt.Errorf("save grid: %w", err)
	}
	logger.InfoLog(ctx, "Saved grid: %d added, %d removed", len(diff.Add), len(diff.Remove))
	return diff, nil
}

// dropMissingEmployees removes assignees deleted from the store behind the
// grid's back, e.g. by another process sharing the database. Caller holds mu.
func (s *ScheduleService) dropMissingEmployees(ctx context.Context) error {
	employees, err := s.store.Employees().List(ctx)
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}
	known := make(map[int64]bool, len(employees))
	for _, e := range employees {
		known[e.ID] = true
	}
	for _, e := range s.grid.Entries() {
		if known[e.EmployeeID] {
			continue
		}
		if n := s.grid.RemoveEmployee(e.EmployeeID); n > 0 {
			logger.WarnLog(ctx, "Employee %d no longer exists, removed from %d cells", e.EmployeeID, n)
		}
		known[e.EmployeeID] = true
	}
	return nil
}

// Entries lists the persisted schedule joined with employee names.
func (s *ScheduleService) Entries(ctx context.Context) ([]domain.ScheduleRow, error) {
	return s.store.Schedule().ListRows(ctx)
}

// Upsert stores one entry directly and mirrors it on the grid. The slot must
// be one of the grid's rows, since entries on other slots are dropped on save.
func (s *ScheduleService) Upsert(ctx context.Context, employeeID int64, day domain.Day, slot domain.TimeSlot) (*domain.ScheduleEntry, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDay, day)
	}
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	e, err := s.store.Employees().GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.grid.RowOf(slot)
	if row < 0 {
		return nil, fmt.Errorf("%w: %s is not on the grid", domain.ErrInvalidSlot, slot)
	}

	entry := &domain.ScheduleEntry{EmployeeID: employeeID, Day: day, Slot: slot}
	if err := s.store.Schedule().Upsert(ctx, entry); err != nil {
		return nil, err
	}

	cell, _ := s.grid.Cell(day, row)
	for _, a := range cell {
		if a.ID == employeeID {
			return entry, nil
		}
	}
	if err := s.grid.Assign(day, row, grid.Assignee{ID: e.ID, Name: e.Name}); err != nil {
		return nil, err
	}
	return entry, nil
}

// Clear deletes every stored entry and empties the grid, keeping its slots.
func (s *ScheduleService) Clear(ctx context.Context) error {
	if err := s.store.Schedule().Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = grid.New(s.grid.Slots())
	logger.InfoLog(ctx, "Schedule cleared")
	return nil
}

// RemoveEmployee drops an employee from the grid.
func (s *ScheduleService) RemoveEmployee(ctx context.Context, id int64) {
	s.mu.Lock()
	n := s.grid.RemoveEmployee(id)
	s.mu.Unlock()
	if n > 0 {
		logger.DebugLog(ctx, "Removed employee %d from %d cells", id, n)
	}
}
