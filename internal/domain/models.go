package domain

import (
	"fmt"
	"strings"
)

// ==================== STAFF ====================

// Employee represents the employees table.
// Name is a display attribute only and is not unique.
type Employee struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Age  *int   `json:"age,omitempty" db:"age"`
}

// Validate trims the name and rejects blank ones.
func (e *Employee) Validate() error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return ErrEmptyName
	}
	if e.Age != nil && *e.Age < 0 {
		return fmt.Errorf("%w: age %d", ErrOutOfRange, *e.Age)
	}
	return nil
}

// ==================== SCHEDULE ====================

// EntryKey is the composite uniqueness key of a schedule entry.
type EntryKey struct {
	EmployeeID int64
	Day        Day
	Slot       TimeSlot
}

func (k EntryKey) String() string {
	return fmt.Sprintf("%d/%s/%s", k.EmployeeID, k.Day, k.Slot)
}

// ScheduleEntry represents the schedule_entries table
type ScheduleEntry struct {
	ID         int64    `json:"id" db:"id"`
	EmployeeID int64    `json:"employee_id" db:"employee_id"`
	Day        Day      `json:"day" db:"day"`
	Slot       TimeSlot `json:"slot"`
}

// Key returns the (employee, day, slot) key of the entry.
func (s ScheduleEntry) Key() EntryKey {
	return EntryKey{EmployeeID: s.EmployeeID, Day: s.Day, Slot: s.Slot}
}

// ScheduleRow is a schedule entry joined with its employee's name.
type ScheduleRow struct {
	EntryID      int64    `json:"entry_id"`
	EmployeeID   int64    `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Day          Day      `json:"day"`
	Slot         TimeSlot `json:"slot"`
}

// Entry drops the joined name.
func (r ScheduleRow) Entry() ScheduleEntry {
	return ScheduleEntry{ID: r.EntryID, EmployeeID: r.EmployeeID, Day: r.Day, Slot: r.Slot}
}

// ScheduleDiff is the set of changes between the persisted schedule and the grid.
type ScheduleDiff struct {
	Add    []ScheduleEntry `json:"add"`
	Remove []ScheduleEntry `json:"remove"`
}

// Empty reports whether the diff carries no changes.
func (d ScheduleDiff) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}
