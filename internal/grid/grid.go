// Package grid holds the in-memory weekly grid the interactive surface edits
// between saves: seven day columns, one row per time slot, each cell listing
// the employees assigned to it.
package grid

import (
	"fmt"
	"strings"

	"github.com/locvowork/shift_scheduler/internal/domain"
)

// NameSeparator joins the names shown in one cell.
const NameSeparator = ", "

// Assignee is the employee reference stored in a cell.
type Assignee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Grid is not safe for concurrent use; callers serialise access.
type Grid struct {
	slots []domain.TimeSlot
	cells [][][]Assignee // [row][day]
}

// New returns an empty grid with one row per slot.
func New(slots []domain.TimeSlot) *Grid {
	g := &Grid{}
	g.SetSlots(slots)
	return g
}

// FromRows rebuilds a grid from persisted rows. Rows whose slot is not on
// the grid are left out; the count of those is returned.
func FromRows(slots []domain.TimeSlot, rows []domain.ScheduleRow) (*Grid, int) {
	g := New(slots)
	skipped := 0
	for _, r := range rows {
		row := g.RowOf(r.Slot)
		if row < 0 || !r.Day.Valid() {
			skipped++
			continue
		}
		g.cells[row][r.Day.Index()] = append(g.cells[row][r.Day.Index()], Assignee{ID: r.EmployeeID, Name: r.EmployeeName})
	}
	return g, skipped
}

func (g *Grid) Rows() int { return len(g.slots) }

// Slots returns a copy of the row layout.
func (g *Grid) Slots() []domain.TimeSlot {
	return append([]domain.TimeSlot(nil), g.slots...)
}

// RowOf returns the row showing slot, or -1.
func (g *Grid) RowOf(slot domain.TimeSlot) int {
	for i, s := range g.slots {
		if s == slot {
			return i
		}
	}
	return -1
}

// SetSlots resizes the grid to slots. Rows whose slot survives keep their
// cells; new rows start empty; cells of dropped rows are discarded.
// Duplicate slots are collapsed.
func (g *Grid) SetSlots(slots []domain.TimeSlot) {
	old := make(map[domain.TimeSlot][][]Assignee, len(g.slots))
	for i, s := range g.slots {
		old[s] = g.cells[i]
	}

	seen := make(map[domain.TimeSlot]bool, len(slots))
	newSlots := make([]domain.TimeSlot, 0, len(slots))
	newCells := make([][][]Assignee, 0, len(slots))
	for _, s := range slots {
		if seen[s] {
			continue
		}
		seen[s] = true
		newSlots = append(newSlots, s)
		if row, ok := old[s]; ok {
			newCells = append(newCells, row)
		} else {
			newCells = append(newCells, make([][]Assignee, len(domain.Days)))
		}
	}
	g.slots, g.cells = newSlots, newCells
}

// AddSlot appends a row for slot.
func (g *Grid) AddSlot(slot domain.TimeSlot) error {
	if g.RowOf(slot) >= 0 {
		return fmt.Errorf("%w: %s is already on the grid", domain.ErrInvalidSlot, slot)
	}
	g.SetSlots(append(g.Slots(), slot))
	return nil
}

// RemoveSlot drops a row and whatever was assigned in it.
func (g *Grid) RemoveSlot(row int) error {
	if err := g.checkRow(row); err != nil {
		return err
	}
	slots := g.Slots()
	g.SetSlots(append(slots[:row], slots[row+1:]...))
	return nil
}

// Assign appends e to the cell. Names already present are not deduplicated.
func (g *Grid) Assign(day domain.Day, row int, e Assignee) error {
	col, err := g.pos(day, row)
	if err != nil {
		return err
	}
	g.cells[row][col] = append(g.cells[row][col], e)
	return nil
}

// SetCell overwrites the cell.
func (g *Grid) SetCell(day domain.Day, row int, assignees []Assignee) error {
	col, err := g.pos(day, row)
	if err != nil {
		return err
	}
	g.cells[row][col] = append([]Assignee(nil), assignees...)
	return nil
}

func (g *Grid) ClearCell(day domain.Day, row int) error {
	return g.SetCell(day, row, nil)
}

// Cell returns a copy of the assignees of a cell.
func (g *Grid) Cell(day domain.Day, row int) ([]Assignee, error) {
	col, err := g.pos(day, row)
	if err != nil {
		return nil, err
	}
	return append([]Assignee(nil), g.cells[row][col]...), nil
}

// Text renders a cell the way the grid displays it.
func (g *Grid) Text(day domain.Day, row int) (string, error) {
	cell, err := g.Cell(day, row)
	if err != nil {
		return "", err
	}
	return joinNames(cell), nil
}

// RemoveEmployee drops every assignment of id and reports how many cells changed.
func (g *Grid) RemoveEmployee(id int64) int {
	changed := 0
	for r := range g.cells {
		for c := range g.cells[r] {
			kept := g.cells[r][c][:0]
			for _, a := range g.cells[r][c] {
				if a.ID != id {
					kept = append(kept, a)
				}
			}
			if len(kept) != len(g.cells[r][c]) {
				changed++
			}
			g.cells[r][c] = kept
		}
	}
	return changed
}

// Entries flattens the grid to one schedule entry per (employee, day, slot).
func (g *Grid) Entries() []domain.ScheduleEntry {
	var out []domain.ScheduleEntry
	seen := make(map[domain.EntryKey]bool)
	for r, slot := range g.slots {
		for c, day := range domain.Days {
			for _, a := range g.cells[r][c] {
				e := domain.ScheduleEntry{EmployeeID: a.ID, Day: day, Slot: slot}
				if seen[e.Key()] {
					continue
				}
				seen[e.Key()] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// Diff compares the grid with the persisted rows: Add holds keys only on the
// grid, Remove keys only in the store.
func (g *Grid) Diff(persisted []domain.ScheduleRow) domain.ScheduleDiff {
	stored := make(map[domain.EntryKey]domain.ScheduleEntry, len(persisted))
	for _, r := range persisted {
		stored[r.Entry().Key()] = r.Entry()
	}

	var diff domain.ScheduleDiff
	onGrid := make(map[domain.EntryKey]bool)
	for _, e := range g.Entries() {
		onGrid[e.Key()] = true
		if _, ok := stored[e.Key()]; !ok {
			diff.Add = append(diff.Add, e)
		}
	}
	for _, r := range persisted {
		if !onGrid[r.Entry().Key()] {
			diff.Remove = append(diff.Remove, r.Entry())
		}
	}
	return diff
}

// DisplayTable returns the rendered cell strings, [row][day].
func (g *Grid) DisplayTable() [][]string {
	out := make([][]string, len(g.slots))
	for r := range g.slots {
		out[r] = make([]string, len(domain.Days))
		for c := range domain.Days {
			out[r][c] = joinNames(g.cells[r][c])
		}
	}
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cp := &Grid{slots: g.Slots(), cells: make([][][]Assignee, len(g.cells))}
	for r := range g.cells {
		cp.cells[r] = make([][]Assignee, len(g.cells[r]))
		for c := range g.cells[r] {
			cp.cells[r][c] = append([]Assignee(nil), g.cells[r][c]...)
		}
	}
	return cp
}

func (g *Grid) pos(day domain.Day, row int) (int, error) {
	col := day.Index()
	if col < 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidDay, day)
	}
	if err := g.checkRow(row); err != nil {
		return 0, err
	}
	return col, nil
}

func (g *Grid) checkRow(row int) error {
	if row < 0 || row >= len(g.slots) {
		return fmt.Errorf("%w: row %d of %d", domain.ErrOutOfRange, row, len(g.slots))
	}
	return nil
}

func joinNames(cell []Assignee) string {
	names := make([]string, len(cell))
	for i, a := range cell {
		names[i] = a.Name
	}
	return strings.Join(names, NameSeparator)
}
