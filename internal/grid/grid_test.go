package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/shift_scheduler/internal/domain"
)

var (
	nine  = domain.MustParseTimeSlot("09:00-10:00")
	ten   = domain.MustParseTimeSlot("10:00-11:00")
	noon  = domain.MustParseTimeSlot("12:00-13:00")
	alice = Assignee{ID: 1, Name: "Alice"}
	bob   = Assignee{ID: 2, Name: "Bob"}
)

func TestGrid_AssignAppends(t *testing.T) {
	g := New([]domain.TimeSlot{nine, ten})

	require.NoError(t, g.Assign(domain.Monday, 0, alice))
	require.NoError(t, g.Assign(domain.Monday, 0, bob))

	text, err := g.Text(domain.Monday, 0)
	require.NoError(t, err)
	assert.Equal(t, "Alice, Bob", text)

	text, err = g.Text(domain.Tuesday, 0)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGrid_AddressingErrors(t *testing.T) {
	g := New([]domain.TimeSlot{nine})

	assert.ErrorIs(t, g.Assign(domain.Monday, 1, alice), domain.ErrOutOfRange)
	assert.ErrorIs(t, g.Assign(domain.Monday, -1, alice), domain.ErrOutOfRange)
	assert.ErrorIs(t, g.Assign(domain.Day("Xyz"), 0, alice), domain.ErrInvalidDay)
	assert.ErrorIs(t, g.RemoveSlot(3), domain.ErrOutOfRange)
}

func TestGrid_SetSlotsKeepsSurvivingRows(t *testing.T) {
	g := New([]domain.TimeSlot{nine, ten})
	require.NoError(t, g.Assign(domain.Monday, 0, alice))
	require.NoError(t, g.Assign(domain.Friday, 1, bob))

	g.SetSlots([]domain.TimeSlot{noon, nine, nine})

	assert.Equal(t, []domain.TimeSlot{noon, nine}, g.Slots())
	text, err := g.Text(domain.Monday, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", text)

	// ten was dropped together with Bob's cell.
	for _, e := range g.Entries() {
		assert.NotEqual(t, bob.ID, e.EmployeeID)
	}
}

func TestGrid_AddAndRemoveSlot(t *testing.T) {
	g := New([]domain.TimeSlot{nine})
	require.NoError(t, g.AddSlot(ten))
	assert.ErrorIs(t, g.AddSlot(ten), domain.ErrInvalidSlot)
	require.NoError(t, g.Assign(domain.Sunday, 1, bob))

	require.NoError(t, g.RemoveSlot(0))
	assert.Equal(t, []domain.TimeSlot{ten}, g.Slots())
	cell, err := g.Cell(domain.Sunday, 0)
	require.NoError(t, err)
	assert.Equal(t, []Assignee{bob}, cell)
}

func TestFromRows(t *testing.T) {
	rows := []domain.ScheduleRow{
		{EntryID: 1, EmployeeID: 1, EmployeeName: "Alice", Day: domain.Monday, Slot: nine},
		{EntryID: 2, EmployeeID: 2, EmployeeName: "Bob", Day: domain.Monday, Slot: nine},
		{EntryID: 3, EmployeeID: 2, EmployeeName: "Bob", Day: domain.Wednesday, Slot: noon},
	}

	g, skipped := FromRows([]domain.TimeSlot{nine, ten}, rows)
	assert.Equal(t, 1, skipped)

	table := g.DisplayTable()
	require.Len(t, table, 2)
	assert.Equal(t, []string{"Alice, Bob", "", "", "", "", "", ""}, table[0])
	assert.Equal(t, []string{"", "", "", "", "", "", ""}, table[1])
}

func TestGrid_EntriesDeduplicate(t *testing.T) {
	g := New([]domain.TimeSlot{nine})
	require.NoError(t, g.Assign(domain.Monday, 0, alice))
	require.NoError(t, g.Assign(domain.Monday, 0, alice))
	require.NoError(t, g.Assign(domain.Tuesday, 0, alice))

	entries := g.Entries()
	assert.Equal(t, []domain.ScheduleEntry{
		{EmployeeID: 1, Day: domain.Monday, Slot: nine},
		{EmployeeID: 1, Day: domain.Tuesday, Slot: nine},
	}, entries)

	// The cell still shows the name twice.
	text, _ := g.Text(domain.Monday, 0)
	assert.Equal(t, "Alice, Alice", text)
}

func TestGrid_Diff(t *testing.T) {
	persisted := []domain.ScheduleRow{
		{EntryID: 10, EmployeeID: 1, EmployeeName: "Alice", Day: domain.Monday, Slot: nine},
		{EntryID: 11, EmployeeID: 2, EmployeeName: "Bob", Day: domain.Tuesday, Slot: nine},
	}
	g, _ := FromRows([]domain.TimeSlot{nine}, persisted)

	assert.True(t, g.Diff(persisted).Empty())

	require.NoError(t, g.ClearCell(domain.Tuesday, 0))
	require.NoError(t, g.Assign(domain.Sunday, 0, bob))

	diff := g.Diff(persisted)
	assert.Equal(t, []domain.ScheduleEntry{{EmployeeID: 2, Day: domain.Sunday, Slot: nine}}, diff.Add)
	assert.Equal(t, []domain.ScheduleEntry{{ID: 11, EmployeeID: 2, Day: domain.Tuesday, Slot: nine}}, diff.Remove)
}

func TestGrid_RemoveEmployee(t *testing.T) {
	g := New([]domain.TimeSlot{nine, ten})
	require.NoError(t, g.SetCell(domain.Monday, 0, []Assignee{alice, bob}))
	require.NoError(t, g.Assign(domain.Monday, 1, bob))

	assert.Equal(t, 2, g.RemoveEmployee(bob.ID))
	assert.Equal(t, 0, g.RemoveEmployee(bob.ID))
	text, _ := g.Text(domain.Monday, 0)
	assert.Equal(t, "Alice", text)
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := New([]domain.TimeSlot{nine})
	require.NoError(t, g.Assign(domain.Monday, 0, alice))

	cp := g.Clone()
	require.NoError(t, cp.Assign(domain.Monday, 0, bob))
	cp.SetSlots(nil)

	text, _ := g.Text(domain.Monday, 0)
	assert.Equal(t, "Alice", text)
	assert.Equal(t, 1, g.Rows())
}
