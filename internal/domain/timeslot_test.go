package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeSlot(t *testing.T) {
	t.Run("valid label", func(t *testing.T) {
		s, err := ParseTimeSlot("09:00-10:00")
		require.NoError(t, err)
		assert.Equal(t, 9, s.Start.Hour())
		assert.Equal(t, 10, s.End.Hour())
		assert.Equal(t, "09:00-10:00", s.String())
	})

	t.Run("single digit hour is normalised", func(t *testing.T) {
		s, err := ParseTimeSlot("9:15-10:45")
		require.NoError(t, err)
		assert.Equal(t, "09:15-10:45", s.String())
	})

	t.Run("minutes off the 15 minute grid", func(t *testing.T) {
		_, err := ParseTimeSlot("09:10-10:00")
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := ParseTimeSlot("10:00-09:00")
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := ParseTimeSlot("09:00")
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})
}

func TestTimeSlotValidate(t *testing.T) {
	assert.NoError(t, MustParseTimeSlot("09:00-10:00").Validate())

	testCases := map[string]TimeSlot{
		"zero slot":        {},
		"end before start": {Start: 600, End: 540},
		"off the picker":   {Start: 540, End: 545},
		"past midnight":    {Start: 1380, End: 1440},
	}
	for name, slot := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, slot.Validate(), ErrInvalidSlot)
		})
	}
}

func TestNewTimeOfDay(t *testing.T) {
	for _, m := range MinuteOptions() {
		_, err := NewTimeOfDay(12, m)
		assert.NoError(t, err, "minute %d", m)
	}
	_, err := NewTimeOfDay(24, 0)
	assert.ErrorIs(t, err, ErrInvalidTime)
	_, err = NewTimeOfDay(8, 20)
	assert.ErrorIs(t, err, ErrInvalidTime)
	assert.Len(t, HourOptions(), 24)
}

func TestDefaultTimeSlots(t *testing.T) {
	slots := DefaultTimeSlots()
	require.Len(t, slots, 9)
	assert.Equal(t, "09:00-10:00", slots[0].String())
	assert.Equal(t, "17:00-18:00", slots[8].String())
}

func TestTimeSlotJSON(t *testing.T) {
	in := ScheduleEntry{EmployeeID: 3, Day: Monday, Slot: MustParseTimeSlot("09:00-10:00")}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":0,"employee_id":3,"day":"Mon","slot":"09:00-10:00"}`, string(b))

	var out ScheduleEntry
	require.NoError(t, json.Unmarshal([]byte(`{"employee_id":3,"day":"monday","slot":"09:00-10:00"}`), &out))
	assert.Equal(t, in.Key(), out.Key())
}

func TestParseDay(t *testing.T) {
	cases := map[string]Day{
		"Mon":      Monday,
		"sunday":   Sunday,
		" Fri ":    Friday,
		"월":        Monday,
		"일":        Sunday,
		"WEDNESDAY": Wednesday,
	}
	for in, want := range cases {
		got, err := ParseDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDay("Someday")
	assert.ErrorIs(t, err, ErrInvalidDay)

	assert.Equal(t, 0, Monday.Index())
	assert.Equal(t, 6, Sunday.Index())
	_, err = DayAt(7)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestEmployeeValidate(t *testing.T) {
	e := Employee{Name: "  Alice "}
	require.NoError(t, e.Validate())
	assert.Equal(t, "Alice", e.Name)

	blank := Employee{Name: "   "}
	assert.ErrorIs(t, blank.Validate(), ErrEmptyName)
	assert.True(t, IsValidation(blank.Validate()))
}
