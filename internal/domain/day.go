package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Day is one of the seven grid columns, Monday first.
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"
)

// Days lists the closed set of days in grid order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAliases = map[string]Day{
	"mon": Monday, "monday": Monday, "월": Monday,
	"tue": Tuesday, "tuesday": Tuesday, "화": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday, "수": Wednesday,
	"thu": Thursday, "thursday": Thursday, "목": Thursday,
	"fri": Friday, "friday": Friday, "금": Friday,
	"sat": Saturday, "saturday": Saturday, "토": Saturday,
	"sun": Sunday, "sunday": Sunday, "일": Sunday,
}

// ParseDay accepts short codes, full English names and the legacy Korean labels.
func ParseDay(s string) (Day, error) {
	if d, ok := dayAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// DayAt returns the day for a grid column index.
func DayAt(idx int) (Day, error) {
	if idx < 0 || idx >= len(Days) {
		return "", fmt.Errorf("%w: day index %d", ErrOutOfRange, idx)
	}
	return Days[idx], nil
}

// Index returns the grid column of d, or -1.
func (d Day) Index() int {
	for i, v := range Days {
		if v == d {
			return i
		}
	}
	return -1
}

func (d Day) Valid() bool { return d.Index() >= 0 }

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
