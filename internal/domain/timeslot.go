package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MinuteStep is the granularity of the slot editor's minute picker.
const MinuteStep = 15

// TimeOfDay is a wall-clock time stored as minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a time from the editor's hour and minute pickers.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || minute%MinuteStep != 0 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay parses "HH:MM" (single-digit hours are accepted).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return NewTimeOfDay(h, m)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// HourOptions and MinuteOptions are the picker values offered by the slot editor.
func HourOptions() []int {
	out := make([]int, 24)
	for i := range out {
		out[i] = i
	}
	return out
}

func MinuteOptions() []int {
	return []int{0, 15, 30, 45}
}

// TimeSlot is a grid row: a (start, end) pair.
type TimeSlot struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewTimeSlot validates that end comes after start.
func NewTimeSlot(start, end TimeOfDay) (TimeSlot, error) {
	if end <= start {
		return TimeSlot{}, fmt.Errorf("%w: %s-%s ends before it starts", ErrInvalidSlot, start, end)
	}
	return TimeSlot{Start: start, End: end}, nil
}

// ParseTimeSlot parses a "HH:MM-HH:MM" label.
func ParseTimeSlot(label string) (TimeSlot, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(label), "-")
	if !ok {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	start, err := ParseTimeOfDay(a)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%w: %q: %v", ErrInvalidSlot, label, err)
	}
	end, err := ParseTimeOfDay(b)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%w: %q: %v", ErrInvalidSlot, label, err)
	}
	return NewTimeSlot(start, end)
}

// MustParseTimeSlot panics on a bad label. Intended for literals.
func MustParseTimeSlot(label string) TimeSlot {
	s, err := ParseTimeSlot(label)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate reports ErrInvalidSlot unless both times sit on the picker grid
// and end comes after start. The zero TimeSlot is invalid.
func (s TimeSlot) Validate() error {
	for _, t := range []TimeOfDay{s.Start, s.End} {
		if _, err := NewTimeOfDay(t.Hour(), t.Minute()); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSlot, s)
		}
	}
	if s.End <= s.Start {
		return fmt.Errorf("%w: %s ends before it starts", ErrInvalidSlot, s)
	}
	return nil
}

func (s TimeSlot) String() string {
	return s.Start.String() + "-" + s.End.String()
}

func (s TimeSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TimeSlot) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	parsed, err := ParseTimeSlot(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DefaultTimeSlots is the hourly 09:00-18:00 layout a fresh store starts with.
func DefaultTimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, 9)
	for h := 9; h < 18; h++ {
		slots = append(slots, TimeSlot{Start: TimeOfDay(h * 60), End: TimeOfDay((h + 1) * 60)})
	}
	return slots
}

// ParseTimeSlots parses a list of labels, failing on the first bad one.
func ParseTimeSlots(labels []string) ([]TimeSlot, error) {
	out := make([]TimeSlot, 0, len(labels))
	for _, l := range labels {
		s, err := ParseTimeSlot(l)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
