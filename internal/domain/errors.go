package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAmbiguousName = errors.New("name matches more than one employee")
	ErrEmptyName     = errors.New("employee name is required")
	ErrInvalidDay    = errors.New("invalid day")
	ErrInvalidTime   = errors.New("invalid time of day")
	ErrInvalidSlot   = errors.New("invalid time slot")
	ErrOutOfRange    = errors.New("out of range")
)

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrInvalidSlot) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrAmbiguousName)
}
