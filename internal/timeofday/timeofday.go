// Package timeofday provides an ordered wall-clock time-of-day value type.
// Schedule windows are stored as HH:MM:SS text; parsing them into a
// TimeOfDay gives correct ordered comparison without relying on
// lexicographic string ordering.
package timeofday

import (
	"fmt"
	"time"

	apperrors "github.com/askdsu/campus-assistant-go/internal/errors"
)

// TimeOfDay is a wall-clock time expressed as seconds since midnight.
// The zero value is midnight.
type TimeOfDay struct {
	seconds int
}

const secondsPerDay = 24 * 60 * 60

// New creates a TimeOfDay from hour, minute and second components.
// Returns an error if any component is out of range.
func New(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour %d out of range", apperrors.ErrInvalidInput, hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute %d out of range", apperrors.ErrInvalidInput, minute)
	}
	if second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: second %d out of range", apperrors.ErrInvalidInput, second)
	}
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}, nil
}

// Parse parses a HH:MM:SS or HH:MM string into a TimeOfDay.
func Parse(s string) (TimeOfDay, error) {
	var hour, minute, second int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &second); err != nil {
		second = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: malformed time %q", apperrors.ErrInvalidInput, s)
		}
	}
	return New(hour, minute, second)
}

// FromTime extracts the wall-clock time-of-day from t in t's location.
func FromTime(t time.Time) TimeOfDay {
	hour, minute, second := t.Clock()
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}
}

// Compare returns -1 if t is before other, 0 if equal, +1 if after.
func (t TimeOfDay) Compare(other TimeOfDay) int {
	switch {
	case t.seconds < other.seconds:
		return -1
	case t.seconds > other.seconds:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.seconds < other.seconds
}

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.seconds > other.seconds
}

// Within reports whether t falls inside [start, end], inclusive on both ends.
func (t TimeOfDay) Within(start, end TimeOfDay) bool {
	return t.seconds >= start.seconds && t.seconds <= end.seconds
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int {
	return t.seconds / 3600
}

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int {
	return (t.seconds % 3600) / 60
}

// Second returns the second component (0-59).
func (t TimeOfDay) Second() int {
	return t.seconds % 60
}

// String returns the zero-padded HH:MM:SS form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Short returns the zero-padded HH:MM form used in user-facing reports.
func (t TimeOfDay) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// IsValid reports whether the value is inside a single day.
func (t TimeOfDay) IsValid() bool {
	return t.seconds >= 0 && t.seconds < secondsPerDay
}
