// Package booking holds the domain rules for room-booking requests: the
// request status state machine, weekday/time-of-day value types and the
// half-open interval conflict check.  It is free of persistence and HTTP
// concerns so the rules can be exercised directly in tests; the repository
// layer re-applies the same check inside transactions to make it race-free.
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a booking request.  The set is fixed.
type Category string

const (
	CategoryEvent   Category = "EVENT"
	CategoryRegular Category = "REGULAR"
	CategoryExtra   Category = "EXTRA"
	CategoryLabs    Category = "LABS"
)

// ParseCategory normalizes and validates a category value.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryEvent:
		return CategoryEvent, true
	case CategoryRegular:
		return CategoryRegular, true
	case CategoryExtra:
		return CategoryExtra, true
	case CategoryLabs:
		return CategoryLabs, true
	}
	return "", false
}

// Status is the lifecycle state of a booking request.  PENDING is the only
// initial state; APPROVED and REJECTED are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ErrInvalidTransition is returned when a status change is not allowed by
// the state machine (anything other than PENDING -> APPROVED/REJECTED).
var ErrInvalidTransition = errors.New("invalid status transition")

// ParseDecision validates an admin decision value.  Only the two terminal
// states are valid decisions; PENDING cannot be re-entered.
func ParseDecision(s string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

// Transition checks that moving a booking from one status to another is
// legal.  A booking that has already been decided stays decided.
func Transition(from, to Status) error {
	if from != StatusPending {
		return fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, from)
	}
	if to != StatusApproved && to != StatusRejected {
		return fmt.Errorf("%w: cannot move to %s", ErrInvalidTransition, to)
	}
	return nil
}

// Weekday names a day of the week for a recurring schedule entry.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// ParseWeekday normalizes and validates a weekday name.
func ParseWeekday(s string) (Weekday, bool) {
	switch Weekday(strings.ToUpper(strings.TrimSpace(s))) {
	case Monday:
		return Monday, true
	case Tuesday:
		return Tuesday, true
	case Wednesday:
		return Wednesday, true
	case Thursday:
		return Thursday, true
	case Friday:
		return Friday, true
	case Saturday:
		return Saturday, true
	case Sunday:
		return Sunday, true
	}
	return "", false
}

// Clock is a time of day expressed as minutes since midnight.  Using minutes
// keeps the overlap arithmetic exact and avoids time zone handling for
// recurring weekly slots.
type Clock int

// ParseClock parses "HH:MM" (seconds optional, as MySQL TIME columns come
// back as "HH:MM:SS") into a Clock.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := parseTwoDigits(parts[0])
	if err != nil || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := parseTwoDigits(parts[1])
	if err != nil || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(h*60 + m), nil
}

func parseTwoDigits(s string) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("invalid field %q", s)
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid field %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// String renders the clock back as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Slot is one weekly occurrence of room usage: a weekday plus a half-open
// time interval [Start, End).
type Slot struct {
	Day   Weekday
	Start Clock
	End   Clock
}

// Overlaps reports whether two slots on the same weekday intersect.  The
// intervals are half-open, so a slot ending exactly when another starts is
// not an overlap (back-to-back bookings are allowed).
func (s Slot) Overlaps(o Slot) bool {
	if s.Day != o.Day {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

// TakenSlot is an existing schedule row of an APPROVED booking, carried with
// enough identity to report a useful conflict to the caller.
type TakenSlot struct {
	ScheduleID uint64
	RequestID  uint64
	RoomID     uint64
	Slot
}

// FindSelfOverlap returns the indices of the first pair of slots within a
// single request that overlap each other.  A request whose own slots collide
// can never coexist with itself on the calendar, so it is rejected before any
// store lookup.
func FindSelfOverlap(slots []Slot) (int, int, bool) {
	for j := 1; j < len(slots); j++ {
		for i := 0; i < j; i++ {
			if slots[i].Overlaps(slots[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// FindConflict returns the first taken slot that overlaps any of the
// candidate slots.  Candidates are assumed to target the same room as the
// taken set; the check is per individual slot, not per booking.
func FindConflict(taken []TakenSlot, candidates []Slot) (TakenSlot, bool) {
	for _, cand := range candidates {
		for _, t := range taken {
			if t.Slot.Overlaps(cand) {
				return t, true
			}
		}
	}
	return TakenSlot{}, false
}
