// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios without string matching: missing entities map to 404 and a
// ScheduleConflictError maps to 409 with the blocking slot attached.
package repository

import (
	"errors"
	"fmt"

	"github.com/campusbook/room-booking/internal/booking"
)

// Not-found sentinels, one per entity the API exposes by id.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrBuildingNotFound   = errors.New("building not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrScheduleNotFound   = errors.New("schedule not found")
)

// ScheduleConflictError reports which approved slot blocks a submission or
// approval.  It carries enough detail (room, day, times) for the caller to
// retry with adjusted times, per the 409 response contract.
type ScheduleConflictError struct {
	Blocking booking.TakenSlot
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("schedule conflict: room %d is taken %s %s-%s by request %d",
		e.Blocking.RoomID, e.Blocking.Day, e.Blocking.Start, e.Blocking.End, e.Blocking.RequestID)
}
