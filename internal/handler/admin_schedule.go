package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/booking"
	"github.com/campusbook/room-booking/internal/repository"
)

// AdminScheduleHandler lets admins adjust individual schedule entries of an
// existing booking.  Any change to an APPROVED booking's calendar re-runs
// the conflict check under the room lock.
type AdminScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Bookings  *repository.BookingRepo
	Rooms     *repository.RoomRepo
}

func NewAdminScheduleHandler(s *repository.ScheduleRepo, b *repository.BookingRepo, r *repository.RoomRepo) *AdminScheduleHandler {
	return &AdminScheduleHandler{Schedules: s, Bookings: b, Rooms: r}
}

type slotReq struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (req slotReq) validate() (booking.Slot, []booking.FieldError) {
	var errs []booking.FieldError
	var out booking.Slot
	day, ok := booking.ParseWeekday(req.Day)
	if !ok {
		errs = append(errs, booking.FieldError{Field: "day", Message: "Day must be a weekday name like MONDAY"})
	}
	start, err := booking.ParseClock(req.StartTime)
	if err != nil {
		errs = append(errs, booking.FieldError{Field: "startTime", Message: "Start time must be HH:MM"})
	}
	end, err := booking.ParseClock(req.EndTime)
	if err != nil {
		errs = append(errs, booking.FieldError{Field: "endTime", Message: "End time must be HH:MM"})
	}
	if len(errs) == 0 && end <= start {
		errs = append(errs, booking.FieldError{Field: "endTime", Message: "End time must be after start time"})
	}
	if len(errs) > 0 {
		return out, errs
	}
	out = booking.Slot{Day: day, Start: start, End: end}
	return out, nil
}

type createScheduleReq struct {
	RequestID uint64 `json:"requestId"`
	slotReq
}

// Create appends an occurrence to an existing booking.
func (h *AdminScheduleHandler) Create(c echo.Context) error {
	var req createScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	slot, errs := req.validate()
	if req.RequestID == 0 {
		errs = append(errs, booking.FieldError{Field: "requestId", Message: "Request id is required"})
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "schedule: begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := h.Bookings.GetRecordForUpdateTx(ctx, tx, req.RequestID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return internalError(c, "schedule: lock request", err)
	}
	if _, err := h.Rooms.LockTx(ctx, tx, rec.RoomID); err != nil {
		return internalError(c, "schedule: lock room", err)
	}

	// A slot added to an approved booking competes with the live calendar
	// immediately, its own siblings included; pending bookings are re-checked
	// at approval instead.
	if rec.Status == string(booking.StatusApproved) {
		taken, err := h.Bookings.ApprovedTakenTx(ctx, tx, rec.RoomID, 0)
		if err != nil {
			return internalError(c, "schedule: load approved slots", err)
		}
		if blocking, clash := booking.FindConflict(taken, []booking.Slot{slot}); clash {
			return conflictJSON(c, &repository.ScheduleConflictError{Blocking: blocking})
		}
	}

	info, err := h.Schedules.CreateTx(ctx, tx, req.RequestID, rec.RoomID, slot)
	if err != nil {
		return internalError(c, "schedule: insert", err)
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "schedule: commit", err)
	}
	committed = true
	return c.JSON(http.StatusCreated, info)
}

// Update rewrites the day/time of one schedule entry.
func (h *AdminScheduleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	slot, errs := req.validate()
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "schedule: begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cur, err := h.Schedules.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return internalError(c, "schedule: lock entry", err)
	}
	rec, err := h.Bookings.GetRecordForUpdateTx(ctx, tx, cur.RequestID)
	if err != nil {
		return internalError(c, "schedule: lock request", err)
	}
	if _, err := h.Rooms.LockTx(ctx, tx, rec.RoomID); err != nil {
		return internalError(c, "schedule: lock room", err)
	}

	if rec.Status == string(booking.StatusApproved) {
		taken, err := h.Bookings.ApprovedTakenTx(ctx, tx, rec.RoomID, 0)
		if err != nil {
			return internalError(c, "schedule: load approved slots", err)
		}
		// The entry being moved must not block its own new position.
		others := taken[:0]
		for _, t := range taken {
			if t.ScheduleID != id {
				others = append(others, t)
			}
		}
		if blocking, clash := booking.FindConflict(others, []booking.Slot{slot}); clash {
			return conflictJSON(c, &repository.ScheduleConflictError{Blocking: blocking})
		}
	}

	if err := h.Schedules.UpdateSlotTx(ctx, tx, id, slot); err != nil {
		return internalError(c, "schedule: update", err)
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "schedule: commit", err)
	}
	committed = true

	cur.Day = string(slot.Day)
	cur.StartTime = slot.Start.String()
	cur.EndTime = slot.End.String()
	return c.JSON(http.StatusOK, cur)
}

// Delete removes one schedule entry.
func (h *AdminScheduleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Schedules.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "schedule: begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := h.Schedules.GetForUpdateTx(ctx, tx, id); err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return internalError(c, "schedule: lock entry", err)
	}
	if err := h.Schedules.DeleteTx(ctx, tx, id); err != nil {
		return internalError(c, "schedule: delete", err)
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "schedule: commit", err)
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
