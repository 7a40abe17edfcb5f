package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/booking"
	"github.com/campusbook/room-booking/internal/repository"
)

// BookingHandler serves the requester-facing booking endpoints.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
}

func NewBookingHandler(b *repository.BookingRepo, r *repository.RoomRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Rooms: r}
}

// Create submits a booking request.  The whole submission is validated up
// front, then the room row is locked so the conflict check and the inserts
// happen as one atomic step.  New requests always start PENDING.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var sub booking.Submission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	valid, fieldErrs := sub.Validate()
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Rooms.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "booking: begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialization point: all writers touching this room's calendar take
	// the room row lock first.
	if _, err := h.Rooms.LockTx(ctx, tx, valid.RoomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return internalError(c, "booking: lock room", err)
	}

	taken, err := h.Bookings.ApprovedTakenTx(ctx, tx, valid.RoomID, 0)
	if err != nil {
		return internalError(c, "booking: load approved slots", err)
	}
	if blocking, clash := booking.FindConflict(taken, valid.Slots); clash {
		return conflictJSON(c, &repository.ScheduleConflictError{Blocking: blocking})
	}

	rec := repository.BookingRecord{
		UserID:      userID,
		RoomID:      valid.RoomID,
		Category:    string(valid.Category),
		Status:      string(booking.StatusPending),
		StartDate:   valid.StartDate,
		EndDate:     valid.EndDate,
		Description: valid.Description,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &rec); err != nil {
		return internalError(c, "booking: insert request", err)
	}
	schedules, err := h.Bookings.CreateSchedulesBulkTx(ctx, tx, rec.RequestID, valid.RoomID, valid.Slots)
	if err != nil {
		return internalError(c, "booking: insert schedules", err)
	}

	if err := tx.Commit(); err != nil {
		return internalError(c, "booking: commit", err)
	}
	committed = true

	return c.JSON(http.StatusCreated, repository.BookingDetail{
		RequestID:   rec.RequestID,
		UserID:      rec.UserID,
		RoomID:      rec.RoomID,
		Category:    rec.Category,
		Status:      rec.Status,
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
		Schedules:   schedules,
	})
}

// ListMine returns the caller's own requests, every status included.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	out, err := h.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return internalError(c, "booking: list mine", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one request with its schedules.  Plain users only see their
// own; admins may read any.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Bookings.GetDetailByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return internalError(c, "booking: get", err)
	}
	return respondDetail(c, userID, detail)
}

// respondDetail applies the ownership rule before writing the detail body.
func respondDetail(c echo.Context, callerID uint64, detail *repository.BookingDetail) error {
	if !canAccessBooking(callerID, isAdmin(c), detail.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete removes a request and, via FK cascade, its schedules.  Owners may
// delete while the request is still PENDING; admins may delete any.
func (h *BookingHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "booking: begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := h.Bookings.GetRecordForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return internalError(c, "booking: lock request", err)
	}
	admin := isAdmin(c)
	if !canAccessBooking(userID, admin, rec.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !admin && rec.Status != string(booking.StatusPending) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only pending requests can be withdrawn"})
	}
	if err := h.Bookings.DeleteTx(ctx, tx, id); err != nil {
		return internalError(c, "booking: delete", err)
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "booking: commit", err)
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
