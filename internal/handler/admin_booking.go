package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/booking"
	"github.com/campusbook/room-booking/internal/queue"
	"github.com/campusbook/room-booking/internal/repository"
	queue_publisher "github.com/campusbook/room-booking/internal/service"
)

// AdminBookingHandler serves the admin review endpoints.  Visibility is
// scoped to the admin's own department.
type AdminBookingHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
}

func NewAdminBookingHandler(b *repository.BookingRepo, r *repository.RoomRepo) *AdminBookingHandler {
	return &AdminBookingHandler{Bookings: b, Rooms: r}
}

// List returns every booking filed by users of the admin's department.
func (h *AdminBookingHandler) List(c echo.Context) error {
	deptID, err := getDeptID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	out, err := h.Bookings.ListByDepartment(ctx, deptID)
	if err != nil {
		return internalError(c, "admin: list bookings", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one booking with room and schedules, any department.
func (h *AdminBookingHandler) Get(c echo.Context) error {
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
		return internalError(c, "admin: get booking", err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete removes a booking in any status; the FK cascade takes the
// schedules with it.
func (h *AdminBookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "admin: begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := h.Bookings.GetRecordForUpdateTx(ctx, tx, id); err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return internalError(c, "admin: lock request", err)
	}
	if err := h.Bookings.DeleteTx(ctx, tx, id); err != nil {
		return internalError(c, "admin: delete booking", err)
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "admin: commit", err)
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus decides a PENDING request.  Approval re-runs the conflict
// check under the room lock: the calendar may have changed since submission,
// and two admins approving overlapping requests must serialize here.
func (h *AdminBookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	decision, ok := booking.ParseDecision(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": []booking.FieldError{{Field: "status", Message: "Status must be APPROVED or REJECTED"}},
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "admin: begin tx", err)
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
		return internalError(c, "admin: lock request", err)
	}
	if err := booking.Transition(booking.Status(rec.Status), decision); err != nil {
		if errors.Is(err, booking.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return internalError(c, "admin: transition", err)
	}

	if decision == booking.StatusApproved {
		if _, err := h.Rooms.LockTx(ctx, tx, rec.RoomID); err != nil {
			if err == repository.ErrRoomNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
			}
			return internalError(c, "admin: lock room", err)
		}
		slots, err := h.Bookings.SlotsForRequestTx(ctx, tx, id)
		if err != nil {
			return internalError(c, "admin: load slots", err)
		}
		// Submission validation rejects self-overlapping slots, but later
		// schedule edits can reintroduce them while the request is PENDING.
		if _, _, clash := booking.FindSelfOverlap(slots); clash {
			return c.JSON(http.StatusConflict, echo.Map{"error": "schedules within the request overlap each other"})
		}
		taken, err := h.Bookings.ApprovedTakenTx(ctx, tx, rec.RoomID, id)
		if err != nil {
			return internalError(c, "admin: load approved slots", err)
		}
		if blocking, clash := booking.FindConflict(taken, slots); clash {
			return conflictJSON(c, &repository.ScheduleConflictError{Blocking: blocking})
		}
	}

	if err := h.Bookings.UpdateStatusTx(ctx, tx, id, decision); err != nil {
		return internalError(c, "admin: update status", err)
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "admin: commit", err)
	}
	committed = true

	detail, err := h.Bookings.GetDetailByID(ctx, id)
	if err != nil {
		return internalError(c, "admin: reload booking", err)
	}

	// Broker failures must not fail the decision; publish off the request.
	go publishDecision(detail)

	return c.JSON(http.StatusOK, detail)
}

func publishDecision(d *repository.BookingDetail) {
	ev := queue.BookingDecidedEvent{
		RequestID: d.RequestID,
		UserID:    d.UserID,
		RoomID:    d.RoomID,
		Category:  d.Category,
		Status:    d.Status,
		StartDate: d.StartDate.Format("2006-01-02"),
		EndDate:   d.EndDate.Format("2006-01-02"),
		DecidedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if d.Room != nil {
		ev.RoomName = d.Room.Name
	}
	for _, s := range d.Schedules {
		ev.Slots = append(ev.Slots, queue.EventSlot{Day: s.Day, Start: s.StartTime, End: s.EndTime})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := queue_publisher.PublishBookingDecided(ctx, ev); err != nil {
		log.Printf("admin: publish decision event: %v", err)
	}
}

type metadataReq struct {
	Category    *string `json:"category"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Description *string `json:"description"`
}

// UpdateMetadata patches category, dates or description of a request that is
// still PENDING.  Decided requests are immutable apart from deletion.
func (h *AdminBookingHandler) UpdateMetadata(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req metadataReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var up repository.MetadataUpdate
	var fieldErrs []booking.FieldError
	if req.Category != nil {
		cat, ok := booking.ParseCategory(*req.Category)
		if !ok {
			fieldErrs = append(fieldErrs, booking.FieldError{Field: "category", Message: "Category must be one of EVENT, REGULAR, EXTRA, LABS"})
		} else {
			s := string(cat)
			up.Category = &s
		}
	}
	if req.StartDate != nil {
		t, ok := booking.ParseDate(*req.StartDate)
		if !ok {
			fieldErrs = append(fieldErrs, booking.FieldError{Field: "startDate", Message: "Start date must be a valid ISO-8601 date"})
		} else {
			up.StartDate = &t
		}
	}
	if req.EndDate != nil {
		t, ok := booking.ParseDate(*req.EndDate)
		if !ok {
			fieldErrs = append(fieldErrs, booking.FieldError{Field: "endDate", Message: "End date must be a valid ISO-8601 date"})
		} else {
			up.EndDate = &t
		}
	}
	up.Description = req.Description
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrs})
	}
	if up.Category == nil && up.StartDate == nil && up.EndDate == nil && up.Description == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "admin: begin tx", err)
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
		return internalError(c, "admin: lock request", err)
	}
	if rec.Status != string(booking.StatusPending) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only pending requests can be edited"})
	}
	if up.StartDate != nil || up.EndDate != nil {
		start, end := rec.StartDate, rec.EndDate
		if up.StartDate != nil {
			start = *up.StartDate
		}
		if up.EndDate != nil {
			end = *up.EndDate
		}
		if end.Before(start) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"errors": []booking.FieldError{{Field: "endDate", Message: "End date must not be before start date"}},
			})
		}
	}
	if err := h.Bookings.UpdateMetadataTx(ctx, tx, id, up); err != nil {
		return internalError(c, "admin: update metadata", err)
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "admin: commit", err)
	}
	committed = true

	detail, err := h.Bookings.GetDetailByID(ctx, id)
	if err != nil {
		return internalError(c, "admin: reload booking", err)
	}
	return c.JSON(http.StatusOK, detail)
}
