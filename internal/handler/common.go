package handler // handler defines http handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/repository"
)

// getUserID extracts the authenticated user's id from the echo context.
// JWT numeric claims arrive as float64 after JSON decoding, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	return contextUint(c, "user_id")
}

// getDeptID extracts the caller's department claim.  Admin booking
// visibility is scoped by this value.
func getDeptID(c echo.Context) (uint64, error) {
	return contextUint(c, "dept_id")
}

func contextUint(c echo.Context, key string) (uint64, error) {
	switch t := c.Get(key).(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid " + key + " in context")
}

// isAdmin reports whether the caller carries the ADMIN role claim.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// canAccessBooking reports whether a caller may read or act on a booking
// owned by ownerID.  Admins reach every booking, plain users only their own.
func canAccessBooking(callerID uint64, admin bool, ownerID uint64) bool {
	return admin || callerID == ownerID
}

// pathID parses a numeric :id (or other named) path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}

// conflictJSON renders the 409 body for a schedule conflict, exposing the
// blocking slot's room, day and times so the caller can adjust and retry.
func conflictJSON(c echo.Context, ce *repository.ScheduleConflictError) error {
	b := ce.Blocking
	return c.JSON(http.StatusConflict, echo.Map{
		"error": "schedule conflict",
		"conflict": echo.Map{
			"roomId":    b.RoomID,
			"day":       string(b.Day),
			"startTime": b.Start.String(),
			"endTime":   b.End.String(),
			"requestId": b.RequestID,
		},
	})
}

// internalError logs the underlying failure and returns the generic 500
// body.  Internal detail never reaches the caller.
func internalError(c echo.Context, op string, err error) error {
	log.Printf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
