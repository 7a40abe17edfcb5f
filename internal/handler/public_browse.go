package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/repository"
)

// CatalogHandler serves the unauthenticated browse endpoints: rooms,
// buildings, departments and the approved calendar.  These are the routes
// fronted by the response cache.
type CatalogHandler struct {
	Rooms       *repository.RoomRepo
	Buildings   *repository.BuildingRepo
	Departments *repository.DepartmentRepo
	Bookings    *repository.BookingRepo
}

func NewCatalogHandler(r *repository.RoomRepo, b *repository.BuildingRepo, d *repository.DepartmentRepo, bk *repository.BookingRepo) *CatalogHandler {
	return &CatalogHandler{Rooms: r, Buildings: b, Departments: d, Bookings: bk}
}

func (h *CatalogHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return internalError(c, "catalog: list rooms", err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *CatalogHandler) GetRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return internalError(c, "catalog: get room", err)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *CatalogHandler) ListBuildings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	buildings, err := h.Buildings.List(ctx)
	if err != nil {
		return internalError(c, "catalog: list buildings", err)
	}
	return c.JSON(http.StatusOK, buildings)
}

func (h *CatalogHandler) GetBuilding(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := h.Buildings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return internalError(c, "catalog: get building", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHandler) ListDepartments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	deps, err := h.Departments.List(ctx)
	if err != nil {
		return internalError(c, "catalog: list departments", err)
	}
	return c.JSON(http.StatusOK, deps)
}

// ListApproved returns the public calendar: every APPROVED booking with its
// schedules.
func (h *CatalogHandler) ListApproved(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	out, err := h.Bookings.ListApproved(ctx)
	if err != nil {
		return internalError(c, "catalog: list approved", err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListApprovedByRoom returns the approved calendar for one room, the view a
// client renders before composing a new request.
func (h *CatalogHandler) ListApprovedByRoom(c echo.Context) error {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roomId"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return internalError(c, "catalog: get room", err)
	}
	out, err := h.Bookings.ListApprovedByRoom(ctx, roomID)
	if err != nil {
		return internalError(c, "catalog: list approved by room", err)
	}
	return c.JSON(http.StatusOK, out)
}
