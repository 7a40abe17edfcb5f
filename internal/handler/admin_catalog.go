package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/booking"
	"github.com/campusbook/room-booking/internal/model"
	"github.com/campusbook/room-booking/internal/repository"
)

// AdminCatalogHandler serves the admin CRUD endpoints for buildings,
// departments and rooms.
type AdminCatalogHandler struct {
	Rooms       *repository.RoomRepo
	Buildings   *repository.BuildingRepo
	Departments *repository.DepartmentRepo
}

func NewAdminCatalogHandler(r *repository.RoomRepo, b *repository.BuildingRepo, d *repository.DepartmentRepo) *AdminCatalogHandler {
	return &AdminCatalogHandler{Rooms: r, Buildings: b, Departments: d}
}

// ----- rooms -----

type roomReq struct {
	Name     string `json:"roomName"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

func (req roomReq) validate() []booking.FieldError {
	var errs []booking.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, booking.FieldError{Field: "roomName", Message: "Room name is required"})
	}
	if strings.TrimSpace(req.Type) == "" {
		errs = append(errs, booking.FieldError{Field: "type", Message: "Room type is required"})
	}
	if req.Capacity <= 0 {
		errs = append(errs, booking.FieldError{Field: "capacity", Message: "Capacity must be positive"})
	}
	return errs
}

func (h *AdminCatalogHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rm := model.Room{Name: strings.TrimSpace(req.Name), Type: strings.TrimSpace(req.Type), Capacity: req.Capacity}
	if err := h.Rooms.Create(ctx, &rm); err != nil {
		return internalError(c, "admin: create room", err)
	}
	return c.JSON(http.StatusCreated, rm)
}

func (h *AdminCatalogHandler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rm := model.Room{ID: id, Name: strings.TrimSpace(req.Name), Type: strings.TrimSpace(req.Type), Capacity: req.Capacity}
	if err := h.Rooms.Update(ctx, &rm); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return internalError(c, "admin: update room", err)
	}
	return c.JSON(http.StatusOK, rm)
}

func (h *AdminCatalogHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Rooms.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrRoomNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case repository.ErrHasDependents:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room still has bookings"})
		}
		return internalError(c, "admin: delete room", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- buildings -----

type buildingReq struct {
	Floors *int `json:"floors"`
}

func (h *AdminCatalogHandler) CreateBuilding(c echo.Context) error {
	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Floors != nil && *req.Floors <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": []booking.FieldError{{Field: "floors", Message: "Floors must be positive"}},
		})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b := model.Building{Floors: req.Floors}
	if err := h.Buildings.Create(ctx, &b); err != nil {
		return internalError(c, "admin: create building", err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *AdminCatalogHandler) UpdateBuilding(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Floors != nil && *req.Floors <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors": []booking.FieldError{{Field: "floors", Message: "Floors must be positive"}},
		})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b := model.Building{ID: id, Floors: req.Floors}
	if err := h.Buildings.Update(ctx, &b); err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return internalError(c, "admin: update building", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *AdminCatalogHandler) DeleteBuilding(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Buildings.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrBuildingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		case repository.ErrHasDependents:
			return c.JSON(http.StatusConflict, echo.Map{"error": "building still has departments"})
		}
		return internalError(c, "admin: delete building", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- departments -----

type departmentReq struct {
	Name       string `json:"name"`
	BuildingID uint64 `json:"buildingId"`
}

func (req departmentReq) validate() []booking.FieldError {
	var errs []booking.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, booking.FieldError{Field: "name", Message: "Department name is required"})
	}
	if req.BuildingID == 0 {
		errs = append(errs, booking.FieldError{Field: "buildingId", Message: "Building id is required"})
	}
	return errs
}

func (h *AdminCatalogHandler) CreateDepartment(c echo.Context) error {
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	d := model.Department{Name: strings.TrimSpace(req.Name), BuildingID: req.BuildingID}
	if err := h.Departments.Create(ctx, &d); err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return internalError(c, "admin: create department", err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *AdminCatalogHandler) UpdateDepartment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	d := model.Department{ID: id, Name: strings.TrimSpace(req.Name), BuildingID: req.BuildingID}
	if err := h.Departments.Update(ctx, &d); err != nil {
		switch err {
		case repository.ErrDepartmentNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		case repository.ErrBuildingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return internalError(c, "admin: update department", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminCatalogHandler) DeleteDepartment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Departments.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrDepartmentNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		case repository.ErrHasDependents:
			return c.JSON(http.StatusConflict, echo.Map{"error": "department still has users"})
		}
		return internalError(c, "admin: delete department", err)
	}
	return c.NoContent(http.StatusNoContent)
}
