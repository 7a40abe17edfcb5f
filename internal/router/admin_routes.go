package router

import (
	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/handler"
	"github.com/campusbook/room-booking/internal/middleware"
)

// RegisterAdmin wires the review and catalog management endpoints.  All of
// them require the ADMIN role; booking listings are additionally scoped to
// the admin's department via the dept_id claim.
func RegisterAdmin(e *echo.Echo, ab *handler.AdminBookingHandler, ac *handler.AdminCatalogHandler, as *handler.AdminScheduleHandler, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	// Account provisioning.  This is Register behind the admin guard, which
	// is the only place the requested ADMIN role is honoured.
	g.POST("/users", a.Register)

	// Booking review.
	g.GET("/bookings", ab.List)
	g.GET("/bookings/:id", ab.Get)
	g.PUT("/bookings/:id", ab.UpdateMetadata)
	g.PUT("/bookings/:id/status", ab.UpdateStatus)
	g.DELETE("/bookings/:id", ab.Delete)

	// Schedule adjustments on existing bookings.
	g.POST("/schedules", as.Create)
	g.PUT("/schedules/:id", as.Update)
	g.DELETE("/schedules/:id", as.Delete)

	// Catalog management.
	g.POST("/rooms", ac.CreateRoom)
	g.PUT("/rooms/:id", ac.UpdateRoom)
	g.DELETE("/rooms/:id", ac.DeleteRoom)
	g.POST("/buildings", ac.CreateBuilding)
	g.PUT("/buildings/:id", ac.UpdateBuilding)
	g.DELETE("/buildings/:id", ac.DeleteBuilding)
	g.POST("/departments", ac.CreateDepartment)
	g.PUT("/departments/:id", ac.UpdateDepartment)
	g.DELETE("/departments/:id", ac.DeleteDepartment)
}
