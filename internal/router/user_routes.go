package router

import (
	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/handler"
	"github.com/campusbook/room-booking/internal/middleware"
)

// RegisterBookings wires the authenticated requester endpoints.  Any signed
// in account (USER or ADMIN) can file and inspect its own requests.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER", "ADMIN"))

	// Submitting a request validates the whole payload, checks the room's
	// approved calendar and persists booking plus schedules atomically.
	g.POST("", b.Create)
	g.GET("/my", b.ListMine)
	g.GET("/:id", b.Get)
	// Owners may withdraw while PENDING; admins may delete regardless.
	g.DELETE("/:id", b.Delete)
}
