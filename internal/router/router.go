package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/handler"
	"github.com/campusbook/room-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented one is revoked and a
	// new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout takes a refresh_token in the body and invalidates it; no JWT
	// is required since the refresh credential itself proves the session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("USER", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the room
// catalog, buildings, departments and the approved booking calendar.  These
// are the routes the optional response cache fronts.
func RegisterPublic(e *echo.Echo, p *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/rooms", p.ListRooms)
	g.GET("/rooms/:id", p.GetRoom)
	g.GET("/buildings", p.ListBuildings)
	g.GET("/buildings/:id", p.GetBuilding)
	g.GET("/departments", p.ListDepartments)
	// The public calendar shows only APPROVED bookings; pending and
	// rejected requests are visible to their owner and admins alone.
	g.GET("/bookings", p.ListApproved)
	g.GET("/bookings/room/:roomId", p.ListApprovedByRoom)
}
