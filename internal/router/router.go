// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/handler"
	"github.com/stagepass/stagepass/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, while the protected
// session read lives under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh token in the body or a bearer
	// token, so it is reachable without the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated catalog browsing. The
// optional cache middleware is applied per-route so only the browse
// responses are cached, never authenticated data.
func RegisterPublic(e *echo.Echo, h *handler.ConcertHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/concerts", h.List, mws...)
	e.GET("/v1/concerts/:id", h.Get, mws...)
}

// RegisterBooking registers the authenticated purchase, history and
// draft-handoff routes under /v1 behind the JWT middleware.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, d *handler.DraftHandler, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("CUSTOMER"))

	auth.POST("/bookings", b.Purchase)
	auth.GET("/bookings", b.ListMine)

	auth.POST("/drafts", d.Create)
	auth.GET("/drafts/:id", d.Get)
	auth.DELETE("/drafts/:id", d.Delete)
}

// RegisterDev mounts development utilities. The caller only invokes
// this in the dev environment; production never sees these routes.
func RegisterDev(e *echo.Echo, h *handler.DevHandler) {
	e.POST("/v1/dev/reset", h.Reset)
}
