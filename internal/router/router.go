// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avokadim/coworking-backend/internal/handler"
	"github.com/avokadim/coworking-backend/internal/middleware"
)

// browseCacheTTL keeps public catalog responses for a short window.
// Reservation endpoints are never cached.
const browseCacheTTL = 30 * time.Second

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints and the protected /v1/me
// route. Unauthenticated operations live under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated coworking catalog. Browse
// responses are cached in Redis; a nil client disables the cache.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, rdb *redis.Client) {
	cache := middleware.CacheBrowse(rdb, browseCacheTTL)
	e.GET("/v1/coworkings", b.List, cache)
	e.GET("/v1/coworkings/:id", b.Get, cache)
	e.GET("/v1/search/coworkings", b.SearchAvailable)
}

// RegisterAdmin registers coworking setup endpoints under /v1/admin,
// restricted to the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	g.POST("/coworkings", a.CreateCoworking)
	g.POST("/coworkings/:id/schedule", a.RegisterSchedule)
	g.POST("/coworkings/:id/seats", a.CreateSeats)
	g.POST("/coworkings/:id/exceptions", a.CreateBusinessException)
}

// RegisterReservations registers the reservation endpoints. Both roles
// may reserve; ownership checks happen in the handler.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	g.POST("/reservations", r.Create)
	g.DELETE("/reservations/:id", r.Cancel)
	g.GET("/my-reservations", r.ListMine)
}
