// Package router wires handlers, middleware and routes onto an Echo
// instance.  All application routes live under /api; /healthz stays
// outside so load balancers can probe without auth, cache or limits.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/wmu/thats-my-spot/internal/config"
	"github.com/wmu/thats-my-spot/internal/handler"
	"github.com/wmu/thats-my-spot/internal/middleware"
	"github.com/wmu/thats-my-spot/internal/model"
)

// Deps carries everything New needs to assemble the server.
type Deps struct {
	Cfg       config.Config
	Auth      *handler.AuthHandler
	Buildings *handler.BuildingHandler
	Rooms     *handler.RoomHandler
	Bookings  *handler.BookingHandler
	Redis     *redis.Client
}

// New builds the Echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	e.GET("/healthz", handler.Health)

	auth := middleware.JWTAuth(d.Cfg.JWTSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	anyUser := middleware.RequireRole(model.RoleUser, model.RoleAdmin)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)

	api := e.Group("/api")

	// Identity.
	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.Login)
	api.POST("/refresh", d.Auth.Refresh)
	api.GET("/me", d.Auth.Me, auth)

	// Catalog. Reads are public and cacheable; writes need the ADMIN role.
	api.GET("/buildings", d.Buildings.List, cache)
	api.POST("/buildings", d.Buildings.Create, auth, adminOnly)
	api.PUT("/buildings/:id", d.Buildings.Update, auth, adminOnly)
	api.GET("/buildings/:id/rooms", d.Rooms.ListByBuilding, cache)

	api.GET("/rooms", d.Rooms.List, cache)
	api.GET("/rooms/:id", d.Rooms.Get, cache)
	api.POST("/rooms", d.Rooms.Create, auth, adminOnly)
	api.PUT("/rooms/:id", d.Rooms.Update, auth, adminOnly)
	api.DELETE("/rooms/:id", d.Rooms.Delete, auth, adminOnly)

	// Bookings. Rate limited so one client cannot hammer the engine.
	// echo prefers static segments, so /bookings/calendar is not
	// shadowed by /bookings/:id.
	api.GET("/bookings", d.Bookings.List, auth, anyUser)
	api.POST("/bookings", d.Bookings.Create, auth, anyUser, limit)
	api.DELETE("/bookings/:id", d.Bookings.Cancel, auth, anyUser)
	api.GET("/bookings/calendar", d.Bookings.Calendar, auth, anyUser)
	api.POST("/bookings/calendar", d.Bookings.CreateFromCalendar, auth, anyUser, limit)

	return e
}
