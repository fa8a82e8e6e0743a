package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/petshelter/adoption-system/docs"
	"github.com/petshelter/adoption-system/internal/api/handler"
	"github.com/petshelter/adoption-system/internal/api/middleware"
	"github.com/petshelter/adoption-system/internal/core/domain"
	"github.com/petshelter/adoption-system/internal/core/ports"
	"github.com/petshelter/adoption-system/internal/infrastructure/http/handlers"
)

// RateLimit bounds anonymous credential attempts per client IP.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Auth     ports.AuthService
	Adoption ports.AdoptionService
	Admin    ports.AdminService
	Images   ports.ImageFeed
	// Ready is checked by /health/ready, keyed by dependency name.
	Ready        map[string]handlers.Pinger
	RateLimit    RateLimit
	SecureCookie bool
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.HTTPMetrics())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit("1M"))

	authHandler := handler.NewAuthHandler(d.Auth, handler.CookieConfig{Secure: d.SecureCookie})
	animalHandler := handler.NewAnimalHandler(d.Adoption)
	adminHandler := handler.NewAdminHandler(d.Admin)
	imageHandler := handler.NewImageHandler(d.Images)

	ordinary := middleware.Auth(d.Auth, domain.RoleOrdinary)
	admin := middleware.Auth(d.Auth, domain.RoleAdmin)

	// --- Auth routes ---
	limited := middleware.RateLimit(d.RateLimit.PerSecond, d.RateLimit.Burst)
	e.POST("/auth/signup", authHandler.Signup, limited)
	e.POST("/auth/login", authHandler.Login, limited)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, ordinary)

	// --- Catalog and adoption ---
	e.GET("/animals", animalHandler.ListAvailable, ordinary)
	e.GET("/api/animals", animalHandler.ListAvailable, ordinary)
	e.GET("/animals/:id", animalHandler.Get, ordinary)
	e.POST("/adopt/:id", animalHandler.Adopt, ordinary)

	// --- Pet pictures ---
	images := e.Group("/api/images", ordinary)
	images.GET("/dogs", imageHandler.Dogs)
	images.GET("/cats", imageHandler.Cats)

	// --- Administration ---
	adm := e.Group("/admin", admin)
	adm.GET("/users", adminHandler.ListUsers)
	adm.GET("/users/:id", adminHandler.GetUser)
	adm.PUT("/users/:id", adminHandler.UpdateUser)
	adm.DELETE("/users/:id", adminHandler.DeleteUser)
	adm.GET("/animals", adminHandler.ListAnimals)
	adm.POST("/animals", adminHandler.CreateAnimal)
	adm.PUT("/animals/:id", adminHandler.UpdateAnimal)
	adm.GET("/adoptions", adminHandler.ListAdoptions)
	adm.GET("/audit", adminHandler.ListAudit)

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
