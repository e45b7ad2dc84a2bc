package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ecostation/monitoring-console/internal/api/console"
	"github.com/ecostation/monitoring-console/internal/api/handler"
	"github.com/ecostation/monitoring-console/internal/api/middleware"
	"github.com/ecostation/monitoring-console/internal/core/ports"
	"github.com/ecostation/monitoring-console/internal/core/service"
	"github.com/ecostation/monitoring-console/internal/pkg/config"
)

// Deps carries the long-lived collaborators the router wires into
// handlers. They are constructed in main so their lifecycles (worker
// pools, janitors) stay owned there.
type Deps struct {
	Config          *config.Config
	Log             zerolog.Logger
	Mongo           *mongo.Database
	Redis           *redis.Client
	Registry        *console.Registry
	Profiles        ports.ProfileRepository
	Classifications ports.ClassificationRepository
	Dispatcher      handler.ReadingDispatcher
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("estacion"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Registry)
	consoleHandler := handler.NewConsoleHandler(d.Registry)
	dataHandler := handler.NewDataHandler(d.Classifications)
	dashboardHandler := handler.NewDashboardHandler(
		service.NewStatsService(d.Classifications),
		d.Config.Console.PowerBIEmbedURL,
	)
	adminHandler := handler.NewAdminHandler(d.Profiles)
	infoHandler := handler.NewInfoHandler()
	ingestHandler := handler.NewIngestHandler(d.Dispatcher, d.Config.Station.APIKey)

	authMW := middleware.Auth(d.Config.Auth.JWTSecret)
	adminMW := middleware.RBAC(d.Config.Auth.SeedAdminEmail, "admin")

	// --- Auth forms ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Console navigation surface (cookie-scoped, pre-auth allowed) ---
	e.GET("/console/state", consoleHandler.State)
	e.POST("/console/navigate", consoleHandler.Navigate)

	// --- Data views (token required) ---
	data := e.Group("/data", authMW)
	data.GET("/clasificaciones", dataHandler.List)
	data.GET("/clasificaciones/export", dataHandler.Export)

	dashboard := e.Group("/dashboard", authMW)
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/powerbi", dashboardHandler.PowerBI)

	// --- Admin panel ---
	admin := e.Group("/admin", authMW, adminMW)
	admin.GET("/usuarios", adminHandler.ListUsuarios)

	// --- Informational screens ---
	e.GET("/info/reciclaje", infoHandler.Reciclaje)
	e.GET("/info/estacion", infoHandler.Estacion)

	// --- Station ingest ---
	e.POST("/ingest/lecturas", ingestHandler.Lecturas)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
