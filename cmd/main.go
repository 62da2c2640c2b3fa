package main

import (
	"gym-service/internal/handler"
	"gym-service/internal/middleware"
	"gym-service/pkg/config"
	"gym-service/pkg/database"
	"gym-service/pkg/jwtutil"
	"gym-service/pkg/logger"
	"gym-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting gym service...", zap.String("environment", cfg.Server.Env))

	// Initialize database (now includes migrations automatically)
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Initialize JWT signing with configuration
	jwtutil.Initialize(&cfg.JWT)

	db := database.GetDB()

	authHandler := handler.NewAuthHandler(db)
	memberHandler := handler.NewMemberHandler(db)
	packageHandler := handler.NewPackageHandler(db)
	billHandler := handler.NewBillHandler(db)
	storeHandler := handler.NewStoreHandler(db)
	dietHandler := handler.NewDietHandler(db)
	notificationHandler := handler.NewNotificationHandler(db)
	dashboardHandler := handler.NewDashboardHandler(db)
	exportHandler := handler.NewExportHandler(db)
	portalHandler := handler.NewPortalHandler(db)
	debugHandler := handler.NewDebugHandler(db)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.POST("/logout", authHandler.Logout)
	api.GET("/users/profile", authHandler.Profile)

	// Troubleshooting console; authenticated but not role-gated
	api.GET("/debug/probe", debugHandler.Probe)
	api.POST("/debug/credentials", debugHandler.CheckCredentials)

	// Admin console
	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole("admin"))
	admin.GET("/dashboard", dashboardHandler.Stats)

	admin.GET("/members", memberHandler.List)
	admin.GET("/members/lookup", memberHandler.Lookup)
	admin.GET("/members/:id", memberHandler.Get)
	admin.POST("/members", memberHandler.Create)
	admin.PUT("/members/:id", memberHandler.Update)
	admin.DELETE("/members/:id", memberHandler.Delete)

	admin.GET("/packages", packageHandler.List)
	admin.POST("/packages", packageHandler.Create)
	admin.DELETE("/packages/:id", packageHandler.Delete)

	admin.GET("/bills", billHandler.List)
	admin.POST("/bills", billHandler.Create)

	admin.GET("/store", storeHandler.List)
	admin.POST("/store", storeHandler.Create)
	admin.DELETE("/store/:id", storeHandler.Delete)

	admin.GET("/diets/:memberId", dietHandler.Get)
	admin.PUT("/diets/:memberId", dietHandler.Save)

	admin.POST("/notifications", notificationHandler.Send)

	admin.GET("/export/members", exportHandler.Members)
	admin.GET("/export/bills", exportHandler.Bills)
	admin.GET("/export/packages", exportHandler.Packages)
	admin.GET("/export/store-items", exportHandler.StoreItems)

	// Member portal
	portal := api.Group("/portal")
	portal.Use(middleware.RequireRole("member"))
	portal.GET("/overview", portalHandler.Overview)
	portal.GET("/bills", portalHandler.Bills)
	portal.GET("/notifications", portalHandler.Notifications)
	portal.GET("/diet", portalHandler.Diet)
	portal.GET("/store", portalHandler.Store)
	portal.GET("/activity", portalHandler.Activity)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
