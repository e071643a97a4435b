package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"society-be-svc/docs"
	"society-be-svc/internal/auth"
	"society-be-svc/internal/cache"
	"society-be-svc/internal/config"
	"society-be-svc/internal/database"
	"society-be-svc/internal/handler"
	"society-be-svc/internal/middleware"
	"society-be-svc/internal/notification"
	"society-be-svc/internal/repository"
	"society-be-svc/internal/scheduler"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
)

// @title Society Management Service API
// @version 1.0
// @description Residents, flats and maintenance billing for a residential society

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Swagger documentation
	docs.SwaggerInfo.Title = "Society Management Service API"
	docs.SwaggerInfo.Description = "Residents, flats and maintenance billing for a residential society"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", cfg.Server.Port)
	docs.SwaggerInfo.BasePath = ""
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting Society Management Service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		appLogger.WithField("error", err).Fatal("Failed to connect to database")
	}
	appLogger.Info("Database connected successfully")

	// Run auto migration
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithField("error", err).Fatal("Failed to run database migrations")
	}
	appLogger.Info("Database migrations completed successfully")

	// Dashboard cache is optional
	var dashboardCache service.DashboardCache = service.NopDashboardCache{}
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		appLogger.WithField("error", err).Warn("Redis unavailable, dashboard cache disabled")
	} else if redisClient != nil {
		dashboardCache = cache.NewDashboardCache(redisClient)
		appLogger.WithField("addr", cfg.Redis.Addr).Info("Redis connected successfully")
	}

	// Notifications are delivered in the background
	dispatcher := notification.NewDispatcher(notification.NewSender(&cfg.Email, appLogger), appLogger, cfg.Email.QueueSize)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	flatRepo := repository.NewFlatRepository(db.DB)
	billRepo := repository.NewMaintenanceRepository(db.DB)
	dashboardRepo := repository.NewDashboardRepository(db.DB)
	schedulerLogRepo := repository.NewSchedulerLogRepository(db.DB)

	// Initialize services
	jwtManager := auth.NewJWTManager(&cfg.JWT)
	services := handler.Services{
		Auth:        service.NewAuthService(db.DB, userRepo, flatRepo, jwtManager, dispatcher, dashboardCache, appLogger),
		Flats:       service.NewFlatService(db.DB, flatRepo, userRepo, dashboardCache, appLogger),
		Maintenance: service.NewMaintenanceService(db.DB, billRepo, flatRepo, userRepo, dashboardRepo, dispatcher, dashboardCache, appLogger),
		Dashboard:   service.NewDashboardService(userRepo, flatRepo, billRepo, dashboardCache, appLogger),
		Users:       service.NewUserService(userRepo, appLogger),
	}

	// Initialize and start overdue scheduler
	var overdueScheduler *scheduler.OverdueScheduler
	if cfg.Scheduler.Enabled {
		overdueScheduler = scheduler.NewOverdueScheduler(services.Maintenance, schedulerLogRepo, appLogger, cfg.Scheduler.OverdueCronExpression)
		if err := overdueScheduler.Start(); err != nil {
			appLogger.WithField("error", err).Fatal("Failed to start overdue scheduler")
		}
	}

	// Initialize Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(&cfg.CORS))
	router.Use(middleware.Metrics())
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())
	router.HandleMethodNotAllowed = true

	// Setup routes
	handler.SetupRoutes(router, services, appLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		appLogger.WithField("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)).Info("Swagger documentation available")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithField("error", err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithField("port", cfg.Server.Port).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithField("error", err).Error("Server forced to shutdown")
	}

	if overdueScheduler != nil {
		overdueScheduler.Stop()
	}

	// Flush queued notifications
	dispatcher.Close()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLogger.WithField("error", err).Error("Failed to close redis connection")
		}
	}

	// Close database connection
	if err := db.Close(); err != nil {
		appLogger.WithField("error", err).Error("Failed to close database connection")
	}

	appLogger.Info("Server exited successfully")
}
