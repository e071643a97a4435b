package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"society-be-svc/internal/middleware"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
)

// Services groups the services the HTTP layer depends on
type Services struct {
	Auth        service.AuthService
	Flats       service.FlatService
	Maintenance service.MaintenanceService
	Dashboard   service.DashboardService
	Users       service.UserService
}

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, services Services, logger *logger.Logger) {
	// Initialize handlers
	authHandler := NewAuthHandler(services.Auth, logger)
	flatHandler := NewFlatHandler(services.Flats, logger)
	maintenanceHandler := NewMaintenanceHandler(services.Maintenance, logger)
	adminHandler := NewAdminHandler(services.Dashboard, services.Users, services.Flats, services.Maintenance, logger)

	authenticated := middleware.Auth(services.Auth)
	adminOnly := middleware.RequireAdmin()

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", HealthCheck)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/verify-email", authHandler.VerifyEmail)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", authenticated, authHandler.Me)
		}

		// Flat routes
		flats := v1.Group("/flats", authenticated)
		{
			flats.GET("", flatHandler.ListFlats)
			flats.GET("/wings", flatHandler.ListWings)
			flats.POST("", adminOnly, flatHandler.CreateFlat)
			flats.PUT("/:id", adminOnly, flatHandler.UpdateFlat)
			flats.PUT("/:id/status", adminOnly, flatHandler.SetFlatStatus)
			flats.DELETE("/:id", adminOnly, flatHandler.DeleteFlat)
		}

		// Maintenance routes
		maintenance := v1.Group("/maintenance", authenticated)
		{
			maintenance.GET("", maintenanceHandler.ListBills)
			maintenance.POST("", adminOnly, maintenanceHandler.CreateBill)
			maintenance.POST("/bulk", adminOnly, maintenanceHandler.CreateBatch)
			maintenance.PUT("/:id/pay", maintenanceHandler.PayBill)
			maintenance.DELETE("/:id", adminOnly, maintenanceHandler.DeleteBill)
			maintenance.GET("/stats/overview", adminOnly, maintenanceHandler.Stats)
		}

		// Admin routes
		admin := v1.Group("/admin", authenticated, adminOnly)
		{
			admin.GET("/dashboard-stats", adminHandler.DashboardStats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
			admin.POST("/maintenance/bulk-generate", adminHandler.BulkGenerate)
			admin.GET("/maintenance/export", adminHandler.Export)
			admin.GET("/financial-summary", adminHandler.FinancialSummary)
			admin.POST("/assign-resident", adminHandler.AssignResident)
			admin.GET("/available-residents", adminHandler.AvailableResidents)
		}
	}
}

// HealthCheck handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": "Society Management Service",
	})
}
