package routes

import (
	"time"

	"barber-booking-server/internal/config"
	"barber-booking-server/internal/handlers"
	"barber-booking-server/internal/middleware"
	"barber-booking-server/internal/models"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, store repository.Store, engine *schedule.Engine, cfg *config.Config, logger *zap.Logger) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, cfg.JWTSecret, time.Duration(cfg.JWTExpirationMinutes)*time.Minute, logger.Named("auth"))
	availabilityHandler := handlers.NewAvailabilityHandler(engine, logger.Named("availability"))
	appointmentHandler := handlers.NewAppointmentHandler(engine, store, logger.Named("appointments"))
	blockedHandler := handlers.NewBlockedRangeHandler(engine, store, logger.Named("blocked_times"))
	settingsHandler := handlers.NewSettingsHandler(engine, store, logger.Named("settings"))

	bookingLimiter := middleware.NewRateLimiter(cfg.BookingRatePerMinute)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.GET("/schedule", availabilityHandler.GetSchedule)
		public.GET("/availability", availabilityHandler.GetAvailability)
		public.POST("/appointments", bookingLimiter.Middleware(logger), appointmentHandler.CreateAppointment)

		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", loginLimiter.Middleware(logger), authHandler.Login)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.GET("/auth/profile", authHandler.GetProfile)
		admin.PUT("/auth/profile", authHandler.UpdateProfile)

		appointmentRoutes := admin.Group("/admin/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.POST("", appointmentHandler.AdminCreateAppointment)
			appointmentRoutes.PUT("", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("", appointmentHandler.DeleteAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		blockedRoutes := admin.Group("/admin/blocked-times")
		{
			blockedRoutes.GET("", blockedHandler.GetBlockedRanges)
			blockedRoutes.POST("", blockedHandler.CreateBlockedRange)
			blockedRoutes.POST("/recurring", blockedHandler.CreateRecurringBlockedRanges)
			blockedRoutes.PUT("", blockedHandler.UpdateBlockedRange)
			blockedRoutes.PUT("/:id", blockedHandler.UpdateBlockedRange)
			blockedRoutes.DELETE("", blockedHandler.DeleteBlockedRange)
			blockedRoutes.DELETE("/:id", blockedHandler.DeleteBlockedRange)
		}

		settingsRoutes := admin.Group("/admin/availability")
		{
			settingsRoutes.GET("", settingsHandler.GetAvailabilityWindows)
			settingsRoutes.PUT("/:class", settingsHandler.UpdateAvailabilityWindow)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
