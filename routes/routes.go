package routes

import (
	"time"

	"coachhub/handlers"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration, login and logout.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", hb.Users.RegisterHandler)
		auth.POST("/login", hb.Users.LoginHandler)

		auth.POST("/logout", hb.Auth.JWTAuthMiddleware(), hb.Users.LogoutHandler)
	}
}

// RegisterMeRoutes registers the caller's own account endpoints.
func RegisterMeRoutes(protected *gin.RouterGroup, hb *handlers.HandlerBundle) {
	me := protected.Group("/me")
	{
		me.GET("", hb.Users.GetMeHandler)
		me.PATCH("", hb.Users.UpdateMeHandler)
		me.PUT("/fcm-token", hb.Users.UpdateFCMTokenHandler)
		me.POST("/avatar", hb.Users.UploadAvatarHandler)
	}
}

// RegisterClientRoutes registers the client roster and per-client resources.
func RegisterClientRoutes(protected *gin.RouterGroup, hb *handlers.HandlerBundle) {
	doctorOnly := middleware.RequireRole(models.RoleDoctor)

	clients := protected.Group("/clients")
	{
		clients.GET("", doctorOnly, hb.Clients.ListClientsHandler)
		clients.POST("", doctorOnly, hb.Clients.CreateClientHandler)
		clients.GET("/:id", hb.Clients.GetClientHandler)
		clients.PATCH("/:id", doctorOnly, hb.Clients.UpdateClientHandler)

		clients.POST("/:id/plans", doctorOnly, hb.Plans.CreatePlanHandler)
		clients.GET("/:id/plans", hb.Plans.ListPlansHandler)
		clients.GET("/:id/checkins", hb.CheckIns.ListCheckInsHandler)
		clients.GET("/:id/analytics", hb.Analytics.ClientAnalyticsHandler)
		clients.GET("/:id/activity", hb.Analytics.WeeklyActivityHandler)
	}
}

// RegisterPlanRoutes registers plan and meal endpoints.
func RegisterPlanRoutes(protected *gin.RouterGroup, hb *handlers.HandlerBundle) {
	doctorOnly := middleware.RequireRole(models.RoleDoctor)

	plans := protected.Group("/plans")
	{
		plans.GET("/:id", hb.Plans.GetPlanHandler)
		plans.PUT("/:id", doctorOnly, hb.Plans.UpdatePlanHandler)
		plans.DELETE("/:id", doctorOnly, hb.Plans.DeletePlanHandler)
		plans.POST("/:id/meals", doctorOnly, hb.Plans.AddMealHandler)
		plans.GET("/:id/meals", hb.Plans.ListMealsHandler)
	}

	meals := protected.Group("/meals")
	{
		meals.GET("/:id", hb.Plans.GetMealHandler)
		meals.PUT("/:id", doctorOnly, hb.Plans.UpdateMealHandler)
		meals.DELETE("/:id", doctorOnly, hb.Plans.DeleteMealHandler)
		meals.POST("/:id/complete", hb.Plans.CompleteMealHandler)
		meals.POST("/:id/select-option", hb.Plans.SelectOptionHandler)
	}
}

// RegisterAppointmentRoutes registers appointment scheduling.
func RegisterAppointmentRoutes(protected *gin.RouterGroup, hb *handlers.HandlerBundle) {
	appts := protected.Group("/appointments")
	{
		appts.POST("", middleware.RequireRole(models.RoleDoctor), hb.Appointments.CreateAppointmentHandler)
		appts.GET("", hb.Appointments.ListAppointmentsHandler)
		appts.PATCH("/:id/status", hb.Appointments.UpdateStatusHandler)
		appts.POST("/:id/cancel", hb.Appointments.CancelAppointmentHandler)
	}
}

// RegisterTrackingRoutes registers check-ins and the doctor dashboard.
func RegisterTrackingRoutes(protected *gin.RouterGroup, hb *handlers.HandlerBundle) {
	protected.POST("/checkins", middleware.RequireRole(models.RoleClient), hb.CheckIns.SubmitCheckInHandler)
	protected.GET("/dashboard", middleware.RequireRole(models.RoleDoctor), hb.Analytics.DashboardHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Device-ID", "X-Device-Name"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler(), middleware.RequestLogger(), middleware.DeviceDetailsMiddleware())

	RegisterHealthRoute(r)
	r.GET("/ws", hb.Auth.JWTAuthMiddleware(), hb.Socket.ServeWSHandler)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))
	api.GET("/config", handlers.ConfigHandler)
	RegisterAuthRoutes(api, hb)

	protected := api.Group("")
	protected.Use(hb.Auth.JWTAuthMiddleware())
	RegisterMeRoutes(protected, hb)
	RegisterClientRoutes(protected, hb)
	RegisterPlanRoutes(protected, hb)
	RegisterAppointmentRoutes(protected, hb)
	RegisterTrackingRoutes(protected, hb)
}
