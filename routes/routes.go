package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/transit-watch/api-go/controllers"
	"github.com/transit-watch/api-go/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	reportController := controllers.NewReportController(db)
	interactionController := controllers.NewInteractionController(db)
	subscriptionController := controllers.NewSubscriptionController(db)
	uploadController := controllers.NewUploadController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/google", authController.GoogleSignIn)

		// Cached read endpoints for the map UI
		public.GET("/reports/recent", reportController.GetRecentReports)
		public.GET("/reports/count/today", reportController.GetTodayCount)
		public.GET("/reports/count/total", reportController.GetTotalCount)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.GET("/profile/reports/count", reportController.GetMyReportCount)

		SetupReportRoutes(protected, reportController, interactionController)
		SetupSubscriptionRoutes(protected, subscriptionController)
		SetupUploadRoutes(protected, uploadController)
	}
}
