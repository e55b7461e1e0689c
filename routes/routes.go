package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
	"github.com/trail-point/api-go/middleware"
	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	uploadController := controllers.NewUploadController(db)
	authController := controllers.NewAuthController(db, uploadController)
	checkinController := controllers.NewCheckinController(db)
	reviewController := controllers.NewReviewController(db)
	achievementController := controllers.NewAchievementController(db)
	challengeController := controllers.NewChallengeController(db)
	rewardController := controllers.NewRewardController(db)
	interactionController := controllers.NewInteractionController(db)
	placeController := controllers.NewPlaceController(db)
	userController := controllers.NewUserController(db)
	feedController := controllers.NewFeedController(db)
	validationController := controllers.NewValidationController(db)
	adminController := controllers.NewAdminController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/register/email-check", authController.RegisterEmailCheck)
		public.POST("/register/username-check", authController.RegisterUsernameCheck)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		// Setup other routes within the protected group
		SetupCheckinRoutes(protected, checkinController)
		SetupReviewRoutes(protected, reviewController)
		SetupEngagementRoutes(protected, achievementController, challengeController, rewardController)
		SetupInteractionRoutes(protected, interactionController)
		SetupPlaceRoutes(protected, placeController, checkinController, reviewController)
		SetupUserRoutes(protected, userController, checkinController, reviewController)
		SetupFeedRoutes(protected, feedController)
		SetupUploadRoutes(protected, uploadController)
		SetupValidationRoutes(protected, validationController)
	}

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		SetupAdminRoutes(admin, adminController, achievementController)
	}
}
