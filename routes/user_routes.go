package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController, checkinController *controllers.CheckinController, reviewController *controllers.ReviewController) {
	users := protected.Group("/users")
	{
		// User profile endpoints
		users.GET("/:userId/profile", userController.GetUserProfile)
		users.GET("/search", userController.SearchUsers)
		users.GET("/suggested", userController.GetSuggestedUsers)

		// Ledger history for the authenticated user
		users.GET("/me/transactions", userController.GetMyTransactions)

		// User activity
		users.GET("/:userId/checkins", checkinController.GetUserCheckins)
		users.GET("/:userId/reviews", reviewController.GetUserReviews)
	}
}
