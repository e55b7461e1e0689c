package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
)

func SetupAdminRoutes(admin *gin.RouterGroup, adminController *controllers.AdminController, achievementController *controllers.AchievementController) {
	places := admin.Group("/places")
	{
		places.POST("", adminController.CreatePlace)
		places.PUT("/:placeId", adminController.UpdatePlace)
		places.PATCH("/:placeId/status", adminController.SetPlaceStatus)
	}

	achievements := admin.Group("/achievements")
	{
		achievements.POST("", adminController.CreateAchievement)
		achievements.PUT("/:achievementId", adminController.UpdateAchievement)
	}

	challenges := admin.Group("/challenges")
	{
		challenges.POST("", adminController.CreateChallenge)
		challenges.PUT("/:challengeId", adminController.UpdateChallenge)
	}

	rewards := admin.Group("/rewards")
	{
		rewards.POST("", adminController.CreateReward)
		rewards.PUT("/:rewardId", adminController.UpdateReward)
	}

	// Achievement grants are delivered by admins or backoffice jobs, not
	// self-claimed.
	admin.POST("/achievements/:achievementId/grant", achievementController.GrantAchievement)

	users := admin.Group("/users")
	{
		users.POST("/balance-adjustments", adminController.AdjustUserBalance)
		users.GET("/:userId/ledger-audit", adminController.GetLedgerAudit)
	}
}
