package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
)

func SetupEngagementRoutes(protected *gin.RouterGroup, achievementController *controllers.AchievementController, challengeController *controllers.ChallengeController, rewardController *controllers.RewardController) {
	achievements := protected.Group("/achievements")
	{
		achievements.GET("", achievementController.ListAchievements)
		achievements.GET("/mine", achievementController.GetMyAchievements)
	}

	challenges := protected.Group("/challenges")
	{
		challenges.GET("", challengeController.ListChallenges)
		challenges.GET("/mine", challengeController.GetMyChallenges)
		challenges.POST("/:id/complete", challengeController.CompleteChallenge)
	}

	rewards := protected.Group("/rewards")
	{
		rewards.GET("", rewardController.ListRewards)
		rewards.GET("/mine", rewardController.GetMyRewards)
		rewards.POST("/:id/redeem", rewardController.RedeemReward)
	}
}
