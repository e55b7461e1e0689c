package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	// Like interactions
	likes := protected.Group("/likes")
	{
		likes.POST("", interactionController.ToggleLike)
	}

	// User interactions
	users := protected.Group("/users")
	{
		users.POST("/:userId/follow", interactionController.FollowUser)
		users.DELETE("/:userId/follow", interactionController.UnfollowUser)
		users.GET("/:userId/followers", interactionController.GetUserFollowers)
		users.GET("/:userId/following", interactionController.GetUserFollowing)
	}
}
