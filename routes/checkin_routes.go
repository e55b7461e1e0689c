package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
)

func SetupCheckinRoutes(protected *gin.RouterGroup, checkinController *controllers.CheckinController) {
	checkins := protected.Group("/checkins")
	{
		checkins.POST("", checkinController.CreateCheckin)
	}
}
