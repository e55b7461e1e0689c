package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
)

func SetupPlaceRoutes(protected *gin.RouterGroup, placeController *controllers.PlaceController, checkinController *controllers.CheckinController, reviewController *controllers.ReviewController) {
	places := protected.Group("/places")
	{
		places.GET("", placeController.ListPlaces)
		places.GET("/:placeId", placeController.GetPlaceDetails)
		places.GET("/:placeId/checkins", checkinController.GetPlaceCheckins)
		places.GET("/:placeId/reviews", reviewController.GetPlaceReviews)
	}
}
