package controllers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type CheckinController struct {
	DB       *gorm.DB
	Checkins *services.CheckinService
}

func NewCheckinController(db *gorm.DB) *CheckinController {
	return &CheckinController{
		DB:       db,
		Checkins: services.NewCheckinService(db),
	}
}

type CreateCheckinRequest struct {
	PlaceID       uint    `json:"placeId" binding:"required"`
	Latitude      float64 `json:"latitude" binding:"required"`
	Longitude     float64 `json:"longitude" binding:"required"`
	ProofImageURL string  `json:"proofImageUrl"`
}

// CreateCheckin godoc
// @Summary Check in at a place
// @Description Records a location-verified visit and awards the place's coin and experience rewards
// @Tags checkins
// @Accept json
// @Produce json
// @Param checkin body CreateCheckinRequest true "Check-in request"
// @Success 201 {object} services.CheckinResult
// @Router /checkins [post]
func (cc *CheckinController) CreateCheckin(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := cc.Checkins.CreateCheckin(user.UserID, req.PlaceID, req.Latitude, req.Longitude, req.ProofImageURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"checkin": result.Checkin,
		"rewards": gin.H{
			"coins": result.CoinsEarned,
			"exp":   result.ExpEarned,
		},
	})
}

// GetUserCheckins godoc
// @Summary Get check-ins by user
// @Description Returns paginated list of a user's check-ins, newest first
// @Tags checkins
// @Produce json
// @Param userId path string true "User ID"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/checkins [get]
func (cc *CheckinController) GetUserCheckins(c *gin.Context) {
	userID := c.Param("userId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var checkins []struct {
		models.Checkin
		PlaceName  string `json:"placeName"`
		PlaceImage string `json:"placeImage"`
		LikesCount int64  `json:"likesCount"`
	}

	var total int64
	cc.DB.Model(&models.Checkin{}).Where("user_id = ?", userID).Count(&total)

	result := cc.DB.Model(&models.Checkin{}).
		Select(`
			checkins.*,
			places.name as place_name,
			places.place_image,
			(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'checkin' AND likes.target_id = checkins.id) as likes_count
		`).
		Joins("JOIN places ON checkins.place_id = places.id").
		Where("checkins.user_id = ?", userID).
		Order("checkins.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&checkins)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching checkins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkins": checkins,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(pageSize)),
		},
	})
}

// GetPlaceCheckins returns the recent check-ins at a place.
func (cc *CheckinController) GetPlaceCheckins(c *gin.Context) {
	placeID := c.Param("placeId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var checkins []struct {
		models.Checkin
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}

	var total int64
	cc.DB.Model(&models.Checkin{}).Where("place_id = ?", placeID).Count(&total)

	result := cc.DB.Model(&models.Checkin{}).
		Select("checkins.*, users.username, users.avatar").
		Joins("JOIN users ON checkins.user_id = users.id").
		Where("checkins.place_id = ?", placeID).
		Order("checkins.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&checkins)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching checkins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkins": checkins,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(pageSize)),
		},
	})
}
