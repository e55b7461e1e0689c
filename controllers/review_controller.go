package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type ReviewController struct {
	DB      *gorm.DB
	Reviews *services.ReviewService
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{
		DB:      db,
		Reviews: services.NewReviewService(db),
	}
}

type CreateReviewRequest struct {
	PlaceID   uint     `json:"placeId" binding:"required"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"imageUrls"`
}

type UpdateReviewRequest struct {
	Rating    *int     `json:"rating" binding:"omitempty,min=1,max=5"`
	Content   *string  `json:"content"`
	ImageURLs []string `json:"imageUrls"`
}

// CreateReview godoc
// @Summary Review a place
// @Description Creates a review, refreshes the place rating and awards the place's rewards
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body CreateReviewRequest true "Review request"
// @Success 201 {object} models.Review
// @Router /reviews [post]
func (rc *ReviewController) CreateReview(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := rc.Reviews.CreateReview(user.UserID, req.PlaceID, req.Rating, req.Content, req.ImageURLs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"review":  review,
		"rewards": gin.H{
			"coins": review.CoinsEarned,
			"exp":   review.ExpEarned,
		},
	})
}

// UpdateReview edits the caller's own review; changing the rating
// refreshes the place aggregates.
func (rc *ReviewController) UpdateReview(c *gin.Context) {
	user := utils.GetUser(c)
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := rc.Reviews.UpdateReview(user.UserID, uint(reviewID), services.ReviewUpdate{
		Rating:    req.Rating,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// DeleteReview soft-deletes the caller's own review. The earned
// rewards are not taken back.
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	user := utils.GetUser(c)
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	if err := rc.Reviews.DeleteReview(user.UserID, uint(reviewID)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}

// GetPlaceReviews godoc
// @Summary Get reviews for a place
// @Description Returns paginated active reviews with reviewer info, newest first
// @Tags reviews
// @Produce json
// @Param placeId path string true "Place ID"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /places/{placeId}/reviews [get]
func (rc *ReviewController) GetPlaceReviews(c *gin.Context) {
	placeID := c.Param("placeId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var reviews []struct {
		models.Review
		Username   string `json:"username"`
		Avatar     string `json:"avatar"`
		LikesCount int64  `json:"likesCount"`
	}

	var total int64
	rc.DB.Model(&models.Review{}).
		Where("place_id = ? AND status = ?", placeID, models.ReviewStatusActive).
		Count(&total)

	result := rc.DB.Model(&models.Review{}).
		Select(`
			reviews.*,
			users.username,
			users.avatar,
			(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'review' AND likes.target_id = reviews.id) as likes_count
		`).
		Joins("JOIN users ON reviews.user_id = users.id").
		Where("reviews.place_id = ? AND reviews.status = ?", placeID, models.ReviewStatusActive).
		Order("reviews.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&reviews)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(pageSize)),
		},
	})
}

// GetUserReviews returns a user's active reviews with the place names.
func (rc *ReviewController) GetUserReviews(c *gin.Context) {
	userID := c.Param("userId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var reviews []struct {
		models.Review
		PlaceName string `json:"placeName"`
	}

	var total int64
	rc.DB.Model(&models.Review{}).
		Where("user_id = ? AND status = ?", userID, models.ReviewStatusActive).
		Count(&total)

	result := rc.DB.Model(&models.Review{}).
		Select("reviews.*, places.name as place_name").
		Joins("JOIN places ON reviews.place_id = places.id").
		Where("reviews.user_id = ? AND reviews.status = ?", userID, models.ReviewStatusActive).
		Order("reviews.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&reviews)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(pageSize)),
		},
	})
}
