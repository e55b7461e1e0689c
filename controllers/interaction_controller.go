package controllers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type InteractionController struct {
	DB     *gorm.DB
	Social *services.SocialService
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{
		DB:     db,
		Social: services.NewSocialService(db),
	}
}

// FollowUser godoc
// @Summary Follow a user
// @Description Creates the follow relationship and returns the updated counters
// @Tags interactions
// @Produce json
// @Param userId path string true "User ID to follow"
// @Success 200 {object} services.FollowCounts
// @Router /users/{userId}/follow [post]
func (ic *InteractionController) FollowUser(c *gin.Context) {
	user := utils.GetUser(c)
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	counts, err := ic.Social.FollowUser(user.UserID, uint(targetID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": true,
		"counts":    counts,
	})
}

// UnfollowUser removes the follow relationship.
func (ic *InteractionController) UnfollowUser(c *gin.Context) {
	user := utils.GetUser(c)
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	counts, err := ic.Social.UnfollowUser(user.UserID, uint(targetID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": false,
		"counts":    counts,
	})
}

type ToggleLikeRequest struct {
	TargetType string `json:"targetType" binding:"required"`
	TargetID   uint   `json:"targetId" binding:"required"`
}

// ToggleLike godoc
// @Summary Like or unlike a checkin or review
// @Description Toggles the caller's like on the target
// @Tags interactions
// @Accept json
// @Produce json
// @Param like body ToggleLikeRequest true "Like target"
// @Success 200 {object} map[string]interface{}
// @Router /likes [post]
func (ic *InteractionController) ToggleLike(c *gin.Context) {
	user := utils.GetUser(c)
	var req ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	liked, err := ic.Social.ToggleLike(user.UserID, models.RefType(req.TargetType), req.TargetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	count, err := ic.Social.CountLikes(models.RefType(req.TargetType), req.TargetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"likesCount": count,
	})
}

// GetUserFollowers godoc
// @Summary Get user's followers
// @Description Returns paginated list of user's followers
// @Tags interactions
// @Produce json
// @Param userId path string true "User ID"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/followers [get]
func (ic *InteractionController) GetUserFollowers(c *gin.Context) {
	userID := c.Param("userId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var followers []struct {
		UserID    uint      `json:"userId"`
		Username  string    `json:"username"`
		Avatar    string    `json:"avatar"`
		CreatedAt time.Time `json:"followedAt"`
	}

	var total int64
	ic.DB.Model(&models.Follow{}).Where("following_user_id = ?", userID).Count(&total)

	result := ic.DB.Model(&models.Follow{}).
		Select("users.id as user_id, users.username, users.avatar, follows.created_at").
		Joins("JOIN users ON users.id = follows.follower_user_id").
		Where("follows.following_user_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&followers)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching followers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"followers": followers,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(pageSize)),
		},
	})
}

// GetUserFollowing godoc
// @Summary Get users that a user is following
// @Description Returns paginated list of users that the specified user is following
// @Tags interactions
// @Produce json
// @Param userId path string true "User ID"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/following [get]
func (ic *InteractionController) GetUserFollowing(c *gin.Context) {
	userID := c.Param("userId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var following []struct {
		UserID    uint      `json:"userId"`
		Username  string    `json:"username"`
		Avatar    string    `json:"avatar"`
		CreatedAt time.Time `json:"followedAt"`
	}

	var total int64
	ic.DB.Model(&models.Follow{}).Where("follower_user_id = ?", userID).Count(&total)

	result := ic.DB.Model(&models.Follow{}).
		Select("users.id as user_id, users.username, users.avatar, follows.created_at").
		Joins("JOIN users ON users.id = follows.following_user_id").
		Where("follows.follower_user_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&following)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching following users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(pageSize)),
		},
	})
}
