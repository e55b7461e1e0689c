package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type FeedController struct {
	DB *gorm.DB
}

type FeedQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"pageSize,default=20" binding:"min=1,max=50"`
	TimeFrame string `form:"timeFrame" binding:"omitempty,oneof=today this_week this_month all_time"`
}

func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{DB: db}
}

// GetUserFeed godoc
// @Summary Get user's activity feed
// @Description Returns check-ins and reviews from followed users, newest first
// @Tags feed
// @Accept json
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20, max: 50)"
// @Param timeFrame query string false "Time frame: today, this_week, this_month, all_time"
// @Success 200 {object} map[string]interface{}
// @Router /feed [get]
func (fc *FeedController) GetUserFeed(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	userID := user.UserID

	var query FeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	since := feedTimeFrameStart(query.TimeFrame, time.Now())
	offset := (query.Page - 1) * query.PageSize

	followedBy := "SELECT following_user_id FROM follows WHERE follower_user_id = ?"

	var checkinTotal, reviewTotal int64
	fc.DB.Model(&models.Checkin{}).
		Where("user_id IN ("+followedBy+") AND created_at >= ?", userID, since).
		Count(&checkinTotal)
	fc.DB.Model(&models.Review{}).
		Where("user_id IN ("+followedBy+") AND status = ? AND created_at >= ?", userID, models.ReviewStatusActive, since).
		Count(&reviewTotal)
	total := checkinTotal + reviewTotal

	var items []struct {
		ActivityType string    `json:"activityType"`
		ID           uint      `json:"id"`
		UserID       uint      `json:"userId"`
		Username     string    `json:"username"`
		UserAvatar   string    `json:"userAvatar"`
		PlaceID      uint      `json:"placeId"`
		PlaceName    string    `json:"placeName"`
		PlaceImage   string    `json:"placeImage"`
		Rating       int       `json:"rating,omitempty"`
		Content      string    `json:"content,omitempty"`
		CoinsEarned  int64     `json:"coinsEarned"`
		ExpEarned    int64     `json:"expEarned"`
		LikesCount   int64     `json:"likesCount"`
		IsLiked      bool      `json:"isLiked"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	result := fc.DB.Raw(`
		SELECT 'checkin' AS activity_type, checkins.id, checkins.user_id, users.username,
			users.avatar AS user_avatar, checkins.place_id, places.name AS place_name,
			places.place_image, 0 AS rating, '' AS content,
			checkins.coins_earned, checkins.exp_earned,
			(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'checkin' AND likes.target_id = checkins.id) AS likes_count,
			EXISTS(SELECT 1 FROM likes WHERE likes.target_type = 'checkin' AND likes.target_id = checkins.id AND likes.user_id = ?) AS is_liked,
			checkins.created_at
		FROM checkins
		JOIN users ON users.id = checkins.user_id
		JOIN places ON places.id = checkins.place_id
		WHERE checkins.user_id IN (`+followedBy+`) AND checkins.created_at >= ?
		UNION ALL
		SELECT 'review', reviews.id, reviews.user_id, users.username,
			users.avatar, reviews.place_id, places.name,
			places.place_image, reviews.rating, reviews.content,
			reviews.coins_earned, reviews.exp_earned,
			(SELECT COUNT(*) FROM likes WHERE likes.target_type = 'review' AND likes.target_id = reviews.id),
			EXISTS(SELECT 1 FROM likes WHERE likes.target_type = 'review' AND likes.target_id = reviews.id AND likes.user_id = ?),
			reviews.created_at
		FROM reviews
		JOIN users ON users.id = reviews.user_id
		JOIN places ON places.id = reviews.place_id
		WHERE reviews.user_id IN (`+followedBy+`) AND reviews.status = ? AND reviews.created_at >= ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		userID, userID, since,
		userID, userID, models.ReviewStatusActive, since,
		query.PageSize, offset,
	).Scan(&items)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": items,
		"pagination": gin.H{
			"currentPage": query.Page,
			"pageSize":    query.PageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(query.PageSize)),
		},
	})
}

func feedTimeFrameStart(timeFrame string, now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch timeFrame {
	case "today":
		return day
	case "this_week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return day.AddDate(0, 0, -(weekday - 1))
	case "this_month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}
