package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/types"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
	Social *services.SocialService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		DB:     db,
		Ledger: services.NewLedgerService(db),
		Social: services.NewSocialService(db),
	}
}

// GetUserProfile returns a user's public profile with their progress
// counters and the relationship to the caller.
func (uc *UserController) GetUserProfile(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID := c.Param("userId")

	var targetUser models.User
	if err := uc.DB.First(&targetUser, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	isOwnProfile := currentUser.UserID == targetUser.ID
	isFollowing := false
	if !isOwnProfile {
		following, err := uc.Social.IsFollowing(currentUser.UserID, targetUser.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		isFollowing = following
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":               targetUser.ID,
			"username":         targetUser.Username,
			"firstName":        targetUser.FirstName,
			"lastName":         targetUser.LastName,
			"bio":              targetUser.Bio,
			"avatar":           targetUser.Avatar,
			"accountStatus":    targetUser.AccountStatus,
			"isVerified":       targetUser.IsVerified,
			"createdAt":        targetUser.CreatedAt,
			"coinBalance":      targetUser.CoinBalance,
			"expPoints":        targetUser.ExpPoints,
			"level":            types.LevelForExp(targetUser.ExpPoints),
			"totalCheckin":     targetUser.TotalCheckin,
			"totalReview":      targetUser.TotalReview,
			"totalAchievement": targetUser.TotalAchievement,
			"totalChallenge":   targetUser.TotalChallenge,
			"followersCount":   targetUser.TotalFollower,
			"followingCount":   targetUser.TotalFollowing,
			"isOwnProfile":     isOwnProfile,
			"isFollowing":      isFollowing,
		},
	})
}

// GetMyTransactions returns the caller's ledger history for one
// currency.
func (uc *UserController) GetMyTransactions(c *gin.Context) {
	user := utils.GetUser(c)
	currency := c.DefaultQuery("currency", services.CurrencyCoin)
	page, pageSize := pagination(c)

	switch currency {
	case services.CurrencyCoin:
		entries, total, err := uc.Ledger.ListCoinTransactions(user.UserID, page, pageSize)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"currency":     currency,
			"transactions": entries,
			"pagination": gin.H{
				"currentPage": page,
				"pageSize":    pageSize,
				"totalItems":  total,
				"totalPages":  totalPages(total, pageSize),
			},
		})
	case services.CurrencyExp:
		entries, total, err := uc.Ledger.ListExpTransactions(user.UserID, page, pageSize)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"currency":     currency,
			"transactions": entries,
			"pagination": gin.H{
				"currentPage": page,
				"pageSize":    pageSize,
				"totalItems":  total,
				"totalPages":  totalPages(total, pageSize),
			},
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown currency"})
	}
}

// SearchUsers finds users by username or name fragments.
func (uc *UserController) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var users []struct {
		ID         uint   `json:"id"`
		Username   string `json:"username"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		Avatar     string `json:"avatar"`
		IsVerified bool   `json:"isVerified"`
		ExpPoints  int64  `json:"expPoints"`
	}

	searchPattern := "%" + query + "%"

	uc.DB.Table("users").
		Select("id, username, first_name, last_name, avatar, is_verified, exp_points").
		Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			searchPattern, searchPattern, searchPattern).
		Order("exp_points DESC").
		Offset(offset).
		Limit(pageSize).
		Scan(&users)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"users":    users,
		"query":    query,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetSuggestedUsers proposes people the caller does not follow yet.
func (uc *UserController) GetSuggestedUsers(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var suggestedUsers []struct {
		ID         uint   `json:"id"`
		Username   string `json:"username"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		Avatar     string `json:"avatar"`
		IsVerified bool   `json:"isVerified"`
		ExpPoints  int64  `json:"expPoints"`
	}

	uc.DB.Table("users").
		Select("id, username, first_name, last_name, avatar, is_verified, exp_points").
		Where(`
			users.id != ? AND
			users.id NOT IN (
				SELECT following_user_id FROM follows
				WHERE follower_user_id = ?
			)
		`, currentUser.UserID, currentUser.UserID).
		Order("exp_points DESC").
		Limit(limit).
		Scan(&suggestedUsers)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"suggestedUsers": suggestedUsers,
	})
}
