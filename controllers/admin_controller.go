package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/types"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

// AdminController covers place and catalog management plus the manual
// ledger operations. Every route mounting it sits behind the admin role
// middleware.
type AdminController struct {
	DB     *gorm.DB
	Ledger *services.LedgerService
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		DB:     db,
		Ledger: services.NewLedgerService(db),
	}
}

type CreatePlaceRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	Address       string   `json:"address"`
	Latitude      float64  `json:"latitude" binding:"required"`
	Longitude     float64  `json:"longitude" binding:"required"`
	CoinReward    *int64   `json:"coinReward"`
	ExpReward     *int64   `json:"expReward"`
	CheckinRadius float64  `json:"checkinRadius"`
	PlaceImage    string   `json:"placeImage"`
	Features      []string `json:"features"`
	IsVerified    bool     `json:"isVerified"`
}

func (ac *AdminController) CreatePlace(c *gin.Context) {
	var req CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	suggestedCoins, suggestedExp := types.SuggestedPlaceRewards(req.Categories)

	coinReward := suggestedCoins
	if req.CoinReward != nil {
		coinReward = *req.CoinReward
	}
	expReward := suggestedExp
	if req.ExpReward != nil {
		expReward = *req.ExpReward
	}
	if coinReward < 0 || expReward < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rewards cannot be negative", "success": false})
		return
	}

	checkinRadius := req.CheckinRadius
	if checkinRadius <= 0 {
		checkinRadius = 100
	}

	place := models.Place{
		Name:          req.Name,
		Description:   req.Description,
		Categories:    pq.StringArray(req.Categories),
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		CoinReward:    coinReward,
		ExpReward:     expReward,
		CheckinRadius: checkinRadius,
		PlaceImage:    req.PlaceImage,
		Features:      pq.StringArray(req.Features),
		IsVerified:    req.IsVerified,
		Status:        models.PlaceStatusActive,
	}

	if err := ac.DB.Create(&place).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create place", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "place": place})
}

type UpdatePlaceRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Categories    *[]string `json:"categories"`
	Address       *string   `json:"address"`
	CoinReward    *int64    `json:"coinReward"`
	ExpReward     *int64    `json:"expReward"`
	CheckinRadius *float64  `json:"checkinRadius"`
	PlaceImage    *string   `json:"placeImage"`
	Features      *[]string `json:"features"`
	IsVerified    *bool     `json:"isVerified"`
}

func (ac *AdminController) UpdatePlace(c *gin.Context) {
	id := c.Param("placeId")

	var place models.Place
	if err := ac.DB.First(&place, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found", "success": false})
		return
	}

	var req UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Categories != nil {
		updates["categories"] = pq.StringArray(*req.Categories)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.CoinReward != nil {
		if *req.CoinReward < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rewards cannot be negative", "success": false})
			return
		}
		updates["coin_reward"] = *req.CoinReward
	}
	if req.ExpReward != nil {
		if *req.ExpReward < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rewards cannot be negative", "success": false})
			return
		}
		updates["exp_reward"] = *req.ExpReward
	}
	if req.CheckinRadius != nil && *req.CheckinRadius > 0 {
		updates["checkin_radius"] = *req.CheckinRadius
	}
	if req.PlaceImage != nil {
		updates["place_image"] = *req.PlaceImage
	}
	if req.Features != nil {
		updates["features"] = pq.StringArray(*req.Features)
	}
	if req.IsVerified != nil {
		updates["is_verified"] = *req.IsVerified
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&place).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update place", "success": false})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "place": place})
}

// SetPlaceStatus deactivates or reactivates a place. Existing checkins
// and reviews are untouched; only new activity is blocked.
func (ac *AdminController) SetPlaceStatus(c *gin.Context) {
	id := c.Param("placeId")

	var req struct {
		Status string `json:"status" binding:"required,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	result := ac.DB.Model(&models.Place{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update place status", "success": false})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

type CreateAchievementRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	CoinPrize   int64  `json:"coinPrize" binding:"min=0"`
	ExpPrize    int64  `json:"expPrize" binding:"min=0"`
}

func (ac *AdminController) CreateAchievement(c *gin.Context) {
	var req CreateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	achievement := models.Achievement{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		CoinPrize:   req.CoinPrize,
		ExpPrize:    req.ExpPrize,
		Status:      models.CatalogStatusActive,
	}

	if err := ac.DB.Create(&achievement).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Achievement name already exists", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "achievement": achievement})
}

type UpdateAchievementRequest struct {
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	CoinPrize   *int64  `json:"coinPrize"`
	ExpPrize    *int64  `json:"expPrize"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (ac *AdminController) UpdateAchievement(c *gin.Context) {
	id := c.Param("achievementId")

	var achievement models.Achievement
	if err := ac.DB.First(&achievement, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Achievement not found", "success": false})
		return
	}

	var req UpdateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.CoinPrize != nil && *req.CoinPrize >= 0 {
		updates["coin_prize"] = *req.CoinPrize
	}
	if req.ExpPrize != nil && *req.ExpPrize >= 0 {
		updates["exp_prize"] = *req.ExpPrize
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&achievement).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update achievement", "success": false})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "achievement": achievement})
}

type CreateChallengeRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	CoinPrize   int64      `json:"coinPrize" binding:"min=0"`
	ExpPrize    int64      `json:"expPrize" binding:"min=0"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

func (ac *AdminController) CreateChallenge(c *gin.Context) {
	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endsAt must be after startsAt", "success": false})
		return
	}

	challenge := models.Challenge{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		CoinPrize:   req.CoinPrize,
		ExpPrize:    req.ExpPrize,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      models.CatalogStatusActive,
	}

	if err := ac.DB.Create(&challenge).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge name already exists", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "challenge": challenge})
}

type UpdateChallengeRequest struct {
	Description *string    `json:"description"`
	Icon        *string    `json:"icon"`
	CoinPrize   *int64     `json:"coinPrize"`
	ExpPrize    *int64     `json:"expPrize"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Status      *string    `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (ac *AdminController) UpdateChallenge(c *gin.Context) {
	id := c.Param("challengeId")

	var challenge models.Challenge
	if err := ac.DB.First(&challenge, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found", "success": false})
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.CoinPrize != nil && *req.CoinPrize >= 0 {
		updates["coin_prize"] = *req.CoinPrize
	}
	if req.ExpPrize != nil && *req.ExpPrize >= 0 {
		updates["exp_prize"] = *req.ExpPrize
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&challenge).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge", "success": false})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "challenge": challenge})
}

type CreateRewardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	CoinCost    int64  `json:"coinCost" binding:"required,min=1"`
	Stock       *int64 `json:"stock"`
}

func (ac *AdminController) CreateReward(c *gin.Context) {
	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if req.Stock != nil && *req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative", "success": false})
		return
	}

	reward := models.Reward{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		CoinCost:    req.CoinCost,
		Stock:       req.Stock,
		Status:      models.CatalogStatusActive,
	}

	if err := ac.DB.Create(&reward).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reward name already exists", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "reward": reward})
}

type UpdateRewardRequest struct {
	Description *string `json:"description"`
	Image       *string `json:"image"`
	CoinCost    *int64  `json:"coinCost"`
	Stock       *int64  `json:"stock"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (ac *AdminController) UpdateReward(c *gin.Context) {
	id := c.Param("rewardId")

	var reward models.Reward
	if err := ac.DB.First(&reward, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found", "success": false})
		return
	}

	var req UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.CoinCost != nil && *req.CoinCost > 0 {
		updates["coin_cost"] = *req.CoinCost
	}
	if req.Stock != nil && *req.Stock >= 0 {
		updates["stock"] = *req.Stock
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&reward).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reward", "success": false})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reward": reward})
}

type AdjustBalanceRequest struct {
	UserID   uint   `json:"userId" binding:"required"`
	Currency string `json:"currency" binding:"required,oneof=coin exp"`
	Amount   int64  `json:"amount" binding:"required"`
	Note     string `json:"note"`
}

// AdjustUserBalance applies a signed manual correction to a user's coin
// or experience balance, recorded in the ledger against the acting
// admin.
func (ac *AdminController) AdjustUserBalance(c *gin.Context) {
	admin := utils.GetUser(c)
	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := ac.Ledger.AdjustBalance(req.UserID, req.Currency, req.Amount, admin.UserID, req.Note); err != nil {
		respondServiceError(c, err)
		return
	}

	var user models.User
	if err := ac.DB.Select("id", "coin_balance", "exp_points").First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload user", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"userId":      user.ID,
		"coinBalance": user.CoinBalance,
		"expPoints":   user.ExpPoints,
	})
}

// GetLedgerAudit recomputes a user's balances from the raw ledger
// entries and reports whether the cached columns agree.
func (ac *AdminController) GetLedgerAudit(c *gin.Context) {
	id := c.Param("userId")

	var user models.User
	if err := ac.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	coinsFromLedger, err := ac.Ledger.CoinBalanceFromLedger(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	expFromLedger, err := ac.Ledger.ExpFromLedger(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  user.ID,
		"coins": gin.H{
			"cached":     user.CoinBalance,
			"fromLedger": coinsFromLedger,
			"consistent": user.CoinBalance == coinsFromLedger,
		},
		"exp": gin.H{
			"cached":     user.ExpPoints,
			"fromLedger": expFromLedger,
			"consistent": user.ExpPoints == expFromLedger,
		},
	})
}
