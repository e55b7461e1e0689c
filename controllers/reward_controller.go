package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type RewardController struct {
	DB     *gorm.DB
	Grants *services.GrantService
}

func NewRewardController(db *gorm.DB) *RewardController {
	return &RewardController{
		DB:     db,
		Grants: services.NewGrantService(db),
	}
}

// ListRewards returns the active reward catalog. Out-of-stock rewards
// stay listed so clients can show them greyed out.
func (rc *RewardController) ListRewards(c *gin.Context) {
	var rewards []models.Reward
	result := rc.DB.Where("status = ?", models.CatalogStatusActive).
		Order("coin_cost ASC").
		Find(&rewards)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// GetMyRewards lists the caller's redemptions with their voucher codes.
func (rc *RewardController) GetMyRewards(c *gin.Context) {
	user := utils.GetUser(c)

	var redemptions []models.UserReward
	result := rc.DB.Preload("Reward").
		Where("user_id = ?", user.UserID).
		Order("created_at DESC").
		Find(&redemptions)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": redemptions})
}

// RedeemReward godoc
// @Summary Redeem a reward
// @Description Spends coins on a reward, takes a unit of stock and issues a voucher code
// @Tags rewards
// @Produce json
// @Param id path string true "Reward ID"
// @Success 201 {object} models.UserReward
// @Router /rewards/{id}/redeem [post]
func (rc *RewardController) RedeemReward(c *gin.Context) {
	user := utils.GetUser(c)
	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID"})
		return
	}

	issued, err := rc.Grants.RedeemReward(user.UserID, uint(rewardID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "redemption": issued})
}
