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

type AchievementController struct {
	DB     *gorm.DB
	Grants *services.GrantService
}

func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{
		DB:     db,
		Grants: services.NewGrantService(db),
	}
}

// ListAchievements returns the active catalog with an earned flag for
// the caller.
func (ac *AchievementController) ListAchievements(c *gin.Context) {
	user := utils.GetUser(c)

	var achievements []struct {
		models.Achievement
		Earned bool `json:"earned"`
	}

	result := ac.DB.Model(&models.Achievement{}).
		Select(`
			achievements.*,
			(SELECT COUNT(*) FROM user_achievements
				WHERE user_achievements.achievement_id = achievements.id
				AND user_achievements.user_id = ?) > 0 as earned
		`, user.UserID).
		Where("achievements.status = ?", models.CatalogStatusActive).
		Order("achievements.id ASC").
		Find(&achievements)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// GetMyAchievements lists the achievements the caller has earned.
func (ac *AchievementController) GetMyAchievements(c *gin.Context) {
	user := utils.GetUser(c)

	var grants []models.UserAchievement
	result := ac.DB.Preload("Achievement").
		Where("user_id = ?", user.UserID).
		Order("created_at DESC").
		Find(&grants)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": grants})
}

type GrantAchievementRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// GrantAchievement godoc
// @Summary Grant an achievement to a user
// @Description Awards the achievement and pays its prizes exactly once per user
// @Tags achievements
// @Accept json
// @Produce json
// @Param achievementId path string true "Achievement ID"
// @Param grant body GrantAchievementRequest true "Grant target"
// @Success 201 {object} models.UserAchievement
// @Router /admin/achievements/{achievementId}/grant [post]
func (ac *AchievementController) GrantAchievement(c *gin.Context) {
	achievementID, err := strconv.ParseUint(c.Param("achievementId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid achievement ID"})
		return
	}

	var req GrantAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := ac.Grants.GrantAchievement(req.UserID, uint(achievementID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "grant": grant})
}
