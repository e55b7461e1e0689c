package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type ChallengeController struct {
	DB     *gorm.DB
	Grants *services.GrantService
}

func NewChallengeController(db *gorm.DB) *ChallengeController {
	return &ChallengeController{
		DB:     db,
		Grants: services.NewGrantService(db),
	}
}

// ListChallenges returns active challenges that are inside their
// schedule window, with a completed flag for the caller.
func (cc *ChallengeController) ListChallenges(c *gin.Context) {
	user := utils.GetUser(c)
	now := time.Now()

	var challenges []struct {
		models.Challenge
		Completed bool `json:"completed"`
	}

	result := cc.DB.Model(&models.Challenge{}).
		Select(`
			challenges.*,
			(SELECT COUNT(*) FROM user_challenges
				WHERE user_challenges.challenge_id = challenges.id
				AND user_challenges.user_id = ?) > 0 as completed
		`, user.UserID).
		Where("challenges.status = ?", models.CatalogStatusActive).
		Where("challenges.starts_at IS NULL OR challenges.starts_at <= ?", now).
		Where("challenges.ends_at IS NULL OR challenges.ends_at >= ?", now).
		Order("challenges.id ASC").
		Find(&challenges)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// GetMyChallenges lists the caller's completed challenges.
func (cc *ChallengeController) GetMyChallenges(c *gin.Context) {
	user := utils.GetUser(c)

	var completions []models.UserChallenge
	result := cc.DB.Preload("Challenge").
		Where("user_id = ?", user.UserID).
		Order("created_at DESC").
		Find(&completions)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": completions})
}

// CompleteChallenge godoc
// @Summary Complete a challenge
// @Description Marks the challenge done for the caller and pays its prizes exactly once
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 201 {object} models.UserChallenge
// @Router /challenges/{id}/complete [post]
func (cc *ChallengeController) CompleteChallenge(c *gin.Context) {
	user := utils.GetUser(c)
	challengeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	completion, err := cc.Grants.CompleteChallenge(user.UserID, uint(challengeID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "completion": completion})
}
