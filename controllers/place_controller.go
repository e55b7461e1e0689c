package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/models"
	"github.com/trail-point/api-go/services"
	"github.com/trail-point/api-go/utils"
	"gorm.io/gorm"
)

type PlaceController struct {
	DB          *gorm.DB
	Eligibility *services.EligibilityService
}

func NewPlaceController(db *gorm.DB) *PlaceController {
	return &PlaceController{
		DB:          db,
		Eligibility: services.NewEligibilityService(db),
	}
}

type ListPlacesQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// ListPlaces godoc
// @Summary List places
// @Description Returns a paginated list of active places, optionally filtered by category or name
// @Tags places
// @Accept json
// @Produce json
// @Param category query string false "Filter by category"
// @Param search query string false "Filter by name"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} map[string]interface{}
// @Router /places [get]
func (pc *PlaceController) ListPlaces(c *gin.Context) {
	var query ListPlacesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := pc.DB.Model(&models.Place{}).Where("status = ?", models.PlaceStatusActive)

	if query.Category != "" {
		db = db.Where("? = ANY(categories)", query.Category)
	}
	if query.Search != "" {
		db = db.Where("name ILIKE ?", "%"+query.Search+"%")
	}

	var total int64
	db.Count(&total)

	offset := (query.Page - 1) * query.PageSize

	var places []models.Place
	result := db.
		Order("total_checkin DESC, id ASC").
		Offset(offset).
		Limit(query.PageSize).
		Find(&places)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching places"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"places": places,
		"pagination": gin.H{
			"currentPage": query.Page,
			"pageSize":    query.PageSize,
			"totalItems":  total,
			"totalPages":  math.Ceil(float64(total) / float64(query.PageSize)),
		},
	})
}

// GetPlaceDetails godoc
// @Summary Get detailed information about a place
// @Description Returns place info, activity stats, top visitors, and what the caller can still earn there this month
// @Tags places
// @Accept json
// @Produce json
// @Param placeId path string true "Place ID"
// @Success 200 {object} map[string]interface{}
// @Router /places/{placeId} [get]
func (pc *PlaceController) GetPlaceDetails(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id := c.Param("placeId")

	var place models.Place
	if err := pc.DB.First(&place, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}

	var stats struct {
		TotalCheckins   int64     `json:"totalCheckins"`
		TotalReviews    int64     `json:"totalReviews"`
		UniqueVisitors  int64     `json:"uniqueVisitors"`
		LastCheckinTime time.Time `json:"lastCheckinTime"`
	}
	pc.DB.Model(&models.Checkin{}).Where("place_id = ?", place.ID).Count(&stats.TotalCheckins)
	pc.DB.Model(&models.Review{}).Where("place_id = ? AND status = ?", place.ID, models.ReviewStatusActive).Count(&stats.TotalReviews)
	pc.DB.Model(&models.Checkin{}).Where("place_id = ?", place.ID).Distinct("user_id").Count(&stats.UniqueVisitors)
	pc.DB.Model(&models.Checkin{}).Where("place_id = ?", place.ID).Select("COALESCE(MAX(created_at), ?)", time.Time{}).Scan(&stats.LastCheckinTime)

	var topVisitors []struct {
		UserID       uint      `json:"userId"`
		Username     string    `json:"username"`
		FirstName    string    `json:"firstName"`
		LastName     string    `json:"lastName"`
		Avatar       string    `json:"avatar"`
		CheckinCount int64     `json:"checkinCount"`
		CoinsEarned  int64     `json:"coinsEarned"`
		LastVisitAt  time.Time `json:"lastVisitAt"`
	}
	pc.DB.Table("checkins").
		Select(`
			users.id as user_id,
			users.username,
			users.first_name,
			users.last_name,
			users.avatar,
			COUNT(checkins.id) as checkin_count,
			COALESCE(SUM(checkins.coins_earned), 0) as coins_earned,
			MAX(checkins.created_at) as last_visit_at
		`).
		Joins("JOIN users ON users.id = checkins.user_id").
		Where("checkins.place_id = ?", place.ID).
		Group("users.id, users.username, users.first_name, users.last_name, users.avatar").
		Order("checkin_count DESC, last_visit_at DESC").
		Limit(5).
		Find(&topVisitors)

	// What the caller can still earn here this month. Advisory only; the
	// write paths re-check inside their transactions.
	now := time.Now()
	canCheckin := place.Status == models.PlaceStatusActive &&
		pc.Eligibility.EnsureCheckinEligible(pc.DB, user.UserID, place.ID, now) == nil
	canReview := place.Status == models.PlaceStatusActive &&
		pc.Eligibility.EnsureReviewEligible(pc.DB, user.UserID, place.ID, now) == nil

	c.JSON(http.StatusOK, gin.H{
		"place": place,
		"stats": stats,
		"viewer": gin.H{
			"canCheckin": canCheckin,
			"canReview":  canReview,
		},
		"topVisitors": topVisitors,
	})
}
