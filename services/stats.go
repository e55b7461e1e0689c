package services

import (
	"github.com/shopspring/decimal"
	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

// PlaceStatsService recomputes place aggregates from the full active
// review set. Always recompute rather than adjust incrementally:
// incremental float arithmetic drifts, a fresh mean cannot.
type PlaceStatsService struct {
	DB *gorm.DB
}

func NewPlaceStatsService(db *gorm.DB) *PlaceStatsService {
	return &PlaceStatsService{DB: db}
}

// RecalculatePlaceRating rewrites avg_rating and total_review for a
// place from its active reviews. The mean is computed exactly and
// rounded half-up to two decimals; an empty set resets the rating to
// zero.
func (ps *PlaceStatsService) RecalculatePlaceRating(tx *gorm.DB, placeID uint) error {
	var ratings []int64
	err := tx.Model(&models.Review{}).
		Where("place_id = ? AND status = ?", placeID, models.ReviewStatusActive).
		Pluck("rating", &ratings).Error
	if err != nil {
		return wrapTxErr(err)
	}

	avg := 0.0
	if len(ratings) > 0 {
		sum := decimal.Zero
		for _, r := range ratings {
			sum = sum.Add(decimal.NewFromInt(r))
		}
		avg, _ = sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(2).Float64()
	}

	res := tx.Model(&models.Place{}).Where("id = ?", placeID).Updates(map[string]interface{}{
		"avg_rating":   avg,
		"total_review": len(ratings),
	})
	if res.Error != nil {
		return wrapTxErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPlaceNotFound
	}
	return nil
}
