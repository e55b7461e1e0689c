package services

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

// ReviewService runs the review lifecycle. Creation pays out once;
// edits and soft-deletes never touch the ledger again, only the place
// aggregates.
type ReviewService struct {
	DB          *gorm.DB
	Ledger      *LedgerService
	Eligibility *EligibilityService
	Stats       *PlaceStatsService
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		DB:          db,
		Ledger:      NewLedgerService(db),
		Eligibility: NewEligibilityService(db),
		Stats:       NewPlaceStatsService(db),
	}
}

// CreateReview stores a review, recomputes the place aggregates and
// pays out the place's configured rewards, all atomically. One review
// per user per place per calendar month.
func (rs *ReviewService) CreateReview(userID, placeID uint, rating int, content string, imageURLs []string) (*models.Review, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, ErrInvalidRating
	}
	now := time.Now()
	var review models.Review

	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		place, err := rs.Eligibility.ActivePlace(tx, placeID)
		if err != nil {
			return err
		}
		if err := rs.Eligibility.EnsureReviewEligible(tx, userID, placeID, now); err != nil {
			return err
		}

		review = models.Review{
			UserID:      userID,
			PlaceID:     placeID,
			Rating:      rating,
			Content:     content,
			ImageURLs:   pq.StringArray(imageURLs),
			CoinsEarned: place.CoinReward,
			ExpEarned:   place.ExpReward,
			PeriodKey:   MonthKey(now),
			Status:      models.ReviewStatusActive,
		}
		if err := tx.Create(&review).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyReviewed
			}
			return wrapTxErr(err)
		}

		if err := rs.Stats.RecalculatePlaceRating(tx, placeID); err != nil {
			return err
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("total_review", gorm.Expr("total_review + ?", 1))
		if res.Error != nil {
			return wrapTxErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		ref := models.Ref{Type: models.RefReview, ID: review.ID}
		if place.CoinReward > 0 {
			if err := rs.Ledger.AddCoins(tx, userID, place.CoinReward, ref, "review: "+place.Name); err != nil {
				return err
			}
		}
		if place.ExpReward > 0 {
			if err := rs.Ledger.AddExp(tx, userID, place.ExpReward, ref, "review: "+place.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewUpdate carries the editable fields; nil means leave unchanged.
type ReviewUpdate struct {
	Rating    *int
	Content   *string
	ImageURLs []string
}

// UpdateReview edits the caller's own active review. A rating change
// triggers a fresh aggregate recomputation; rewards are never paid
// again.
func (rs *ReviewService) UpdateReview(userID, reviewID uint, update ReviewUpdate) (*models.Review, error) {
	if update.Rating != nil && (*update.Rating < models.MinRating || *update.Rating > models.MaxRating) {
		return nil, ErrInvalidRating
	}
	var review models.Review

	err := rs.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadActiveReview(tx, reviewID, &review); err != nil {
			return err
		}
		if review.UserID != userID {
			return ErrNotOwner
		}

		changes := map[string]interface{}{}
		ratingChanged := false
		if update.Rating != nil && *update.Rating != review.Rating {
			changes["rating"] = *update.Rating
			ratingChanged = true
		}
		if update.Content != nil {
			changes["content"] = *update.Content
		}
		if update.ImageURLs != nil {
			changes["image_urls"] = pq.StringArray(update.ImageURLs)
		}
		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&review).Updates(changes).Error; err != nil {
			return wrapTxErr(err)
		}
		if ratingChanged {
			if err := rs.Stats.RecalculatePlaceRating(tx, review.PlaceID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview soft-deletes the caller's own review and recomputes the
// place aggregates without it. The original payout is kept, and the
// review's calendar month stays consumed.
func (rs *ReviewService) DeleteReview(userID, reviewID uint) error {
	return rs.DB.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := loadActiveReview(tx, reviewID, &review); err != nil {
			return err
		}
		if review.UserID != userID {
			return ErrNotOwner
		}

		if err := tx.Model(&review).Update("status", models.ReviewStatusDeleted).Error; err != nil {
			return wrapTxErr(err)
		}
		if err := rs.Stats.RecalculatePlaceRating(tx, review.PlaceID); err != nil {
			return err
		}

		// total_review on the user tracks active reviews; the floor
		// guard keeps a double delete from going negative.
		if err := tx.Model(&models.User{}).
			Where("id = ? AND total_review > 0", userID).
			Update("total_review", gorm.Expr("total_review - ?", 1)).Error; err != nil {
			return wrapTxErr(err)
		}
		return nil
	})
}

func loadActiveReview(tx *gorm.DB, reviewID uint, review *models.Review) error {
	err := tx.Where("id = ? AND status = ?", reviewID, models.ReviewStatusActive).First(review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return wrapTxErr(err)
	}
	return nil
}
