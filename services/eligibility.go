package services

import (
	"errors"
	"time"

	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

// EligibilityService answers whether a user may still earn from a place
// in the current calendar month. The checks are advisory under
// concurrency; the unique (user, place, period) indexes on checkins and
// reviews are the hard backstop.
type EligibilityService struct {
	DB *gorm.DB
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	return &EligibilityService{DB: db}
}

// MonthWindow returns the half-open [start, end) window covering the
// calendar month of t, in t's location. The boundary is the month edge
// itself, not a rolling 30 days.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// MonthKey formats t's calendar month as "2006-01", the period key
// stored on checkin and review rows.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ActivePlace loads a place and verifies it is accepting activity.
func (es *EligibilityService) ActivePlace(tx *gorm.DB, placeID uint) (*models.Place, error) {
	var place models.Place
	if err := tx.First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, wrapTxErr(err)
	}
	if place.Status != models.PlaceStatusActive {
		return nil, ErrPlaceInactive
	}
	return &place, nil
}

// EnsureCheckinEligible fails with ErrAlreadyCheckedIn when the user
// already has a checkin at the place inside the month of asOf.
func (es *EligibilityService) EnsureCheckinEligible(tx *gorm.DB, userID, placeID uint, asOf time.Time) error {
	count, err := rowsInWindow(tx, &models.Checkin{}, userID, placeID, asOf)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyCheckedIn
	}
	return nil
}

// EnsureReviewEligible fails with ErrAlreadyReviewed when the user
// already reviewed the place inside the month of asOf. Soft-deleted
// reviews still count: their payout was kept, so the month stays
// consumed.
func (es *EligibilityService) EnsureReviewEligible(tx *gorm.DB, userID, placeID uint, asOf time.Time) error {
	count, err := rowsInWindow(tx, &models.Review{}, userID, placeID, asOf)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyReviewed
	}
	return nil
}

func rowsInWindow(tx *gorm.DB, model interface{}, userID, placeID uint, asOf time.Time) (int64, error) {
	start, end := MonthWindow(asOf)
	var count int64
	err := tx.Model(model).
		Where("user_id = ? AND place_id = ? AND created_at >= ? AND created_at < ?", userID, placeID, start, end).
		Count(&count).Error
	if err != nil {
		return 0, wrapTxErr(err)
	}
	return count, nil
}
