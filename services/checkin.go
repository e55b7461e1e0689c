package services

import (
	"math"
	"time"

	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

// CheckinService runs the check-in flow: eligibility, proximity, the
// checkin row, both payouts and the counters commit or roll back as one
// unit.
type CheckinService struct {
	DB          *gorm.DB
	Ledger      *LedgerService
	Eligibility *EligibilityService
}

func NewCheckinService(db *gorm.DB) *CheckinService {
	return &CheckinService{
		DB:          db,
		Ledger:      NewLedgerService(db),
		Eligibility: NewEligibilityService(db),
	}
}

// CheckinResult is what a successful check-in hands back to the caller:
// the stored row plus the rewards that were just paid out.
type CheckinResult struct {
	Checkin     models.Checkin `json:"checkin"`
	CoinsEarned int64          `json:"coinsEarned"`
	ExpEarned   int64          `json:"expEarned"`
}

// CreateCheckin records a visit and pays out the place's configured
// rewards. Fails without side effects when the place is inactive, the
// user is too far away, or the user already checked in here this
// calendar month.
func (cs *CheckinService) CreateCheckin(userID, placeID uint, lat, lng float64, proofImageURL string) (*CheckinResult, error) {
	now := time.Now()
	var result CheckinResult

	err := cs.DB.Transaction(func(tx *gorm.DB) error {
		place, err := cs.Eligibility.ActivePlace(tx, placeID)
		if err != nil {
			return err
		}

		distance := haversineMeters(lat, lng, place.Latitude, place.Longitude)
		if distance > place.CheckinRadius {
			return &TooFarFromPlaceError{DistanceMeters: distance, AllowedMeters: place.CheckinRadius}
		}

		if err := cs.Eligibility.EnsureCheckinEligible(tx, userID, placeID, now); err != nil {
			return err
		}

		checkin := models.Checkin{
			UserID:        userID,
			PlaceID:       placeID,
			Latitude:      lat,
			Longitude:     lng,
			ProofImageURL: proofImageURL,
			CoinsEarned:   place.CoinReward,
			ExpEarned:     place.ExpReward,
			PeriodKey:     MonthKey(now),
			Status:        models.CheckinStatusActive,
		}
		if err := tx.Create(&checkin).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyCheckedIn
			}
			return wrapTxErr(err)
		}

		ref := models.Ref{Type: models.RefCheckin, ID: checkin.ID}
		if place.CoinReward > 0 {
			if err := cs.Ledger.AddCoins(tx, userID, place.CoinReward, ref, "check-in: "+place.Name); err != nil {
				return err
			}
		}
		if place.ExpReward > 0 {
			if err := cs.Ledger.AddExp(tx, userID, place.ExpReward, ref, "check-in: "+place.Name); err != nil {
				return err
			}
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("total_checkin", gorm.Expr("total_checkin + ?", 1))
		if res.Error != nil {
			return wrapTxErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if err := tx.Model(&models.Place{}).Where("id = ?", placeID).
			Update("total_checkin", gorm.Expr("total_checkin + ?", 1)).Error; err != nil {
			return wrapTxErr(err)
		}

		result = CheckinResult{Checkin: checkin, CoinsEarned: place.CoinReward, ExpEarned: place.ExpReward}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// haversineMeters computes the great-circle distance between two
// coordinates.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371e3 // meters

	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	Δφ := (lat2 - lat1) * math.Pi / 180
	Δλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*
			math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
