package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors for every business rule the core can reject on.
// Controllers map these to HTTP statuses with the Is* helpers below;
// anything not wrapping one of them is an infrastructure failure.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrPlaceNotFound       = errors.New("place not found")
	ErrCheckinNotFound     = errors.New("checkin not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrTargetNotFound      = errors.New("target not found")

	ErrPlaceInactive       = errors.New("place is not active")
	ErrRewardInactive      = errors.New("reward is not active")
	ErrAchievementInactive = errors.New("achievement is not active")
	ErrChallengeInactive   = errors.New("challenge is not active")
	ErrChallengeClosed     = errors.New("challenge is not open")

	ErrAlreadyCheckedIn = errors.New("already checked in at this place this month")
	ErrAlreadyReviewed  = errors.New("already reviewed this place this month")
	ErrAlreadyGranted   = errors.New("already granted")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrSelfFollow       = errors.New("cannot follow yourself")

	ErrInsufficientCoins = errors.New("insufficient coin balance")
	ErrInsufficientExp   = errors.New("insufficient experience points")
	ErrOutOfStock        = errors.New("reward is out of stock")

	ErrNotOwner        = errors.New("not the owner of this resource")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("unknown currency")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidTarget   = errors.New("unknown target type")

	ErrTransactionFailed = errors.New("transaction failed")
)

// InsufficientBalanceError reports how far short the user fell. Unwraps
// to ErrInsufficientCoins or ErrInsufficientExp depending on currency.
type InsufficientBalanceError struct {
	UserID    uint
	Currency  string
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: have %d, need %d", e.Currency, e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	if e.Currency == CurrencyExp {
		return ErrInsufficientExp
	}
	return ErrInsufficientCoins
}

// TooFarFromPlaceError rejects a check-in attempted outside the place's
// configured radius.
type TooFarFromPlaceError struct {
	DistanceMeters float64
	AllowedMeters  float64
}

func (e *TooFarFromPlaceError) Error() string {
	return fmt.Sprintf("too far from place: %.0fm away, must be within %.0fm", e.DistanceMeters, e.AllowedMeters)
}

// IsNotFound reports whether err should surface as a 404.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrPlaceNotFound, ErrCheckinNotFound, ErrReviewNotFound,
		ErrAchievementNotFound, ErrChallengeNotFound, ErrRewardNotFound, ErrTargetNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsDenied reports whether err is an ownership violation (403).
func IsDenied(err error) bool {
	return errors.Is(err, ErrNotOwner)
}

// IsRejected reports whether err is a business-rule rejection (400):
// period limits, duplicate grants, insufficient balances, stock,
// inactive targets and input validation.
func IsRejected(err error) bool {
	if IsNotFound(err) || IsDenied(err) || errors.Is(err, ErrTransactionFailed) {
		return false
	}
	for _, target := range []error{
		ErrPlaceInactive, ErrRewardInactive, ErrAchievementInactive, ErrChallengeInactive, ErrChallengeClosed,
		ErrAlreadyCheckedIn, ErrAlreadyReviewed, ErrAlreadyGranted,
		ErrAlreadyFollowing, ErrNotFollowing, ErrSelfFollow,
		ErrInsufficientCoins, ErrInsufficientExp, ErrOutOfStock,
		ErrInvalidAmount, ErrInvalidCurrency, ErrInvalidRating, ErrInvalidTarget,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	var tooFar *TooFarFromPlaceError
	return errors.As(err, &tooFar)
}

// wrapTxErr tags an unexpected database error so callers can tell it
// apart from rule rejections. The original error stays in the message
// for the logs.
func wrapTxErr(err error) error {
	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}

// isDuplicateKey detects unique-constraint violations across drivers.
// The dialectors translate to gorm.ErrDuplicatedKey when the connection
// has TranslateError set; the substring checks cover raw driver errors.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
