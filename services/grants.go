package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

// GrantService hands out one-time engagements: achievements,
// challenge completions and reward redemptions. Every grant is
// idempotent per (user, catalog item); the pair indexes enforce that
// even when the same event is delivered twice at once.
type GrantService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewGrantService(db *gorm.DB) *GrantService {
	return &GrantService{
		DB:     db,
		Ledger: NewLedgerService(db),
	}
}

// GrantAchievement awards an achievement and pays its prizes. The
// ledger entries reference the grant row, so a payout can always be
// traced back to the event that earned it.
func (gs *GrantService) GrantAchievement(userID, achievementID uint) (*models.UserAchievement, error) {
	var grant models.UserAchievement

	err := gs.DB.Transaction(func(tx *gorm.DB) error {
		var achievement models.Achievement
		if err := tx.First(&achievement, achievementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAchievementNotFound
			}
			return wrapTxErr(err)
		}
		if achievement.Status != models.CatalogStatusActive {
			return ErrAchievementInactive
		}

		var count int64
		if err := tx.Model(&models.UserAchievement{}).
			Where("user_id = ? AND achievement_id = ?", userID, achievementID).
			Count(&count).Error; err != nil {
			return wrapTxErr(err)
		}
		if count > 0 {
			return ErrAlreadyGranted
		}

		grant = models.UserAchievement{UserID: userID, AchievementID: achievementID}
		if err := tx.Create(&grant).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyGranted
			}
			return wrapTxErr(err)
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("total_achievement", gorm.Expr("total_achievement + ?", 1))
		if res.Error != nil {
			return wrapTxErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		ref := models.Ref{Type: models.RefAchievement, ID: grant.ID}
		if achievement.CoinPrize > 0 {
			if err := gs.Ledger.AddCoins(tx, userID, achievement.CoinPrize, ref, "achievement: "+achievement.Name); err != nil {
				return err
			}
		}
		if achievement.ExpPrize > 0 {
			if err := gs.Ledger.AddExp(tx, userID, achievement.ExpPrize, ref, "achievement: "+achievement.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// CompleteChallenge marks a challenge done for the user and pays its
// prizes, once. Challenges with a schedule only complete inside it.
func (gs *GrantService) CompleteChallenge(userID, challengeID uint) (*models.UserChallenge, error) {
	now := time.Now()
	var completion models.UserChallenge

	err := gs.DB.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		if err := tx.First(&challenge, challengeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return wrapTxErr(err)
		}
		if challenge.Status != models.CatalogStatusActive {
			return ErrChallengeInactive
		}
		if challenge.StartsAt != nil && now.Before(*challenge.StartsAt) {
			return ErrChallengeClosed
		}
		if challenge.EndsAt != nil && now.After(*challenge.EndsAt) {
			return ErrChallengeClosed
		}

		var count int64
		if err := tx.Model(&models.UserChallenge{}).
			Where("user_id = ? AND challenge_id = ?", userID, challengeID).
			Count(&count).Error; err != nil {
			return wrapTxErr(err)
		}
		if count > 0 {
			return ErrAlreadyGranted
		}

		completion = models.UserChallenge{UserID: userID, ChallengeID: challengeID}
		if err := tx.Create(&completion).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyGranted
			}
			return wrapTxErr(err)
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("total_challenge", gorm.Expr("total_challenge + ?", 1))
		if res.Error != nil {
			return wrapTxErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		ref := models.Ref{Type: models.RefChallenge, ID: completion.ID}
		if challenge.CoinPrize > 0 {
			if err := gs.Ledger.AddCoins(tx, userID, challenge.CoinPrize, ref, "challenge: "+challenge.Name); err != nil {
				return err
			}
		}
		if challenge.ExpPrize > 0 {
			if err := gs.Ledger.AddExp(tx, userID, challenge.ExpPrize, ref, "challenge: "+challenge.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// RedeemReward exchanges coins for a reward: deduct the cost, take one
// unit of stock, issue the redemption row. Any failure rolls the whole
// exchange back, so coins and stock can never get out of step.
func (gs *GrantService) RedeemReward(userID, rewardID uint) (*models.UserReward, error) {
	var issued models.UserReward

	err := gs.DB.Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.First(&reward, rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return wrapTxErr(err)
		}
		if reward.Status != models.CatalogStatusActive {
			return ErrRewardInactive
		}

		var count int64
		if err := tx.Model(&models.UserReward{}).
			Where("user_id = ? AND reward_id = ?", userID, rewardID).
			Count(&count).Error; err != nil {
			return wrapTxErr(err)
		}
		if count > 0 {
			return ErrAlreadyGranted
		}

		if reward.CoinCost > 0 {
			ref := models.Ref{Type: models.RefReward, ID: reward.ID}
			if err := gs.Ledger.SpendCoins(tx, userID, reward.CoinCost, ref, "redeem: "+reward.Name); err != nil {
				return err
			}
		}

		// Limited stock comes off inside the UPDATE's own guard; zero
		// rows affected means someone else took the last unit.
		if reward.Stock != nil {
			res := tx.Model(&models.Reward{}).
				Where("id = ? AND stock > 0", rewardID).
				Update("stock", gorm.Expr("stock - ?", 1))
			if res.Error != nil {
				return wrapTxErr(res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrOutOfStock
			}
		}

		issued = models.UserReward{
			UserID:         userID,
			RewardID:       rewardID,
			RedemptionCode: newRedemptionCode(),
			CoinsSpent:     reward.CoinCost,
			Status:         models.UserRewardStatusIssued,
		}
		if err := tx.Create(&issued).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyGranted
			}
			return wrapTxErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &issued, nil
}

// newRedemptionCode returns a short random voucher code. The unique
// column constraint is the final word on collisions.
func newRedemptionCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RWD-" + strings.ToUpper(raw[:12])
}
