package services

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

func createTestAchievement(t *testing.T, db *gorm.DB, name string, coinPrize, expPrize int64) *models.Achievement {
	t.Helper()
	achievement := &models.Achievement{
		Name:      name,
		CoinPrize: coinPrize,
		ExpPrize:  expPrize,
		Status:    models.CatalogStatusActive,
	}
	require.NoError(t, db.Create(achievement).Error)
	return achievement
}

func createTestChallenge(t *testing.T, db *gorm.DB, name string, coinPrize, expPrize int64) *models.Challenge {
	t.Helper()
	challenge := &models.Challenge{
		Name:      name,
		CoinPrize: coinPrize,
		ExpPrize:  expPrize,
		Status:    models.CatalogStatusActive,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func createTestReward(t *testing.T, db *gorm.DB, name string, cost int64, stock *int64) *models.Reward {
	t.Helper()
	reward := &models.Reward{
		Name:     name,
		CoinCost: cost,
		Stock:    stock,
		Status:   models.CatalogStatusActive,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward
}

func int64Ptr(n int64) *int64 { return &n }

func TestGrantAchievementPaysPrizesOnce(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	achievement := createTestAchievement(t, db, "Explorer", 50, 100)

	grant, err := gs.GrantAchievement(user.ID, achievement.ID)
	require.NoError(t, err)

	reloaded := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(50), reloaded.CoinBalance)
	assert.Equal(t, int64(100), reloaded.ExpPoints)
	assert.Equal(t, int64(1), reloaded.TotalAchievement)

	// The payout references the grant row, not the catalog entry.
	var entry models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, models.RefAchievement, entry.RefType)
	assert.Equal(t, grant.ID, entry.RefID)

	_, err = gs.GrantAchievement(user.ID, achievement.ID)
	require.ErrorIs(t, err, ErrAlreadyGranted)

	reloaded = reloadUser(t, db, user.ID)
	assert.Equal(t, int64(50), reloaded.CoinBalance)
	assert.Equal(t, int64(1), reloaded.TotalAchievement)
	assert.Equal(t, int64(1), countRows(t, db, &models.UserAchievement{}, "user_id = ?", user.ID))
}

func TestGrantAchievementConcurrentlyYieldsOneRow(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	achievement := createTestAchievement(t, db, "Explorer", 50, 100)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = gs.GrantAchievement(user.ID, achievement.ID)
		}(i)
	}
	wg.Wait()

	granted, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			granted++
		case errors.Is(err, ErrAlreadyGranted):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, granted)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(1), countRows(t, db, &models.UserAchievement{}, "user_id = ?", user.ID))
	assert.Equal(t, int64(50), reloadUser(t, db, user.ID).CoinBalance)
}

func TestGrantAchievementCatalogRules(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")

	_, err := gs.GrantAchievement(user.ID, 9999)
	assert.ErrorIs(t, err, ErrAchievementNotFound)

	retired := createTestAchievement(t, db, "Retired", 10, 10)
	require.NoError(t, db.Model(retired).Update("status", models.CatalogStatusInactive).Error)
	_, err = gs.GrantAchievement(user.ID, retired.ID)
	assert.ErrorIs(t, err, ErrAchievementInactive)
}

func TestGrantToUnknownUserRollsBack(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	achievement := createTestAchievement(t, db, "Explorer", 50, 100)

	_, err := gs.GrantAchievement(9999, achievement.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, int64(0), countRows(t, db, &models.UserAchievement{}, "achievement_id = ?", achievement.ID))
}

func TestCompleteChallengePaysOnce(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	challenge := createTestChallenge(t, db, "March Wanderer", 30, 60)

	completion, err := gs.CompleteChallenge(user.ID, challenge.ID)
	require.NoError(t, err)

	reloaded := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(30), reloaded.CoinBalance)
	assert.Equal(t, int64(60), reloaded.ExpPoints)
	assert.Equal(t, int64(1), reloaded.TotalChallenge)

	var entry models.ExpTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, models.RefChallenge, entry.RefType)
	assert.Equal(t, completion.ID, entry.RefID)

	_, err = gs.CompleteChallenge(user.ID, challenge.ID)
	assert.ErrorIs(t, err, ErrAlreadyGranted)
	assert.Equal(t, int64(30), reloadUser(t, db, user.ID).CoinBalance)
}

func TestCompleteChallengeRespectsSchedule(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")

	future := time.Now().Add(24 * time.Hour)
	upcoming := createTestChallenge(t, db, "Next Week", 10, 10)
	require.NoError(t, db.Model(upcoming).Update("starts_at", future).Error)
	_, err := gs.CompleteChallenge(user.ID, upcoming.ID)
	assert.ErrorIs(t, err, ErrChallengeClosed)

	past := time.Now().Add(-24 * time.Hour)
	expired := createTestChallenge(t, db, "Last Week", 10, 10)
	require.NoError(t, db.Model(expired).Update("ends_at", past).Error)
	_, err = gs.CompleteChallenge(user.ID, expired.ID)
	assert.ErrorIs(t, err, ErrChallengeClosed)

	assert.Equal(t, int64(0), reloadUser(t, db, user.ID).CoinBalance)
}

func TestRedeemRewardExchangesCoinsForStock(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 100)
	reward := createTestReward(t, db, "Free Coffee", 60, int64Ptr(5))

	issued, err := gs.RedeemReward(user.ID, reward.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(issued.RedemptionCode, "RWD-"))
	assert.Equal(t, int64(60), issued.CoinsSpent)
	assert.Equal(t, models.UserRewardStatusIssued, issued.Status)

	assert.Equal(t, int64(40), reloadUser(t, db, user.ID).CoinBalance)

	var stored models.Reward
	require.NoError(t, db.First(&stored, reward.ID).Error)
	require.NotNil(t, stored.Stock)
	assert.Equal(t, int64(4), *stored.Stock)

	var entry models.CoinTransaction
	require.NoError(t, db.Where("user_id = ? AND amount < 0", user.ID).First(&entry).Error)
	assert.Equal(t, int64(-60), entry.Amount)
	assert.Equal(t, models.RefReward, entry.RefType)
	assert.Equal(t, reward.ID, entry.RefID)
}

func TestRedeemRewardInsufficientCoinsLeavesNoTrace(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 50)
	reward := createTestReward(t, db, "Free Coffee", 60, int64Ptr(5))

	_, err := gs.RedeemReward(user.ID, reward.ID)
	require.ErrorIs(t, err, ErrInsufficientCoins)

	assert.Equal(t, int64(50), reloadUser(t, db, user.ID).CoinBalance)
	assert.Equal(t, int64(0), countRows(t, db, &models.UserReward{}, "user_id = ?", user.ID))

	var stored models.Reward
	require.NoError(t, db.First(&stored, reward.ID).Error)
	assert.Equal(t, int64(5), *stored.Stock)
}

func TestRedeemLastUnitExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")
	fundUser(t, db, alice.ID, 100)
	fundUser(t, db, bora.ID, 100)
	reward := createTestReward(t, db, "Signed Map", 60, int64Ptr(1))

	_, firstErr := gs.RedeemReward(alice.ID, reward.ID)
	_, secondErr := gs.RedeemReward(bora.ID, reward.ID)

	require.NoError(t, firstErr)
	require.ErrorIs(t, secondErr, ErrOutOfStock)

	// The loser's coins come back with the rollback.
	assert.Equal(t, int64(40), reloadUser(t, db, alice.ID).CoinBalance)
	assert.Equal(t, int64(100), reloadUser(t, db, bora.ID).CoinBalance)

	var stored models.Reward
	require.NoError(t, db.First(&stored, reward.ID).Error)
	assert.Equal(t, int64(0), *stored.Stock)
	assert.Equal(t, int64(1), countRows(t, db, &models.UserReward{}, "reward_id = ?", reward.ID))
}

func TestRedeemUnlimitedRewardIgnoresStock(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 100)
	reward := createTestReward(t, db, "Digital Badge", 10, nil)

	_, err := gs.RedeemReward(user.ID, reward.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), reloadUser(t, db, user.ID).CoinBalance)
}

func TestRedeemSameRewardTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 100)
	reward := createTestReward(t, db, "Free Coffee", 30, int64Ptr(5))

	_, err := gs.RedeemReward(user.ID, reward.ID)
	require.NoError(t, err)
	_, err = gs.RedeemReward(user.ID, reward.ID)
	require.ErrorIs(t, err, ErrAlreadyGranted)

	assert.Equal(t, int64(70), reloadUser(t, db, user.ID).CoinBalance)
	assert.Equal(t, int64(1), countRows(t, db, &models.UserReward{}, "user_id = ?", user.ID))
}

func TestRedeemInactiveOrMissingReward(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	user := createTestUser(t, db, "alice")
	fundUser(t, db, user.ID, 100)

	_, err := gs.RedeemReward(user.ID, 9999)
	assert.ErrorIs(t, err, ErrRewardNotFound)

	retired := createTestReward(t, db, "Retired", 10, nil)
	require.NoError(t, db.Model(retired).Update("status", models.CatalogStatusInactive).Error)
	_, err = gs.RedeemReward(user.ID, retired.ID)
	assert.ErrorIs(t, err, ErrRewardInactive)

	assert.Equal(t, int64(100), reloadUser(t, db, user.ID).CoinBalance)
}

func TestRedemptionCodesAreUnique(t *testing.T) {
	db := setupTestDB(t)
	gs := NewGrantService(db)
	reward := createTestReward(t, db, "Free Coffee", 10, nil)

	seen := map[string]bool{}
	for _, name := range []string{"alice", "bora", "cem", "duru"} {
		user := createTestUser(t, db, name)
		fundUser(t, db, user.ID, 10)
		issued, err := gs.RedeemReward(user.ID, reward.ID)
		require.NoError(t, err)
		assert.False(t, seen[issued.RedemptionCode])
		seen[issued.RedemptionCode] = true
	}
}
