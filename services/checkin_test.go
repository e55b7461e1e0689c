package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trail-point/api-go/models"
)

func TestCreateCheckinPaysConfiguredRewards(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCheckinService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 10, 20)

	result, err := cs.CreateCheckin(user.ID, place.ID, place.Latitude, place.Longitude, "uploads/proofs/1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.CoinsEarned)
	assert.Equal(t, int64(20), result.ExpEarned)
	assert.Equal(t, MonthKey(time.Now()), result.Checkin.PeriodKey)

	reloaded := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(10), reloaded.CoinBalance)
	assert.Equal(t, int64(20), reloaded.ExpPoints)
	assert.Equal(t, int64(1), reloaded.TotalCheckin)
	assert.Equal(t, int64(1), reloadPlace(t, db, place.ID).TotalCheckin)

	// Both ledger entries point back at the checkin row.
	var coinEntry models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&coinEntry).Error)
	assert.Equal(t, models.RefCheckin, coinEntry.RefType)
	assert.Equal(t, result.Checkin.ID, coinEntry.RefID)

	var expEntry models.ExpTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&expEntry).Error)
	assert.Equal(t, models.RefCheckin, expEntry.RefType)
	assert.Equal(t, result.Checkin.ID, expEntry.RefID)
}

func TestSecondCheckinSameMonthFailsCompletely(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCheckinService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 10, 20)

	_, err := cs.CreateCheckin(user.ID, place.ID, place.Latitude, place.Longitude, "")
	require.NoError(t, err)

	_, err = cs.CreateCheckin(user.ID, place.ID, place.Latitude, place.Longitude, "")
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// Nothing moved on the failed attempt.
	reloaded := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(10), reloaded.CoinBalance)
	assert.Equal(t, int64(20), reloaded.ExpPoints)
	assert.Equal(t, int64(1), reloaded.TotalCheckin)
	assert.Equal(t, int64(1), countRows(t, db, &models.Checkin{}, "user_id = ?", user.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.CoinTransaction{}, "user_id = ?", user.ID))
}

func TestCheckinAllowedAgainNextMonth(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCheckinService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 10, 20)

	result, err := cs.CreateCheckin(user.ID, place.ID, place.Latitude, place.Longitude, "")
	require.NoError(t, err)

	// Age the first checkin into the previous month.
	monthStart, _ := MonthWindow(time.Now())
	lastMonth := monthStart.Add(-time.Hour)
	require.NoError(t, db.Model(&models.Checkin{}).Where("id = ?", result.Checkin.ID).
		Updates(map[string]interface{}{
			"created_at": lastMonth,
			"period_key": MonthKey(lastMonth),
		}).Error)

	_, err = cs.CreateCheckin(user.ID, place.ID, place.Latitude, place.Longitude, "")
	require.NoError(t, err)
	assert.Equal(t, int64(20), reloadUser(t, db, user.ID).CoinBalance)
	assert.Equal(t, int64(2), countRows(t, db, &models.Checkin{}, "user_id = ?", user.ID))
}

func TestCheckinRejectedWhenPlaceInactive(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCheckinService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 10, 20)
	require.NoError(t, db.Model(place).Update("status", models.PlaceStatusInactive).Error)

	_, err := cs.CreateCheckin(user.ID, place.ID, place.Latitude, place.Longitude, "")
	require.ErrorIs(t, err, ErrPlaceInactive)

	assert.Equal(t, int64(0), reloadUser(t, db, user.ID).CoinBalance)
	assert.Equal(t, int64(0), countRows(t, db, &models.Checkin{}, "user_id = ?", user.ID))
}

func TestCheckinRejectedOutsideRadius(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCheckinService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 10, 20)

	// Roughly 15km away from the place.
	_, err := cs.CreateCheckin(user.ID, place.ID, place.Latitude+0.14, place.Longitude, "")

	var tooFar *TooFarFromPlaceError
	require.ErrorAs(t, err, &tooFar)
	assert.Greater(t, tooFar.DistanceMeters, place.CheckinRadius)
	assert.True(t, IsRejected(err))
	assert.Equal(t, int64(0), countRows(t, db, &models.Checkin{}, "user_id = ?", user.ID))
}

func TestCheckinAtUnknownPlace(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCheckinService(db)
	user := createTestUser(t, db, "alice")

	_, err := cs.CreateCheckin(user.ID, 9999, 40.0, 29.0, "")
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestCheckinAtZeroRewardPlaceWritesNoEntries(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCheckinService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Hidden Garden", 0, 0)

	result, err := cs.CreateCheckin(user.ID, place.ID, place.Latitude, place.Longitude, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.CoinsEarned)

	assert.Equal(t, int64(1), reloadUser(t, db, user.ID).TotalCheckin)
	assert.Equal(t, int64(0), countRows(t, db, &models.CoinTransaction{}, "user_id = ?", user.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.ExpTransaction{}, "user_id = ?", user.ID))
}

func TestHaversineMetersKnownDistance(t *testing.T) {
	// Galata Tower to Maiden's Tower, roughly 2.5km.
	d := haversineMeters(41.0256, 28.9744, 41.0211, 29.0041)
	assert.InDelta(t, 2550, d, 300)
}
