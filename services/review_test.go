package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trail-point/api-go/models"
)

func TestCreateReviewPaysAndRecomputesRating(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	review, err := rs.CreateReview(user.ID, place.ID, 4, "great coffee", []string{"uploads/proofs/1/r.jpg"})
	require.NoError(t, err)
	assert.Equal(t, MonthKey(time.Now()), review.PeriodKey)

	reloaded := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(5), reloaded.CoinBalance)
	assert.Equal(t, int64(10), reloaded.ExpPoints)
	assert.Equal(t, int64(1), reloaded.TotalReview)

	reloadedPlace := reloadPlace(t, db, place.ID)
	assert.InDelta(t, 4.0, reloadedPlace.AvgRating, 0.001)
	assert.Equal(t, int64(1), reloadedPlace.TotalReview)

	var entry models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, models.RefReview, entry.RefType)
	assert.Equal(t, review.ID, entry.RefID)
}

func TestAverageRatingRoundsHalfUp(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	place := createTestPlace(t, db, "Pier Cafe", 0, 0)

	for i, rating := range []int{5, 4, 4} {
		user := createTestUser(t, db, []string{"alice", "bora", "cem"}[i])
		_, err := rs.CreateReview(user.ID, place.ID, rating, "", nil)
		require.NoError(t, err)
	}

	// 13/3 = 4.333... rounds to 4.33.
	assert.InDelta(t, 4.33, reloadPlace(t, db, place.ID).AvgRating, 0.001)
}

func TestSecondReviewSameMonthFailsCompletely(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	_, err := rs.CreateReview(user.ID, place.ID, 4, "", nil)
	require.NoError(t, err)

	_, err = rs.CreateReview(user.ID, place.ID, 5, "", nil)
	require.ErrorIs(t, err, ErrAlreadyReviewed)

	reloaded := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(5), reloaded.CoinBalance)
	assert.Equal(t, int64(1), reloaded.TotalReview)
	assert.Equal(t, int64(1), countRows(t, db, &models.Review{}, "user_id = ?", user.ID))
	assert.InDelta(t, 4.0, reloadPlace(t, db, place.ID).AvgRating, 0.001)
}

func TestReviewRatingBounds(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	_, err := rs.CreateReview(user.ID, place.ID, 0, "", nil)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = rs.CreateReview(user.ID, place.ID, 6, "", nil)
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.Equal(t, int64(0), countRows(t, db, &models.Review{}, "user_id = ?", user.ID))
}

func TestUpdateReviewRecomputesOnRatingChange(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	review, err := rs.CreateReview(alice.ID, place.ID, 2, "meh", nil)
	require.NoError(t, err)
	_, err = rs.CreateReview(bora.ID, place.ID, 5, "", nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, reloadPlace(t, db, place.ID).AvgRating, 0.001)

	newRating := 4
	newContent := "grew on me"
	_, err = rs.UpdateReview(alice.ID, review.ID, ReviewUpdate{Rating: &newRating, Content: &newContent})
	require.NoError(t, err)

	assert.InDelta(t, 4.5, reloadPlace(t, db, place.ID).AvgRating, 0.001)

	var stored models.Review
	require.NoError(t, db.First(&stored, review.ID).Error)
	assert.Equal(t, 4, stored.Rating)
	assert.Equal(t, "grew on me", stored.Content)

	// Editing never pays out again.
	assert.Equal(t, int64(5), reloadUser(t, db, alice.ID).CoinBalance)
	assert.Equal(t, int64(1), countRows(t, db, &models.CoinTransaction{}, "user_id = ?", alice.ID))
}

func TestUpdateReviewOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	review, err := rs.CreateReview(alice.ID, place.ID, 4, "", nil)
	require.NoError(t, err)

	newRating := 1
	_, err = rs.UpdateReview(bora.ID, review.ID, ReviewUpdate{Rating: &newRating})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.True(t, IsDenied(err))

	assert.ErrorIs(t, rs.DeleteReview(bora.ID, review.ID), ErrNotOwner)
}

func TestDeleteReviewKeepsPayoutAndMonth(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	review, err := rs.CreateReview(alice.ID, place.ID, 2, "", nil)
	require.NoError(t, err)
	_, err = rs.CreateReview(bora.ID, place.ID, 5, "", nil)
	require.NoError(t, err)

	require.NoError(t, rs.DeleteReview(alice.ID, review.ID))

	// Aggregates drop the deleted review, the payout stays.
	reloadedPlace := reloadPlace(t, db, place.ID)
	assert.InDelta(t, 5.0, reloadedPlace.AvgRating, 0.001)
	assert.Equal(t, int64(1), reloadedPlace.TotalReview)
	assert.Equal(t, int64(5), reloadUser(t, db, alice.ID).CoinBalance)
	assert.Equal(t, int64(0), reloadUser(t, db, alice.ID).TotalReview)

	// The row is still there for auditing, and the month stays used.
	var stored models.Review
	require.NoError(t, db.First(&stored, review.ID).Error)
	assert.Equal(t, models.ReviewStatusDeleted, stored.Status)

	_, err = rs.CreateReview(alice.ID, place.ID, 4, "", nil)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	// A deleted review cannot be edited or deleted again.
	assert.ErrorIs(t, rs.DeleteReview(alice.ID, review.ID), ErrReviewNotFound)
	newRating := 3
	_, err = rs.UpdateReview(alice.ID, review.ID, ReviewUpdate{Rating: &newRating})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestDeleteLastReviewResetsRating(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	review, err := rs.CreateReview(user.ID, place.ID, 4, "", nil)
	require.NoError(t, err)
	require.NoError(t, rs.DeleteReview(user.ID, review.ID))

	reloaded := reloadPlace(t, db, place.ID)
	assert.InDelta(t, 0.0, reloaded.AvgRating, 0.001)
	assert.Equal(t, int64(0), reloaded.TotalReview)
}

func TestReviewAtInactivePlaceRejected(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService(db)
	user := createTestUser(t, db, "alice")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)
	require.NoError(t, db.Model(place).Update("status", models.PlaceStatusInactive).Error)

	_, err := rs.CreateReview(user.ID, place.ID, 4, "", nil)
	assert.ErrorIs(t, err, ErrPlaceInactive)
	assert.Equal(t, int64(0), countRows(t, db, &models.Review{}, "user_id = ?", user.ID))
}
