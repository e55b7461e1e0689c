package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trail-point/api-go/models"
)

func TestFollowUserUpdatesBothCounters(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSocialService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")

	counts, err := ss.FollowUser(alice.ID, bora.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.TargetFollowers)
	assert.Equal(t, int64(1), counts.CallerFollowing)

	assert.Equal(t, int64(1), reloadUser(t, db, alice.ID).TotalFollowing)
	assert.Equal(t, int64(0), reloadUser(t, db, alice.ID).TotalFollower)
	assert.Equal(t, int64(1), reloadUser(t, db, bora.ID).TotalFollower)

	following, err := ss.IsFollowing(alice.ID, bora.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollowRules(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSocialService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")

	_, err := ss.FollowUser(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = ss.FollowUser(alice.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = ss.FollowUser(alice.ID, bora.ID)
	require.NoError(t, err)
	_, err = ss.FollowUser(alice.ID, bora.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	// The duplicate attempt must not inflate counters.
	assert.Equal(t, int64(1), reloadUser(t, db, bora.ID).TotalFollower)
	assert.Equal(t, int64(1), countRows(t, db, &models.Follow{}, "follower_user_id = ?", alice.ID))
}

func TestUnfollowWalksCountersBack(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSocialService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")

	_, err := ss.FollowUser(alice.ID, bora.ID)
	require.NoError(t, err)

	counts, err := ss.UnfollowUser(alice.ID, bora.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.TargetFollowers)
	assert.Equal(t, int64(0), counts.CallerFollowing)

	_, err = ss.UnfollowUser(alice.ID, bora.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)

	// Counters stop at zero even after the failed second unfollow.
	assert.Equal(t, int64(0), reloadUser(t, db, alice.ID).TotalFollowing)
	assert.Equal(t, int64(0), reloadUser(t, db, bora.ID).TotalFollower)
}

func TestToggleLikeOnCheckin(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSocialService(db)
	cs := NewCheckinService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")
	place := createTestPlace(t, db, "Pier Cafe", 10, 20)

	result, err := cs.CreateCheckin(alice.ID, place.ID, place.Latitude, place.Longitude, "")
	require.NoError(t, err)
	checkinID := result.Checkin.ID

	liked, err := ss.ToggleLike(bora.ID, models.RefCheckin, checkinID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := ss.CountLikes(models.RefCheckin, checkinID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err = ss.ToggleLike(bora.ID, models.RefCheckin, checkinID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = ss.CountLikes(models.RefCheckin, checkinID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestToggleLikeTargetRules(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSocialService(db)
	rs := NewReviewService(db)
	alice := createTestUser(t, db, "alice")
	bora := createTestUser(t, db, "bora")
	place := createTestPlace(t, db, "Pier Cafe", 5, 10)

	_, err := ss.ToggleLike(alice.ID, models.RefCheckin, 9999)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = ss.ToggleLike(alice.ID, "place", 1)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	review, err := rs.CreateReview(alice.ID, place.ID, 4, "", nil)
	require.NoError(t, err)

	liked, err := ss.ToggleLike(bora.ID, models.RefReview, review.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// A soft-deleted review is no longer likeable.
	require.NoError(t, rs.DeleteReview(alice.ID, review.ID))
	_, err = ss.ToggleLike(bora.ID, models.RefReview, review.ID)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}
