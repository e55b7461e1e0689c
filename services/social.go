package services

import (
	"errors"

	"github.com/trail-point/api-go/models"
	"gorm.io/gorm"
)

// SocialService keeps the follow graph and likes consistent with the
// denormalized counters on user rows.
type SocialService struct {
	DB *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{DB: db}
}

// FollowCounts reports both sides of the relationship after a change.
type FollowCounts struct {
	TargetFollowers int64 `json:"targetFollowers"`
	CallerFollowing int64 `json:"callerFollowing"`
}

// FollowUser creates the follow edge and bumps both counters in one
// transaction. The pair index rejects a second edge between the same
// two users.
func (ss *SocialService) FollowUser(followerID, targetID uint) (*FollowCounts, error) {
	if followerID == targetID {
		return nil, ErrSelfFollow
	}
	var counts FollowCounts

	err := ss.DB.Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Select("id").First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return wrapTxErr(err)
		}

		follow := models.Follow{FollowerUserID: followerID, FollowingUserID: targetID}
		if err := tx.Create(&follow).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyFollowing
			}
			return wrapTxErr(err)
		}

		res := tx.Model(&models.User{}).Where("id = ?", followerID).
			Update("total_following", gorm.Expr("total_following + ?", 1))
		if res.Error != nil {
			return wrapTxErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if err := tx.Model(&models.User{}).Where("id = ?", targetID).
			Update("total_follower", gorm.Expr("total_follower + ?", 1)).Error; err != nil {
			return wrapTxErr(err)
		}

		return readFollowCounts(tx, followerID, targetID, &counts)
	})
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// UnfollowUser removes the edge and walks both counters back down,
// never below zero.
func (ss *SocialService) UnfollowUser(followerID, targetID uint) (*FollowCounts, error) {
	if followerID == targetID {
		return nil, ErrSelfFollow
	}
	var counts FollowCounts

	err := ss.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_user_id = ? AND following_user_id = ?", followerID, targetID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return wrapTxErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFollowing
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND total_following > 0", followerID).
			Update("total_following", gorm.Expr("total_following - ?", 1)).Error; err != nil {
			return wrapTxErr(err)
		}
		if err := tx.Model(&models.User{}).
			Where("id = ? AND total_follower > 0", targetID).
			Update("total_follower", gorm.Expr("total_follower - ?", 1)).Error; err != nil {
			return wrapTxErr(err)
		}

		return readFollowCounts(tx, followerID, targetID, &counts)
	})
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// IsFollowing reports whether follower already follows target.
func (ss *SocialService) IsFollowing(followerID, targetID uint) (bool, error) {
	var count int64
	err := ss.DB.Model(&models.Follow{}).
		Where("follower_user_id = ? AND following_user_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, wrapTxErr(err)
	}
	return count > 0, nil
}

// ToggleLike likes the target if the user has not, unlikes it if they
// have. Returns the liked state after the call.
func (ss *SocialService) ToggleLike(userID uint, targetType models.RefType, targetID uint) (bool, error) {
	liked := false

	err := ss.DB.Transaction(func(tx *gorm.DB) error {
		if err := ensureLikeTarget(tx, targetType, targetID); err != nil {
			return err
		}

		var existing models.Like
		err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return wrapTxErr(err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.Like{UserID: userID, TargetType: targetType, TargetID: targetID}
			if err := tx.Create(&like).Error; err != nil {
				if isDuplicateKey(err) {
					// Lost the race to a concurrent like; the row exists,
					// which is the state being asked for.
					liked = true
					return nil
				}
				return wrapTxErr(err)
			}
			liked = true
			return nil
		default:
			return wrapTxErr(err)
		}
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// CountLikes returns how many likes the target currently has.
func (ss *SocialService) CountLikes(targetType models.RefType, targetID uint) (int64, error) {
	var count int64
	err := ss.DB.Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	if err != nil {
		return 0, wrapTxErr(err)
	}
	return count, nil
}

func ensureLikeTarget(tx *gorm.DB, targetType models.RefType, targetID uint) error {
	var count int64
	var err error
	switch targetType {
	case models.RefCheckin:
		err = tx.Model(&models.Checkin{}).Where("id = ?", targetID).Count(&count).Error
	case models.RefReview:
		err = tx.Model(&models.Review{}).
			Where("id = ? AND status = ?", targetID, models.ReviewStatusActive).
			Count(&count).Error
	default:
		return ErrInvalidTarget
	}
	if err != nil {
		return wrapTxErr(err)
	}
	if count == 0 {
		return ErrTargetNotFound
	}
	return nil
}

func readFollowCounts(tx *gorm.DB, followerID, targetID uint, counts *FollowCounts) error {
	var follower, target models.User
	if err := tx.Select("id", "total_following").First(&follower, followerID).Error; err != nil {
		return wrapTxErr(err)
	}
	if err := tx.Select("id", "total_follower").First(&target, targetID).Error; err != nil {
		return wrapTxErr(err)
	}
	counts.CallerFollowing = follower.TotalFollowing
	counts.TargetFollowers = target.TotalFollower
	return nil
}
