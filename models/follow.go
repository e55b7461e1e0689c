package models

import (
	"time"
)

type Follow struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FollowerUserID  uint      `json:"followerUserId" gorm:"not null;uniqueIndex:idx_follow_pair"`
	FollowingUserID uint      `json:"followingUserId" gorm:"not null;uniqueIndex:idx_follow_pair"`
	CreatedAt       time.Time `json:"createdAt"`

	FollowerUser  User `json:"-" gorm:"foreignKey:FollowerUserID"`
	FollowingUser User `json:"-" gorm:"foreignKey:FollowingUserID"`
}
