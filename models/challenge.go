package models

import (
	"time"
)

type Challenge struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string     `json:"name" gorm:"unique;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Icon        string     `json:"icon"`
	CoinPrize   int64      `json:"coinPrize" gorm:"not null;default:0"`
	ExpPrize    int64      `json:"expPrize" gorm:"not null;default:0"`
	Status      string     `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type UserChallenge struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint      `json:"userId" gorm:"not null;uniqueIndex:idx_user_challenge_pair"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	ChallengeID uint      `json:"challengeId" gorm:"not null;uniqueIndex:idx_user_challenge_pair"`
	Challenge   Challenge `json:"challenge" gorm:"foreignKey:ChallengeID"`
	CreatedAt   time.Time `json:"createdAt"`
}
