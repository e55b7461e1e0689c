package models

import (
	"time"
)

const (
	UserRewardStatusIssued = "issued"
	UserRewardStatusUsed   = "used"
)

// Reward is a redeemable catalog item. Stock is nil for unlimited
// rewards; limited rewards are decremented atomically at redemption so
// stock can never go negative.
type Reward struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"unique;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image"`
	CoinCost    int64     `json:"coinCost" gorm:"not null"`
	Stock       *int64    `json:"stock"`
	Status      string    `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UserReward struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         uint      `json:"userId" gorm:"not null;uniqueIndex:idx_user_reward_pair"`
	User           User      `json:"-" gorm:"foreignKey:UserID"`
	RewardID       uint      `json:"rewardId" gorm:"not null;uniqueIndex:idx_user_reward_pair"`
	Reward         Reward    `json:"reward" gorm:"foreignKey:RewardID"`
	RedemptionCode string    `json:"redemptionCode" gorm:"unique;not null"`
	CoinsSpent     int64     `json:"coinsSpent" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;default:'issued';type:varchar(20)"`
	CreatedAt      time.Time `json:"createdAt"`
}
