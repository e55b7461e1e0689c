package models

import (
	"time"
)

const (
	CatalogStatusActive   = "active"
	CatalogStatusInactive = "inactive"
)

type Achievement struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"unique;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Icon        string    `json:"icon"`
	CoinPrize   int64     `json:"coinPrize" gorm:"not null;default:0"`
	ExpPrize    int64     `json:"expPrize" gorm:"not null;default:0"`
	Status      string    `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserAchievement records a grant. The unique pair index makes grants
// idempotent even under concurrent delivery of the same event.
type UserAchievement struct {
	ID            uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        uint        `json:"userId" gorm:"not null;uniqueIndex:idx_user_achievement_pair"`
	User          User        `json:"-" gorm:"foreignKey:UserID"`
	AchievementID uint        `json:"achievementId" gorm:"not null;uniqueIndex:idx_user_achievement_pair"`
	Achievement   Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
	CreatedAt     time.Time   `json:"createdAt"`
}
