package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Username  string         `gorm:"unique;not null" json:"username"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Phone     *string        `gorm:"unique" json:"phone"`
	Password  *string        `json:"-"` // nil for OAuth-only accounts
	GoogleID  *string        `gorm:"unique" json:"-"`
	Provider  string         `gorm:"default:'email'" json:"provider"`
	Bio       string         `json:"bio"`
	Avatar    string         `json:"avatar"`
	Role      Role           `json:"role" gorm:"foreignKey:RoleID"`
	RoleID    uint           `json:"role_id"`

	AccountStatus string `gorm:"default:'active'" json:"account_status"`
	IsVerified    bool   `json:"is_verified"`
	EmailVerified bool   `json:"email_verified"`

	// Denormalized caches over authoritative rows (ledger entries,
	// checkins, reviews, grants, follows). Only mutated in the same
	// transaction as the row they summarize.
	CoinBalance      int64 `gorm:"not null;default:0" json:"coin_balance"`
	ExpPoints        int64 `gorm:"not null;default:0" json:"exp_points"`
	TotalCheckin     int64 `gorm:"not null;default:0" json:"total_checkin"`
	TotalReview      int64 `gorm:"not null;default:0" json:"total_review"`
	TotalAchievement int64 `gorm:"not null;default:0" json:"total_achievement"`
	TotalChallenge   int64 `gorm:"not null;default:0" json:"total_challenge"`
	TotalFollower    int64 `gorm:"not null;default:0" json:"total_follower"`
	TotalFollowing   int64 `gorm:"not null;default:0" json:"total_following"`

	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}
