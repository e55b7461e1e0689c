package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	ReviewStatusActive  = "active"
	ReviewStatusDeleted = "deleted"

	MinRating = 1
	MaxRating = 5
)

// Review is soft-deleted via the status flag rather than removed, so the
// rating history behind place aggregates stays auditable. The unique
// index spans deleted rows too: a review consumes its calendar month
// even after deletion, since its payout is not clawed back.
type Review struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint           `json:"userId" gorm:"not null;uniqueIndex:idx_review_user_place_period"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
	PlaceID     uint           `json:"placeId" gorm:"not null;index;uniqueIndex:idx_review_user_place_period"`
	Place       Place          `json:"-" gorm:"foreignKey:PlaceID"`
	Rating      int            `json:"rating" gorm:"not null;check:rating between 1 and 5"`
	Content     string         `json:"content" gorm:"type:text"`
	ImageURLs   pq.StringArray `json:"imageUrls" gorm:"type:text[]"`
	CoinsEarned int64          `json:"coinsEarned" gorm:"not null;default:0"`
	ExpEarned   int64          `json:"expEarned" gorm:"not null;default:0"`
	PeriodKey   string         `json:"periodKey" gorm:"not null;type:varchar(7);uniqueIndex:idx_review_user_place_period"`
	Status      string         `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
