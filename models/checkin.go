package models

import (
	"time"
)

const (
	CheckinStatusActive = "active"
	CheckinStatusHidden = "hidden"
)

// Checkin is an immutable visit record. Rows are never updated after
// creation except for the status flag; the rewards written at creation
// time stay as they were even if the place config changes later.
type Checkin struct {
	ID            uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        uint    `json:"userId" gorm:"not null;uniqueIndex:idx_checkin_user_place_period"`
	User          User    `json:"-" gorm:"foreignKey:UserID"`
	PlaceID       uint    `json:"placeId" gorm:"not null;index;uniqueIndex:idx_checkin_user_place_period"`
	Place         Place   `json:"-" gorm:"foreignKey:PlaceID"`
	Latitude      float64 `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude     float64 `json:"longitude" gorm:"type:decimal(11,8)"`
	ProofImageURL string  `json:"proofImageUrl"`
	CoinsEarned   int64   `json:"coinsEarned" gorm:"not null;default:0"`
	ExpEarned     int64   `json:"expEarned" gorm:"not null;default:0"`

	// Calendar month of creation, "2006-01". Part of the unique index
	// backing the one-checkin-per-place-per-month rule.
	PeriodKey string `json:"periodKey" gorm:"not null;type:varchar(7);uniqueIndex:idx_checkin_user_place_period"`

	Status    string    `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
