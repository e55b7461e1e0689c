package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	PlaceStatusActive   = "active"
	PlaceStatusInactive = "inactive"
)

type Place struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Categories  pq.StringArray `json:"categories" gorm:"type:text[]"`
	Address     string         `json:"address"`
	Latitude    float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude   float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`

	// Reward parameters paid out on check-ins and reviews at this place.
	CoinReward int64 `json:"coinReward" gorm:"not null;default:0"`
	ExpReward  int64 `json:"expReward" gorm:"not null;default:0"`

	// Aggregates recomputed from the active review / checkin sets.
	AvgRating    float64 `json:"avgRating" gorm:"not null;default:0;type:decimal(3,2)"`
	TotalReview  int64   `json:"totalReview" gorm:"not null;default:0"`
	TotalCheckin int64   `json:"totalCheckin" gorm:"not null;default:0"`

	Status        string         `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	PlaceImage    string         `json:"placeImage"`
	Features      pq.StringArray `json:"features" gorm:"type:text[]"` // ["wifi", "parking", "outdoor_seating"]
	IsVerified    bool           `json:"isVerified" gorm:"default:false"`
	CheckinRadius float64        `json:"checkinRadius" gorm:"not null;default:100"` // meters
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
