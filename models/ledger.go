package models

import (
	"time"
)

// RefType names the kind of event a ledger entry (or a like) points at.
// Closed set; anything else is rejected before it reaches the database.
type RefType string

const (
	RefCheckin     RefType = "checkin"
	RefReview      RefType = "review"
	RefAchievement RefType = "achievement"
	RefChallenge   RefType = "challenge"
	RefReward      RefType = "reward"
	RefAdmin       RefType = "admin"
)

// Valid reports whether t is one of the known reference kinds.
func (t RefType) Valid() bool {
	switch t {
	case RefCheckin, RefReview, RefAchievement, RefChallenge, RefReward, RefAdmin:
		return true
	}
	return false
}

// Ref is the causal reference carried by every ledger entry: the row
// that earned or spent the amount.
type Ref struct {
	Type RefType
	ID   uint
}

// CoinTransaction is one append-only ledger entry. Amount is signed:
// positive for earns, negative for spends. Entries are never updated or
// deleted; a user's coin balance must always equal the sum of their
// entries.
type CoinTransaction struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;index:idx_coin_tx_user"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Amount    int64     `json:"amount" gorm:"not null"`
	RefType   RefType   `json:"refType" gorm:"not null;type:varchar(20);index:idx_coin_tx_ref"`
	RefID     uint      `json:"refId" gorm:"not null;index:idx_coin_tx_ref"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExpTransaction mirrors CoinTransaction for experience points.
type ExpTransaction struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;index:idx_exp_tx_user"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Amount    int64     `json:"amount" gorm:"not null"`
	RefType   RefType   `json:"refType" gorm:"not null;type:varchar(20);index:idx_exp_tx_ref"`
	RefID     uint      `json:"refId" gorm:"not null;index:idx_exp_tx_ref"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}
