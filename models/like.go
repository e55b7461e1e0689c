package models

import (
	"time"
)

// Like targets either a checkin or a review; TargetType narrows which
// table TargetID points into.
type Like struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint      `json:"userId" gorm:"not null;uniqueIndex:idx_like_user_target"`
	User       User      `json:"-" gorm:"foreignKey:UserID"`
	TargetType RefType   `json:"targetType" gorm:"not null;type:varchar(20);uniqueIndex:idx_like_user_target"`
	TargetID   uint      `json:"targetId" gorm:"not null;uniqueIndex:idx_like_user_target"`
	CreatedAt  time.Time `json:"createdAt"`
}
