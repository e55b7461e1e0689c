package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}
