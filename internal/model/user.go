package model

import "time"

// User account, table users
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name         string    `gorm:"type:varchar(100);not null"      json:"name"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"      json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null"       json:"role"`
	Branch       *string   `gorm:"type:varchar(50)"                json:"branch,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName table name
func (User) TableName() string { return "users" }
