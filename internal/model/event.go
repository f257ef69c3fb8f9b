package model

import "time"

// Event (table events). Append-only: created by a conductor, never updated or deleted.
type Event struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"             json:"id"`
	Title       string     `gorm:"type:varchar(200);not null"           json:"title"`
	Description string     `gorm:"type:text;not null;default:''"        json:"description"`
	Location    string     `gorm:"type:varchar(200);not null;default:''" json:"location"`
	WhenAt      *time.Time `gorm:"column:when_at"                       json:"when_at,omitempty"`
	CreatorID   uint64     `gorm:"not null;index"                       json:"creator_id"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"created_at"`
}

// TableName table name
func (Event) TableName() string { return "events" }
