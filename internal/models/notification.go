package models

import "time"

type Notification struct {
	BaseModel
	RoomID       string `gorm:"type:uuid;not null;index"`
	TargetUserID string `gorm:"type:uuid;not null;index"`
	ActorID      string `gorm:"type:uuid;not null"`
	Type         string `gorm:"not null"` // "new_proposal", "approved"
	Title        string `gorm:"not null"`
	IsRead       bool   `gorm:"default:false"`
	ReadAt       *time.Time
}
