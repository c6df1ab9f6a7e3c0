package models

import "time"

type Room struct {
	BaseModel
	Name        string `gorm:"not null"`
	Description string
	OwnerID     string `gorm:"type:uuid;not null;index"`
	InviteCode  string `gorm:"uniqueIndex;not null"`

	// Relations
	Members []RoomMember `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

// RoomMember - членство пользователя в комнате, составной ключ
type RoomMember struct {
	RoomID   string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"type:uuid;primaryKey"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}
