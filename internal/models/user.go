package models

import "time"

type User struct {
	BaseModel
	Username             string `gorm:"uniqueIndex;not null"`
	Email                string `gorm:"uniqueIndex;not null"`
	PasswordHash         string `gorm:"not null"`
	AvatarURL            string `gorm:"default:'/img/default-avatar.png'"`
	NotificationsEnabled bool   `gorm:"default:true"`

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
