package database

import (
	"roomvote_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Room{},
		&models.RoomMember{},
		&models.Poll{},
		&models.PollOption{},
		&models.Vote{},
		&models.PollProposal{},
		&models.Notification{},
	)
}
