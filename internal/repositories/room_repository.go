package repositories

import (
	"errors"

	"roomvote_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository interface {
	Create(db *gorm.DB, room *models.Room) error
	FindByID(db *gorm.DB, id string) (*models.Room, error)
	FindByInviteCode(db *gorm.DB, code string) (*models.Room, error)
	InviteCodeExists(db *gorm.DB, code string) (bool, error)
	FindUserRooms(db *gorm.DB, userID string) ([]models.Room, error)

	// Membership operations
	AddMember(db *gorm.DB, member *models.RoomMember) error
	IsMember(db *gorm.DB, roomID, userID string) (bool, error)
}

type RoomRepositoryImpl struct{}

func NewRoomRepository() RoomRepository {
	return &RoomRepositoryImpl{}
}

func (r *RoomRepositoryImpl) Create(db *gorm.DB, room *models.Room) error {
	return db.Create(room).Error
}

func (r *RoomRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Room, error) {
	var room models.Room
	err := db.First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepositoryImpl) FindByInviteCode(db *gorm.DB, code string) (*models.Room, error) {
	var room models.Room
	err := db.First(&room, "invite_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepositoryImpl) InviteCodeExists(db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.Model(&models.Room{}).Where("invite_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *RoomRepositoryImpl) FindUserRooms(db *gorm.DB, userID string) ([]models.Room, error) {
	var rooms []models.Room
	err := db.
		Joins("JOIN room_members rm ON rm.room_id = rooms.id").
		Where("rm.user_id = ?", userID).
		Order("rooms.created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepositoryImpl) AddMember(db *gorm.DB, member *models.RoomMember) error {
	return db.Create(member).Error
}

func (r *RoomRepositoryImpl) IsMember(db *gorm.DB, roomID, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}
