package services

import (
	"roomvote_backend/internal/repositories"
	"roomvote_backend/internal/services/dto"
	"roomvote_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	SetNotificationsEnabled(db *gorm.DB, userID string, enabled bool) (*dto.ProfileResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	roomRepo repositories.RoomRepository
}

func NewUserService(userRepo repositories.UserRepository, roomRepo repositories.RoomRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo, roomRepo: roomRepo}
}

// GetProfile - профиль текущего пользователя
func (s *UserServiceImpl) GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Пользователь не найден")
		}
		return nil, apperrors.InternalError(err)
	}

	rooms, err := s.roomRepo.FindUserRooms(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProfileResponse{
		UserDTO:   dto.NewUserDTO(user),
		RoomCount: int64(len(rooms)),
	}, nil
}

// SetNotificationsEnabled - переключение уведомлений в профиле
func (s *UserServiceImpl) SetNotificationsEnabled(db *gorm.DB, userID string, enabled bool) (*dto.ProfileResponse, error) {
	if err := s.userRepo.SetNotificationsEnabled(db, userID, enabled); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Пользователь не найден")
		}
		return nil, apperrors.InternalError(err)
	}
	return s.GetProfile(db, userID)
}
