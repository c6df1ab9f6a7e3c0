package services

import (
	"crypto/rand"
	"math/big"

	"roomvote_backend/internal/models"
	"roomvote_backend/internal/repositories"
	"roomvote_backend/internal/services/dto"
	"roomvote_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Алфавит кодов приглашения: кириллица и цифры, без похожих символов
const inviteCodeAlphabet = "АБВГДЕЖЗИКЛМНПРСТУФХЦЧШЭЮЯ123456789"

const (
	inviteCodeLength   = 6
	inviteCodeAttempts = 5
)

type RoomService interface {
	CreateRoom(db *gorm.DB, ownerID string, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	JoinRoom(db *gorm.DB, userID string, req *dto.JoinRoomRequest) (*dto.RoomResponse, error)
	GetUserRooms(db *gorm.DB, userID string) (*dto.RoomListResponse, error)
	GetRoom(db *gorm.DB, roomID, userID string) (*dto.RoomResponse, error)
}

type RoomServiceImpl struct {
	roomRepo repositories.RoomRepository
}

func NewRoomService(roomRepo repositories.RoomRepository) RoomService {
	return &RoomServiceImpl{roomRepo: roomRepo}
}

// CreateRoom создает комнату и сразу добавляет владельца в участники.
func (s *RoomServiceImpl) CreateRoom(db *gorm.DB, ownerID string, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	code, err := s.generateInviteCode(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	defer tx.Rollback()

	room := &models.Room{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		InviteCode:  code,
	}
	if err := s.roomRepo.Create(tx, room); err != nil {
		return nil, apperrors.InternalError(err)
	}

	member := &models.RoomMember{RoomID: room.ID, UserID: ownerID}
	if err := s.roomRepo.AddMember(tx, member); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewRoomResponse(room, ownerID)
	return &resp, nil
}

// JoinRoom - вход по коду приглашения. Повторный вход не ошибка.
func (s *RoomServiceImpl) JoinRoom(db *gorm.DB, userID string, req *dto.JoinRoomRequest) (*dto.RoomResponse, error) {
	room, err := s.roomRepo.FindByInviteCode(db, req.InviteCode)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRoomNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	isMember, err := s.roomRepo.IsMember(db, room.ID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if !isMember {
		member := &models.RoomMember{RoomID: room.ID, UserID: userID}
		if err := s.roomRepo.AddMember(db, member); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	resp := dto.NewRoomResponse(room, userID)
	return &resp, nil
}

// GetUserRooms - комнаты, где пользователь состоит
func (s *RoomServiceImpl) GetUserRooms(db *gorm.DB, userID string) (*dto.RoomListResponse, error) {
	rooms, err := s.roomRepo.FindUserRooms(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		items = append(items, dto.NewRoomResponse(&rooms[i], userID))
	}

	return &dto.RoomListResponse{Rooms: items, Total: len(items)}, nil
}

// GetRoom - комната по ID, только для участников
func (s *RoomServiceImpl) GetRoom(db *gorm.DB, roomID, userID string) (*dto.RoomResponse, error) {
	room, err := s.roomRepo.FindByID(db, roomID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRoomNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	isMember, err := s.roomRepo.IsMember(db, roomID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !isMember {
		return nil, apperrors.ErrNotRoomMember
	}

	resp := dto.NewRoomResponse(room, userID)
	return &resp, nil
}

// generateInviteCode подбирает свободный код, при коллизии пробует снова.
func (s *RoomServiceImpl) generateInviteCode(db *gorm.DB) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := randomInviteCode()
		if err != nil {
			return "", err
		}
		exists, err := s.roomRepo.InviteCodeExists(db, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperrors.ErrInvalidOperation("room", "Не удалось сгенерировать код приглашения")
}

func randomInviteCode() (string, error) {
	alphabet := []rune(inviteCodeAlphabet)
	code := make([]rune, inviteCodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
