package dto

import (
	"time"

	"roomvote_backend/internal/models"
)

// CreateRoomRequest - запрос создания комнаты
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// JoinRoomRequest - вход в комнату по коду приглашения
type JoinRoomRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// RoomResponse - информация о комнате
type RoomResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	InviteCode  string    `json:"invite_code,omitempty"`
	IsOwner     bool      `json:"is_owner"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRoomResponse собирает ответ. Код приглашения виден только владельцу.
func NewRoomResponse(room *models.Room, viewerID string) RoomResponse {
	resp := RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		OwnerID:     room.OwnerID,
		IsOwner:     room.OwnerID == viewerID,
		CreatedAt:   room.CreatedAt,
	}
	if resp.IsOwner {
		resp.InviteCode = room.InviteCode
	}
	return resp
}

// RoomListResponse - список комнат пользователя
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Total int            `json:"total"`
}
