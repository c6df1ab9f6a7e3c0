package dto

import (
	"time"

	"roomvote_backend/internal/models"
)

// CreateProposalRequest - предложение опроса участником комнаты
type CreateProposalRequest struct {
	Question string   `json:"question" binding:"required,max=500"`
	Type     string   `json:"type" binding:"required,poll_type"`
	Options  []string `json:"options" binding:"required,min=2,dive,required,max=200"`
}

// ProposalResponse - предложение для списка владельца
type ProposalResponse struct {
	ID           string                `json:"id"`
	RoomID       string                `json:"room_id"`
	RoomName     string                `json:"room_name,omitempty"`
	ProposerID   string                `json:"proposer_id"`
	ProposerName string                `json:"proposer_name,omitempty"`
	Question     string                `json:"question"`
	Type         models.PollType       `json:"type"`
	Options      []string              `json:"options"`
	Status       models.ProposalStatus `json:"status"`
	ReviewedAt   *time.Time            `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ProposalListResponse - нерассмотренные предложения комнаты
type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	Total     int                `json:"total"`
}

// ApproveProposalResponse - результат одобрения: предложение и созданный опрос
type ApproveProposalResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Poll     PollResponse     `json:"poll"`
}
