package dto

import (
	"time"

	"roomvote_backend/internal/models"
)

// CreatePollRequest - запрос создания опроса. Минимальное число
// вариантов зависит от типа, поэтому проверяется в сервисе:
// single и multiple требуют двух, rated_options хватает одного.
type CreatePollRequest struct {
	Question string   `json:"question" binding:"required,max=500"`
	Type     string   `json:"type" binding:"required,poll_type"`
	Options  []string `json:"options" binding:"required,min=1,dive,max=200"`
}

// EditOptionRequest - вариант в запросе правки опроса. С id меняет
// текст существующего варианта, без id добавляет новый.
type EditOptionRequest struct {
	ID   string `json:"id"`
	Text string `json:"text" binding:"required,max=200"`
}

// UpdatePollRequest - правка опроса. Варианты, не упомянутые в options,
// не удаляются: правка не трогает накопленные голоса.
type UpdatePollRequest struct {
	Question string              `json:"question" binding:"omitempty,max=500"`
	Options  []EditOptionRequest `json:"options" binding:"omitempty,dive"`
}

// AddOptionRequest - добавление варианта ответа
type AddOptionRequest struct {
	Text string `json:"text" binding:"required,max=200"`
}

// UpdateOptionRequest - изменение текста варианта
type UpdateOptionRequest struct {
	Text string `json:"text" binding:"required,max=200"`
}

// CastVoteRequest - бюллетень. Заполняется ровно одно поле,
// соответствующее типу опроса:
//   - single:        option_id
//   - multiple:      option_ids
//   - rated_options: ratings (option_id -> оценка 1..5)
type CastVoteRequest struct {
	OptionID  string         `json:"option_id,omitempty"`
	OptionIDs []string       `json:"option_ids,omitempty"`
	Ratings   map[string]int `json:"ratings,omitempty"`
}

// PollOptionDTO - вариант ответа. Итоговые поля зависят от типа
// опроса: votes для single/multiple, average_rating и vote_count
// для rated_options.
type PollOptionDTO struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Votes         *int     `json:"votes,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	VoteCount     *int     `json:"vote_count,omitempty"`
}

// PollResponse - опрос с вариантами
type PollResponse struct {
	ID         string          `json:"id"`
	RoomID     string          `json:"room_id"`
	Question   string          `json:"question"`
	Type       models.PollType `json:"type"`
	CreatedBy  string          `json:"created_by"`
	ProposalID *string         `json:"proposal_id,omitempty"`
	Options    []PollOptionDTO `json:"options"`
	IsOwner    bool            `json:"is_owner"`
	HasVoted   bool            `json:"has_voted"`
	CreatedAt  time.Time       `json:"created_at"`
}

func NewPollResponse(poll *models.Poll) PollResponse {
	options := make([]PollOptionDTO, 0, len(poll.Options))
	for _, opt := range poll.Options {
		options = append(options, PollOptionDTO{ID: opt.ID, Text: opt.Text})
	}
	return PollResponse{
		ID:         poll.ID,
		RoomID:     poll.RoomID,
		Question:   poll.Question,
		Type:       poll.Type,
		CreatedBy:  poll.CreatedBy,
		ProposalID: poll.ProposalID,
		Options:    options,
		CreatedAt:  poll.CreatedAt,
	}
}

// PollListResponse - опросы комнаты
type PollListResponse struct {
	Polls []PollResponse `json:"polls"`
	Total int            `json:"total"`
}

// OptionCountResult - итог по варианту для single/multiple
type OptionCountResult struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
	Count    int    `json:"count"`
}

// OptionRatingResult - итог по варианту для rated_options
type OptionRatingResult struct {
	OptionID  string  `json:"option_id"`
	Text      string  `json:"text"`
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}

// PollResultsResponse - итоги опроса. Заполняется counts либо ratings
// в зависимости от типа.
type PollResultsResponse struct {
	PollID      string               `json:"poll_id"`
	Question    string               `json:"question"`
	Type        models.PollType      `json:"type"`
	TotalVoters int                  `json:"total_voters"`
	Counts      []OptionCountResult  `json:"counts,omitempty"`
	Ratings     []OptionRatingResult `json:"ratings,omitempty"`
}
