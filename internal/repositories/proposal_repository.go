package repositories

import (
	"errors"
	"time"

	"roomvote_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrProposalNotFound = errors.New("proposal not found")

// ProposalListItem - предложение вместе с именем автора и названием комнаты
// (владелец видит их в списке нерассмотренных)
type ProposalListItem struct {
	ID           string          `json:"id"`
	RoomID       string          `json:"room_id"`
	ProposerID   string          `json:"proposer_id"`
	ProposerName string          `json:"proposer_name"`
	RoomName     string          `json:"room_name"`
	Question     string          `json:"question"`
	Type         models.PollType `json:"type"`
	Options      datatypes.JSON  `json:"options"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.PollProposal) error
	FindByID(db *gorm.DB, id string) (*models.PollProposal, error)
	FindPendingByRoom(db *gorm.DB, roomID string) ([]ProposalListItem, error)

	// MarkReviewed переводит pending-предложение в терминальный статус.
	// Возвращает число затронутых строк: 0 означает, что предложение
	// уже было рассмотрено (или не существует).
	MarkReviewed(db *gorm.DB, id string, status models.ProposalStatus, reviewedAt time.Time) (int64, error)
}

type ProposalRepositoryImpl struct{}

func NewProposalRepository() ProposalRepository {
	return &ProposalRepositoryImpl{}
}

func (r *ProposalRepositoryImpl) Create(db *gorm.DB, proposal *models.PollProposal) error {
	return db.Create(proposal).Error
}

func (r *ProposalRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.PollProposal, error) {
	var proposal models.PollProposal
	err := db.First(&proposal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) FindPendingByRoom(db *gorm.DB, roomID string) ([]ProposalListItem, error) {
	var items []ProposalListItem
	err := db.Model(&models.PollProposal{}).
		Select("poll_proposals.id, poll_proposals.room_id, poll_proposals.proposer_id, "+
			"users.username AS proposer_name, rooms.name AS room_name, "+
			"poll_proposals.question, poll_proposals.type, poll_proposals.options, "+
			"poll_proposals.status, poll_proposals.created_at").
		Joins("JOIN users ON users.id = poll_proposals.proposer_id").
		Joins("JOIN rooms ON rooms.id = poll_proposals.room_id").
		Where("poll_proposals.room_id = ? AND poll_proposals.status = ?", roomID, models.ProposalStatusPending).
		Order("poll_proposals.created_at DESC").
		Scan(&items).Error
	return items, err
}

func (r *ProposalRepositoryImpl) MarkReviewed(db *gorm.DB, id string, status models.ProposalStatus, reviewedAt time.Time) (int64, error) {
	result := db.Model(&models.PollProposal{}).
		Where("id = ? AND status = ?", id, models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": reviewedAt,
		})
	return result.RowsAffected, result.Error
}
