package repositories

import (
	"errors"

	"roomvote_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("poll option not found")
)

type PollRepository interface {
	// Poll operations
	Create(db *gorm.DB, poll *models.Poll) error
	FindByID(db *gorm.DB, id string) (*models.Poll, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Poll, error)
	FindRoomPolls(db *gorm.DB, roomID string) ([]models.Poll, error)
	UpdateQuestion(db *gorm.DB, pollID, question string) error
	Delete(db *gorm.DB, pollID string) error

	// Option operations
	AddOption(db *gorm.DB, option *models.PollOption) error
	UpdateOptionText(db *gorm.DB, pollID, optionID, text string) error

	// Vote ledger operations
	FindVotes(db *gorm.DB, pollID string) ([]models.Vote, error)
	HasVoted(db *gorm.DB, pollID, userID string) (bool, error)
	CreateVotes(db *gorm.DB, votes []models.Vote) error
}

type PollRepositoryImpl struct{}

func NewPollRepository() PollRepository {
	return &PollRepositoryImpl{}
}

// Poll operations

func (r *PollRepositoryImpl) Create(db *gorm.DB, poll *models.Poll) error {
	return db.Create(poll).Error
}

func (r *PollRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Poll, error) {
	var poll models.Poll
	err := db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("poll_options.created_at ASC")
	}).First(&poll, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return &poll, nil
}

// FindByIDForUpdate берет блокировку строки опроса (SELECT ... FOR UPDATE).
// Проверка "уже голосовал" и вставка бюллетеня должны выполняться
// под этой блокировкой в одной транзакции.
func (r *PollRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Poll, error) {
	var poll models.Poll
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&poll, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	if err := db.Where("poll_id = ?", id).
		Order("created_at ASC").
		Find(&poll.Options).Error; err != nil {
		return nil, err
	}

	return &poll, nil
}

func (r *PollRepositoryImpl) FindRoomPolls(db *gorm.DB, roomID string) ([]models.Poll, error) {
	var polls []models.Poll
	err := db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("poll_options.created_at ASC")
	}).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&polls).Error
	return polls, err
}

func (r *PollRepositoryImpl) UpdateQuestion(db *gorm.DB, pollID, question string) error {
	result := db.Model(&models.Poll{}).Where("id = ?", pollID).
		Update("question", question)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPollNotFound
	}
	return nil
}

func (r *PollRepositoryImpl) Delete(db *gorm.DB, pollID string) error {
	// Опции и голоса удаляются каскадом (FK ON DELETE CASCADE)
	result := db.Where("id = ?", pollID).Delete(&models.Poll{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPollNotFound
	}
	return nil
}

// Option operations

func (r *PollRepositoryImpl) AddOption(db *gorm.DB, option *models.PollOption) error {
	return db.Create(option).Error
}

func (r *PollRepositoryImpl) UpdateOptionText(db *gorm.DB, pollID, optionID, text string) error {
	result := db.Model(&models.PollOption{}).
		Where("id = ? AND poll_id = ?", optionID, pollID).
		Update("text", text)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOptionNotFound
	}
	return nil
}

// Vote ledger operations

func (r *PollRepositoryImpl) FindVotes(db *gorm.DB, pollID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := db.Where("poll_id = ?", pollID).Find(&votes).Error
	return votes, err
}

func (r *PollRepositoryImpl) HasVoted(db *gorm.DB, pollID, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.Vote{}).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *PollRepositoryImpl) CreateVotes(db *gorm.DB, votes []models.Vote) error {
	if len(votes) == 0 {
		return nil
	}
	return db.Create(&votes).Error
}
