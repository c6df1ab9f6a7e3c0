package services

import (
	"strings"

	"roomvote_backend/internal/models"
	"roomvote_backend/internal/repositories"
	"roomvote_backend/internal/services/dto"
	"roomvote_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PollService interface {
	CreatePoll(db *gorm.DB, userID, roomID string, req *dto.CreatePollRequest) (*dto.PollResponse, error)
	GetRoomPolls(db *gorm.DB, roomID, userID string) (*dto.PollListResponse, error)
	GetPoll(db *gorm.DB, pollID, userID string) (*dto.PollResponse, error)
	UpdatePoll(db *gorm.DB, pollID, userID string, req *dto.UpdatePollRequest) (*dto.PollResponse, error)
	DeletePoll(db *gorm.DB, pollID, userID string) error
	AddOption(db *gorm.DB, pollID, userID string, req *dto.AddOptionRequest) (*dto.PollResponse, error)
	UpdateOption(db *gorm.DB, pollID, optionID, userID string, req *dto.UpdateOptionRequest) (*dto.PollResponse, error)
	CastVote(db *gorm.DB, pollID, userID string, req *dto.CastVoteRequest) error
	GetResults(db *gorm.DB, pollID, userID string) (*dto.PollResultsResponse, error)
}

type PollServiceImpl struct {
	pollRepo repositories.PollRepository
	roomRepo repositories.RoomRepository
}

func NewPollService(pollRepo repositories.PollRepository, roomRepo repositories.RoomRepository) PollService {
	return &PollServiceImpl{pollRepo: pollRepo, roomRepo: roomRepo}
}

// CreatePoll - создание опроса владельцем комнаты
func (s *PollServiceImpl) CreatePoll(db *gorm.DB, userID, roomID string, req *dto.CreatePollRequest) (*dto.PollResponse, error) {
	if err := s.requireOwner(db, roomID, userID); err != nil {
		return nil, err
	}

	options := sanitizeOptionTexts(req.Options)
	if err := validateOptionCount(models.PollType(req.Type), len(options)); err != nil {
		return nil, err
	}

	poll := &models.Poll{
		RoomID:    roomID,
		Question:  req.Question,
		Type:      models.PollType(req.Type),
		CreatedBy: userID,
	}
	for _, text := range options {
		poll.Options = append(poll.Options, models.PollOption{Text: text})
	}

	if err := s.pollRepo.Create(db, poll); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewPollResponse(poll)
	resp.IsOwner = true
	attachOptionAggregates(poll, nil, &resp)
	return &resp, nil
}

// GetRoomPolls - опросы комнаты для участника, с признаком "уже голосовал"
func (s *PollServiceImpl) GetRoomPolls(db *gorm.DB, roomID, userID string) (*dto.PollListResponse, error) {
	room, err := s.roomRepo.FindByID(db, roomID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRoomNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.requireMember(db, roomID, userID); err != nil {
		return nil, err
	}

	polls, err := s.pollRepo.FindRoomPolls(db, roomID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.PollResponse, 0, len(polls))
	for i := range polls {
		item := dto.NewPollResponse(&polls[i])
		item.IsOwner = room.OwnerID == userID

		votes, err := s.pollRepo.FindVotes(db, polls[i].ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		attachOptionAggregates(&polls[i], votes, &item)

		voted, err := s.pollRepo.HasVoted(db, polls[i].ID, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		item.HasVoted = voted
		items = append(items, item)
	}

	return &dto.PollListResponse{Polls: items, Total: len(items)}, nil
}

// GetPoll - один опрос, только для участников комнаты
func (s *PollServiceImpl) GetPoll(db *gorm.DB, pollID, userID string) (*dto.PollResponse, error) {
	poll, err := s.findPollForMember(db, pollID, userID)
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.FindByID(db, poll.RoomID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewPollResponse(poll)
	resp.IsOwner = room.OwnerID == userID

	votes, err := s.pollRepo.FindVotes(db, pollID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	attachOptionAggregates(poll, votes, &resp)

	voted, err := s.pollRepo.HasVoted(db, pollID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.HasVoted = voted
	return &resp, nil
}

// UpdatePoll правит вопрос и варианты одним запросом. Варианты с id
// переименовываются на месте, без id - добавляются. Не упомянутые
// варианты и поданные голоса остаются как есть: правка никогда не
// удаляет историю.
func (s *PollServiceImpl) UpdatePoll(db *gorm.DB, pollID, userID string, req *dto.UpdatePollRequest) (*dto.PollResponse, error) {
	poll, err := s.findPollForOwner(db, pollID, userID)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	defer tx.Rollback()

	if question := strings.TrimSpace(req.Question); question != "" {
		if err := s.pollRepo.UpdateQuestion(tx, poll.ID, question); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	for _, opt := range req.Options {
		text := strings.TrimSpace(opt.Text)
		if text == "" {
			continue
		}
		if opt.ID == "" {
			option := &models.PollOption{PollID: poll.ID, Text: text}
			if err := s.pollRepo.AddOption(tx, option); err != nil {
				return nil, apperrors.InternalError(err)
			}
			continue
		}
		if err := s.pollRepo.UpdateOptionText(tx, poll.ID, opt.ID, text); err != nil {
			if apperrors.Is(err, repositories.ErrOptionNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.GetPoll(db, pollID, userID)
}

// DeletePoll удаляет опрос вместе с вариантами и голосами.
func (s *PollServiceImpl) DeletePoll(db *gorm.DB, pollID, userID string) error {
	poll, err := s.findPollForOwner(db, pollID, userID)
	if err != nil {
		return err
	}

	if err := s.pollRepo.Delete(db, poll.ID); err != nil {
		if apperrors.Is(err, repositories.ErrPollNotFound) {
			return apperrors.ErrPollNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// AddOption добавляет вариант в существующий опрос.
func (s *PollServiceImpl) AddOption(db *gorm.DB, pollID, userID string, req *dto.AddOptionRequest) (*dto.PollResponse, error) {
	poll, err := s.findPollForOwner(db, pollID, userID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperrors.ErrInvalidOperation("poll", "Текст варианта не может быть пустым")
	}

	option := &models.PollOption{PollID: poll.ID, Text: text}
	if err := s.pollRepo.AddOption(db, option); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.GetPoll(db, pollID, userID)
}

// UpdateOption меняет текст варианта. Поданные за него голоса сохраняются.
func (s *PollServiceImpl) UpdateOption(db *gorm.DB, pollID, optionID, userID string, req *dto.UpdateOptionRequest) (*dto.PollResponse, error) {
	poll, err := s.findPollForOwner(db, pollID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.pollRepo.UpdateOptionText(db, poll.ID, optionID, req.Text); err != nil {
		if apperrors.Is(err, repositories.ErrOptionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return s.GetPoll(db, pollID, userID)
}

// CastVote принимает бюллетень. Один пользователь голосует в опросе
// ровно один раз независимо от типа. Проверка и вставка идут в одной
// транзакции под блокировкой строки опроса, поэтому два одновременных
// бюллетеня одного пользователя не проходят оба.
func (s *PollServiceImpl) CastVote(db *gorm.DB, pollID, userID string, req *dto.CastVoteRequest) error {
	tx := db.Begin()
	defer tx.Rollback()

	poll, err := s.pollRepo.FindByIDForUpdate(tx, pollID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPollNotFound) {
			return apperrors.ErrPollNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := s.requireMember(tx, poll.RoomID, userID); err != nil {
		return err
	}

	voted, err := s.pollRepo.HasVoted(tx, pollID, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if voted {
		return apperrors.ErrAlreadyVoted
	}

	votes, err := buildBallot(poll, userID, req)
	if err != nil {
		return err
	}

	if err := s.pollRepo.CreateVotes(tx, votes); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// GetResults - итоги опроса для участника комнаты
func (s *PollServiceImpl) GetResults(db *gorm.DB, pollID, userID string) (*dto.PollResultsResponse, error) {
	poll, err := s.findPollForMember(db, pollID, userID)
	if err != nil {
		return nil, err
	}

	votes, err := s.pollRepo.FindVotes(db, pollID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.PollResultsResponse{
		PollID:      poll.ID,
		Question:    poll.Question,
		Type:        poll.Type,
		TotalVoters: countDistinctVoters(votes),
	}

	switch poll.Type {
	case models.PollTypeRatedOptions:
		resp.Ratings = buildRatingResults(poll.Options, votes)
	default:
		resp.Counts = buildCountResults(poll.Options, votes)
	}
	return resp, nil
}

// buildBallot проверяет бюллетень против типа опроса и раскладывает его
// в строки голосов. Заполнено должно быть ровно одно поле запроса.
func buildBallot(poll *models.Poll, userID string, req *dto.CastVoteRequest) ([]models.Vote, error) {
	optionSet := make(map[string]struct{}, len(poll.Options))
	for _, opt := range poll.Options {
		optionSet[opt.ID] = struct{}{}
	}

	switch poll.Type {
	case models.PollTypeSingle:
		if req.OptionID == "" || len(req.OptionIDs) > 0 || len(req.Ratings) > 0 {
			return nil, apperrors.ErrInvalidBallot
		}
		if _, ok := optionSet[req.OptionID]; !ok {
			return nil, apperrors.ErrInvalidBallot
		}
		return []models.Vote{{PollID: poll.ID, UserID: userID, OptionID: req.OptionID}}, nil

	case models.PollTypeMultiple:
		if len(req.OptionIDs) == 0 || req.OptionID != "" || len(req.Ratings) > 0 {
			return nil, apperrors.ErrInvalidBallot
		}
		seen := make(map[string]struct{}, len(req.OptionIDs))
		votes := make([]models.Vote, 0, len(req.OptionIDs))
		for _, optionID := range req.OptionIDs {
			if _, ok := optionSet[optionID]; !ok {
				return nil, apperrors.ErrInvalidBallot
			}
			if _, dup := seen[optionID]; dup {
				return nil, apperrors.ErrInvalidBallot
			}
			seen[optionID] = struct{}{}
			votes = append(votes, models.Vote{PollID: poll.ID, UserID: userID, OptionID: optionID})
		}
		return votes, nil

	case models.PollTypeRatedOptions:
		if len(req.Ratings) == 0 || req.OptionID != "" || len(req.OptionIDs) > 0 {
			return nil, apperrors.ErrInvalidBallot
		}
		votes := make([]models.Vote, 0, len(req.Ratings))
		for optionID, rating := range req.Ratings {
			if _, ok := optionSet[optionID]; !ok {
				return nil, apperrors.ErrInvalidBallot
			}
			if rating < 1 || rating > 5 {
				return nil, apperrors.ErrInvalidBallot
			}
			r := rating
			votes = append(votes, models.Vote{PollID: poll.ID, UserID: userID, OptionID: optionID, Rating: &r})
		}
		return votes, nil
	}

	return nil, apperrors.ErrInvalidBallot
}

// sanitizeOptionTexts обрезает пробелы и молча выбрасывает пустые
// варианты.
func sanitizeOptionTexts(texts []string) []string {
	options := make([]string, 0, len(texts))
	for _, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		options = append(options, trimmed)
	}
	return options
}

// validateOptionCount проверяет число вариантов против типа опроса.
// single и multiple взаимоисключающие, им нужно минимум два варианта;
// rated_options оценивает каждый вариант отдельно, достаточно одного.
func validateOptionCount(pollType models.PollType, count int) error {
	if count == 0 {
		return apperrors.ErrInvalidOperation("poll", "Нужен хотя бы один вариант ответа")
	}
	if count < 2 && pollType != models.PollTypeRatedOptions {
		return apperrors.ErrInvalidOperation("poll", "Нужно минимум два варианта ответа")
	}
	return nil
}

// findPollForMember возвращает опрос, если пользователь состоит в его комнате.
func (s *PollServiceImpl) findPollForMember(db *gorm.DB, pollID, userID string) (*models.Poll, error) {
	poll, err := s.pollRepo.FindByID(db, pollID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPollNotFound) {
			return nil, apperrors.ErrPollNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.requireMember(db, poll.RoomID, userID); err != nil {
		return nil, err
	}
	return poll, nil
}

// findPollForOwner возвращает опрос, если пользователь владеет его комнатой.
func (s *PollServiceImpl) findPollForOwner(db *gorm.DB, pollID, userID string) (*models.Poll, error) {
	poll, err := s.pollRepo.FindByID(db, pollID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPollNotFound) {
			return nil, apperrors.ErrPollNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.requireOwner(db, poll.RoomID, userID); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *PollServiceImpl) requireMember(db *gorm.DB, roomID, userID string) error {
	isMember, err := s.roomRepo.IsMember(db, roomID, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !isMember {
		return apperrors.ErrNotRoomMember
	}
	return nil
}

func (s *PollServiceImpl) requireOwner(db *gorm.DB, roomID, userID string) error {
	room, err := s.roomRepo.FindByID(db, roomID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRoomNotFound) {
			return apperrors.ErrRoomNotFound
		}
		return apperrors.InternalError(err)
	}
	if room.OwnerID != userID {
		return apperrors.ErrNotRoomOwner
	}
	return nil
}
