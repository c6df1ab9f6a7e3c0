package services

import (
	"encoding/json"
	"time"

	"roomvote_backend/internal/models"
	"roomvote_backend/internal/repositories"
	"roomvote_backend/internal/services/dto"
	"roomvote_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Заголовки уведомлений жизненного цикла предложений
const (
	titleNewProposal      = "💡 Новое предложение в комнату"
	titleProposalApproved = "✅ Ваше предложение одобрено!"
)

type ProposalService interface {
	Propose(db *gorm.DB, userID, roomID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error)
	GetPendingProposals(db *gorm.DB, roomID, userID string) (*dto.ProposalListResponse, error)
	Approve(db *gorm.DB, proposalID, userID string) (*dto.ApproveProposalResponse, error)
	Reject(db *gorm.DB, proposalID, userID string) (*dto.ProposalResponse, error)
}

type ProposalServiceImpl struct {
	proposalRepo     repositories.ProposalRepository
	pollRepo         repositories.PollRepository
	roomRepo         repositories.RoomRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	pollRepo repositories.PollRepository,
	roomRepo repositories.RoomRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) ProposalService {
	return &ProposalServiceImpl{
		proposalRepo:     proposalRepo,
		pollRepo:         pollRepo,
		roomRepo:         roomRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// Propose - участник предлагает опрос. Владелец комнаты получает
// уведомление, если не отключил их в профиле.
func (s *ProposalServiceImpl) Propose(db *gorm.DB, userID, roomID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
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

	options := sanitizeOptionTexts(req.Options)
	if len(options) < 2 {
		return nil, apperrors.ErrInvalidOperation("proposal", "Нужно минимум два варианта ответа")
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	defer tx.Rollback()

	proposal := &models.PollProposal{
		RoomID:     roomID,
		ProposerID: userID,
		Question:   req.Question,
		Type:       models.PollType(req.Type),
		Options:    datatypes.JSON(optionsJSON),
		Status:     models.ProposalStatusPending,
	}
	if err := s.proposalRepo.Create(tx, proposal); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notifyIfEnabled(tx, room.OwnerID, userID, roomID, repositories.NotificationTypeNewProposal, titleNewProposal); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildProposalResponse(proposal)
}

// GetPendingProposals - нерассмотренные предложения, только владельцу
func (s *ProposalServiceImpl) GetPendingProposals(db *gorm.DB, roomID, userID string) (*dto.ProposalListResponse, error) {
	if err := s.requireRoomOwner(db, roomID, userID); err != nil {
		return nil, err
	}

	items, err := s.proposalRepo.FindPendingByRoom(db, roomID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	proposals := make([]dto.ProposalResponse, 0, len(items))
	for _, item := range items {
		var options []string
		if err := json.Unmarshal(item.Options, &options); err != nil {
			return nil, apperrors.InternalError(err)
		}
		proposals = append(proposals, dto.ProposalResponse{
			ID:           item.ID,
			RoomID:       item.RoomID,
			RoomName:     item.RoomName,
			ProposerID:   item.ProposerID,
			ProposerName: item.ProposerName,
			Question:     item.Question,
			Type:         item.Type,
			Options:      options,
			Status:       models.ProposalStatus(item.Status),
			CreatedAt:    item.CreatedAt,
		})
	}

	return &dto.ProposalListResponse{Proposals: proposals, Total: len(proposals)}, nil
}

// Approve переводит предложение в approved и создает из него опрос.
// Статус меняется условным UPDATE: повторное одобрение или одобрение
// после отклонения не проходит.
func (s *ProposalServiceImpl) Approve(db *gorm.DB, proposalID, userID string) (*dto.ApproveProposalResponse, error) {
	proposal, err := s.findProposalForOwner(db, proposalID, userID)
	if err != nil {
		return nil, err
	}

	var options []string
	if err := json.Unmarshal(proposal.Options, &options); err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()

	tx := db.Begin()
	defer tx.Rollback()

	affected, err := s.proposalRepo.MarkReviewed(tx, proposalID, models.ProposalStatusApproved, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if affected == 0 {
		return nil, apperrors.ErrProposalReviewed
	}

	poll := &models.Poll{
		RoomID:     proposal.RoomID,
		Question:   proposal.Question,
		Type:       proposal.Type,
		CreatedBy:  userID,
		ProposalID: &proposal.ID,
	}
	for _, text := range options {
		poll.Options = append(poll.Options, models.PollOption{Text: text})
	}
	if err := s.pollRepo.Create(tx, poll); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notifyIfEnabled(tx, proposal.ProposerID, userID, proposal.RoomID, repositories.NotificationTypeApproved, titleProposalApproved); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	proposal.Status = models.ProposalStatusApproved
	proposal.ReviewedAt = &now

	proposalResp, err := buildProposalResponse(proposal)
	if err != nil {
		return nil, err
	}

	pollResp := dto.NewPollResponse(poll)
	pollResp.IsOwner = true
	attachOptionAggregates(poll, nil, &pollResp)
	return &dto.ApproveProposalResponse{
		Proposal: *proposalResp,
		Poll:     pollResp,
	}, nil
}

// Reject переводит предложение в rejected. Опрос не создается,
// уведомление не отправляется.
func (s *ProposalServiceImpl) Reject(db *gorm.DB, proposalID, userID string) (*dto.ProposalResponse, error) {
	proposal, err := s.findProposalForOwner(db, proposalID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	affected, err := s.proposalRepo.MarkReviewed(db, proposalID, models.ProposalStatusRejected, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if affected == 0 {
		return nil, apperrors.ErrProposalReviewed
	}

	proposal.Status = models.ProposalStatusRejected
	proposal.ReviewedAt = &now
	return buildProposalResponse(proposal)
}

// notifyIfEnabled создает уведомление, если получатель не совпадает с
// инициатором и не отключил уведомления.
func (s *ProposalServiceImpl) notifyIfEnabled(db *gorm.DB, targetID, actorID, roomID, notifType, title string) error {
	if targetID == actorID {
		return nil
	}

	target, err := s.userRepo.FindByID(db, targetID)
	if err != nil {
		return err
	}
	if !target.NotificationsEnabled {
		return nil
	}

	return s.notificationRepo.Create(db, &models.Notification{
		RoomID:       roomID,
		TargetUserID: targetID,
		ActorID:      actorID,
		Type:         notifType,
		Title:        title,
	})
}

func (s *ProposalServiceImpl) findProposalForOwner(db *gorm.DB, proposalID, userID string) (*models.PollProposal, error) {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProposalNotFound) {
			return nil, apperrors.ErrProposalNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.requireRoomOwner(db, proposal.RoomID, userID); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *ProposalServiceImpl) requireRoomOwner(db *gorm.DB, roomID, userID string) error {
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

func buildProposalResponse(proposal *models.PollProposal) (*dto.ProposalResponse, error) {
	var options []string
	if err := json.Unmarshal(proposal.Options, &options); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ProposalResponse{
		ID:         proposal.ID,
		RoomID:     proposal.RoomID,
		ProposerID: proposal.ProposerID,
		Question:   proposal.Question,
		Type:       proposal.Type,
		Options:    options,
		Status:     proposal.Status,
		ReviewedAt: proposal.ReviewedAt,
		CreatedAt:  proposal.CreatedAt,
	}, nil
}
