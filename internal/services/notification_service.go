package services

import (
	"time"

	"roomvote_backend/internal/repositories"
	"roomvote_backend/internal/services/dto"
	"roomvote_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	GetUserNotifications(db *gorm.DB, userID, roomID string) (*dto.NotificationListResponse, error)
	MarkAsRead(db *gorm.DB, notificationID, userID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	roomRepo         repositories.RoomRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, roomRepo repositories.RoomRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo, roomRepo: roomRepo}
}

// GetUserNotifications - последние уведомления пользователя. Непустой
// roomID сужает ленту до одной комнаты и требует членства в ней.
func (s *NotificationServiceImpl) GetUserNotifications(db *gorm.DB, userID, roomID string) (*dto.NotificationListResponse, error) {
	if roomID != "" {
		isMember, err := s.roomRepo.IsMember(db, roomID, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if !isMember {
			return nil, apperrors.ErrNotRoomMember
		}
	}

	items, err := s.notificationRepo.FindUserNotifications(db, userID, roomID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	notifications := make([]dto.NotificationResponse, 0, len(items))
	for _, item := range items {
		notifications = append(notifications, dto.NotificationResponse{
			ID:        item.ID,
			RoomID:    item.RoomID,
			RoomName:  item.RoomName,
			ActorID:   item.ActorID,
			ActorName: item.ActorName,
			Type:      item.Type,
			Title:     item.Title,
			IsRead:    item.IsRead,
			ReadAt:    item.ReadAt,
			CreatedAt: item.CreatedAt,
		})
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkAsRead помечает уведомление прочитанным. Чужие уведомления
// недоступны.
func (s *NotificationServiceImpl) MarkAsRead(db *gorm.DB, notificationID, userID string) error {
	notification, err := s.notificationRepo.FindByID(db, notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if notification.TargetUserID != userID {
		return apperrors.NewForbiddenError("Нет прав")
	}
	if notification.IsRead {
		return nil
	}

	if err := s.notificationRepo.MarkAsRead(db, notificationID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// MarkAllAsRead помечает все непрочитанные уведомления пользователя
func (s *NotificationServiceImpl) MarkAllAsRead(db *gorm.DB, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(db, userID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
