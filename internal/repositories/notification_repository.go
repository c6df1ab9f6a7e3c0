package repositories

import (
	"errors"
	"time"

	"roomvote_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

const (
	NotificationTypeNewProposal = "new_proposal"
	NotificationTypeApproved    = "approved"
)

// Лента показывает только последние уведомления
const notificationFeedLimit = 20

// NotificationListItem - уведомление вместе с именем инициатора и
// названием комнаты для ленты пользователя
type NotificationListItem struct {
	ID        string     `json:"id"`
	RoomID    string     `json:"room_id"`
	RoomName  string     `json:"room_name"`
	ActorID   string     `json:"actor_id"`
	ActorName string     `json:"actor_name"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID, roomID string) ([]NotificationListItem, error)
	MarkAsRead(db *gorm.DB, id string, readAt time.Time) error
	MarkAllAsRead(db *gorm.DB, userID string, readAt time.Time) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	err := db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindUserNotifications возвращает последние уведомления пользователя,
// только по комнатам, где он все еще состоит. Непустой roomID сужает
// ленту до одной комнаты.
func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID, roomID string) ([]NotificationListItem, error) {
	query := db.Model(&models.Notification{}).
		Select("notifications.id, notifications.room_id, rooms.name AS room_name, "+
			"notifications.actor_id, users.username AS actor_name, "+
			"notifications.type, notifications.title, notifications.is_read, "+
			"notifications.read_at, notifications.created_at").
		Joins("JOIN rooms ON rooms.id = notifications.room_id").
		Joins("JOIN users ON users.id = notifications.actor_id").
		Joins("JOIN room_members rm ON rm.room_id = notifications.room_id AND rm.user_id = notifications.target_user_id").
		Where("notifications.target_user_id = ?", userID)

	if roomID != "" {
		query = query.Where("notifications.room_id = ?", roomID)
	}

	var items []NotificationListItem
	err := query.Order("notifications.created_at DESC").
		Limit(notificationFeedLimit).
		Scan(&items).Error
	return items, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, id string, readAt time.Time) error {
	result := db.Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string, readAt time.Time) error {
	return db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
