package dto

import "time"

// NotificationResponse - уведомление в ленте пользователя
type NotificationResponse struct {
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

// NotificationListResponse - лента уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
