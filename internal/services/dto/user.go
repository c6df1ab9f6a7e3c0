package dto

// UpdateNotificationsRequest - включение/отключение уведомлений в профиле
type UpdateNotificationsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ProfileResponse - профиль текущего пользователя
type ProfileResponse struct {
	UserDTO
	RoomCount int64 `json:"room_count"`
}
