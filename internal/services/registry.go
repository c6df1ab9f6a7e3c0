package services

import (
	"roomvote_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	RoomService         RoomService
	PollService         PollService
	ProposalService     ProposalService
	NotificationService NotificationService
}

// NewServiceContainer собирает репозитории и сервисы.
func NewServiceContainer() *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	roomRepo := repositories.NewRoomRepository()
	pollRepo := repositories.NewPollRepository()
	proposalRepo := repositories.NewProposalRepository()
	notificationRepo := repositories.NewNotificationRepository()

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo),
		UserService:         NewUserService(userRepo, roomRepo),
		RoomService:         NewRoomService(roomRepo),
		PollService:         NewPollService(pollRepo, roomRepo),
		ProposalService:     NewProposalService(proposalRepo, pollRepo, roomRepo, userRepo, notificationRepo),
		NotificationService: NewNotificationService(notificationRepo, roomRepo),
	}
}
