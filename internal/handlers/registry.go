package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	RoomHandler         *RoomHandler
	PollHandler         *PollHandler
	ProposalHandler     *ProposalHandler
	NotificationHandler *NotificationHandler
}
