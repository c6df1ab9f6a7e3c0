package handlers

import (
	"net/http"

	"roomvote_backend/internal/middleware"
	"roomvote_backend/internal/services"
	"roomvote_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	*BaseHandler
	pollService services.PollService
}

func NewPollHandler(base *BaseHandler, pollService services.PollService) *PollHandler {
	return &PollHandler{
		BaseHandler: base,
		pollService: pollService,
	}
}

func (h *PollHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	rooms.Use(middleware.AuthMiddleware())
	{
		rooms.POST("/:roomId/polls", h.CreatePoll)
		rooms.GET("/:roomId/polls", h.GetRoomPolls)
	}

	polls := r.Group("/polls")
	polls.Use(middleware.AuthMiddleware())
	{
		polls.GET("/:pollId", h.GetPoll)
		polls.PATCH("/:pollId", h.UpdatePoll)
		polls.DELETE("/:pollId", h.DeletePoll)
		polls.POST("/:pollId/options", h.AddOption)
		polls.PUT("/:pollId/options/:optionId", h.UpdateOption)
		polls.POST("/:pollId/vote", h.CastVote)
		polls.GET("/:pollId/results", h.GetResults)
	}
}

// CreatePoll - создание опроса владельцем комнаты
func (h *PollHandler) CreatePoll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePollRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.pollService.CreatePoll(h.GetDB(c), userID, c.Param("roomId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetRoomPolls - опросы комнаты
func (h *PollHandler) GetRoomPolls(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.pollService.GetRoomPolls(h.GetDB(c), c.Param("roomId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPoll - опрос с вариантами
func (h *PollHandler) GetPoll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.pollService.GetPoll(h.GetDB(c), c.Param("pollId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdatePoll - правка вопроса и вариантов
func (h *PollHandler) UpdatePoll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePollRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.pollService.UpdatePoll(h.GetDB(c), c.Param("pollId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeletePoll - удаление опроса
func (h *PollHandler) DeletePoll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.pollService.DeletePoll(h.GetDB(c), c.Param("pollId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Голосование удалено"})
}

// AddOption - добавление варианта
func (h *PollHandler) AddOption(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddOptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.pollService.AddOption(h.GetDB(c), c.Param("pollId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateOption - изменение текста варианта
func (h *PollHandler) UpdateOption(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.pollService.UpdateOption(h.GetDB(c), c.Param("pollId"), c.Param("optionId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CastVote - подача бюллетеня
func (h *PollHandler) CastVote(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CastVoteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.pollService.CastVote(h.GetDB(c), c.Param("pollId"), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Голос учтен"})
}

// GetResults - итоги опроса
func (h *PollHandler) GetResults(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.pollService.GetResults(h.GetDB(c), c.Param("pollId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
