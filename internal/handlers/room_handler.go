package handlers

import (
	"net/http"

	"roomvote_backend/internal/middleware"
	"roomvote_backend/internal/services"
	"roomvote_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	*BaseHandler
	roomService services.RoomService
}

func NewRoomHandler(base *BaseHandler, roomService services.RoomService) *RoomHandler {
	return &RoomHandler{
		BaseHandler: base,
		roomService: roomService,
	}
}

func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	rooms.Use(middleware.AuthMiddleware())
	{
		rooms.POST("", h.CreateRoom)
		rooms.POST("/join", h.JoinRoom)
		rooms.GET("", h.GetMyRooms)
		rooms.GET("/:roomId", h.GetRoom)
	}
}

// CreateRoom - создание комнаты
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.roomService.CreateRoom(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// JoinRoom - вход по коду приглашения
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.JoinRoomRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.roomService.JoinRoom(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyRooms - комнаты текущего пользователя
func (h *RoomHandler) GetMyRooms(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.roomService.GetUserRooms(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRoom - комната по ID
func (h *RoomHandler) GetRoom(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.roomService.GetRoom(h.GetDB(c), c.Param("roomId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
