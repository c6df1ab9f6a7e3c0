package handlers

import (
	"net/http"

	"roomvote_backend/internal/middleware"
	"roomvote_backend/internal/services"
	"roomvote_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	rooms.Use(middleware.AuthMiddleware())
	{
		rooms.POST("/:roomId/proposals", h.Propose)
		rooms.GET("/:roomId/proposals", h.GetPendingProposals)
	}

	proposals := r.Group("/proposals")
	proposals.Use(middleware.AuthMiddleware())
	{
		proposals.POST("/:proposalId/approve", h.Approve)
		proposals.POST("/:proposalId/reject", h.Reject)
	}
}

// Propose - участник предлагает опрос
func (h *ProposalHandler) Propose(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.proposalService.Propose(h.GetDB(c), userID, c.Param("roomId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPendingProposals - нерассмотренные предложения комнаты
func (h *ProposalHandler) GetPendingProposals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.GetPendingProposals(h.GetDB(c), c.Param("roomId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Approve - одобрение предложения, создается опрос
func (h *ProposalHandler) Approve(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.Approve(h.GetDB(c), c.Param("proposalId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Reject - отклонение предложения
func (h *ProposalHandler) Reject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.Reject(h.GetDB(c), c.Param("proposalId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
