// internal/handlers/partner.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurehub/orders-backend/internal/services"
	"github.com/procurehub/orders-backend/internal/utils"
)

type PartnerHandler struct {
	partnerService *services.PartnerService
}

func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// GET /partner/state
func (h *PartnerHandler) GetState(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	active, err := h.partnerService.GetState(c.Request.Context(), partnerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"state": active})
}

// POST /partner/state
func (h *PartnerHandler) SetState(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		State *bool `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "state is required")
		return
	}

	if err := h.partnerService.SetState(c.Request.Context(), partnerID, *req.State); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"state": *req.State})
}

// POST /admin/partners/:id/state — admin override of any partner's gate.
func (h *PartnerHandler) SetStateForPartner(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid partner id")
		return
	}

	var req struct {
		State *bool `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "state is required")
		return
	}

	if err := h.partnerService.SetState(c.Request.Context(), partnerID, *req.State); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"state": *req.State})
}

// GET /partner/orders
func (h *PartnerHandler) GetOrders(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	lines, total, err := h.partnerService.ListPartnerOrders(c.Request.Context(), partnerID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(lines, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /partner/orders/:id
func (h *PartnerHandler) GetOrder(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order id")
		return
	}

	lines, err := h.partnerService.GetPartnerOrder(c.Request.Context(), partnerID, orderID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"order_lines": lines})
}
