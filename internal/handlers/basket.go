// internal/handlers/basket.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/procurehub/orders-backend/internal/services"
	"github.com/procurehub/orders-backend/internal/utils"
)

type BasketHandler struct {
	basketService *services.BasketService
}

func NewBasketHandler(basketService *services.BasketService) *BasketHandler {
	return &BasketHandler{basketService: basketService}
}

// GET /basket
func (h *BasketHandler) GetBasket(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	basket, err := h.basketService.GetBasket(c.Request.Context(), customerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	resp := toBasketResponse(basket)
	utils.SuccessResponse(c, gin.H{"basket": resp})
}

// POST /basket and PUT /basket
func (h *BasketHandler) AddOrUpdateLine(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}

	line, err := h.basketService.AddOrUpdateLine(c.Request.Context(), customerID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"line": line})
}

// DELETE /basket
func (h *BasketHandler) RemoveLine(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.RemoveLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "line_id is required")
		return
	}

	if err := h.basketService.RemoveLine(c.Request.Context(), customerID, req.LineID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "line removed"})
}

// POST /basket/confirm
func (h *BasketHandler) Confirm(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var details services.ShippingDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.BadRequestResponse(c, "all required arguments not provided")
		return
	}

	order, err := h.basketService.Confirm(c.Request.Context(), customerID, &details)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	resp := toOrderResponse(order)
	utils.CreatedResponse(c, gin.H{
		"message": "Thank you for your order",
		"order":   resp,
	})
}
