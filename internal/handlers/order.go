// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procurehub/orders-backend/internal/services"
	"github.com/procurehub/orders-backend/internal/utils"
)

type OrderHandler struct {
	basketService *services.BasketService
}

func NewOrderHandler(basketService *services.BasketService) *OrderHandler {
	return &OrderHandler{basketService: basketService}
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	orders, total, err := h.basketService.ListConfirmedOrders(c.Request.Context(), customerID, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(toOrderResponses(orders), total, params)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order id")
		return
	}

	order, err := h.basketService.GetConfirmedOrder(c.Request.Context(), customerID, orderID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	resp := toOrderResponse(order)
	utils.SuccessResponse(c, gin.H{"order": resp})
}
