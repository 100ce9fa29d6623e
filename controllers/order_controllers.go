package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// CreateOrder -> POST /orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	waiterID := currentUserID(c)
	if waiterID == nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), *waiterID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> GET /orders?status=&page=&limit=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	offset, limit := utils.Pagination(c, 20)

	var status *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := models.OrderStatus(raw)
		status = &s
	}

	orders, total, err := oc.Orders.ListOrders(c.Request.Context(), status, offset, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"orders": orders,
		"total":  total,
	})
}

// GetOrderByID -> GET /orders/:order_id
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> PATCH /orders/:order_id/status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), orderID, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> DELETE /orders/:order_id
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, ok := paramUint(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Orders.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
