package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pos-service/internal/models"
	"pos-service/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder godoc
// @Summary Place a new order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body models.CreateOrderRequest true "Order to place"
// @Success 201 {object} models.OrderResponse
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placedBy := c.GetUint("user_id")
	order, err := h.orders.CreateOrder(&req, placedBy)
	if err != nil {
		if errors.Is(err, services.ErrProductUnavailable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order.ToResponse())
}

// ListOrders godoc
// @Summary List all orders, newest first
// @Tags orders
// @Produce json
// @Success 200 {array} models.OrderResponse
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get one order by id
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.OrderResponse
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

// UpdateOrder godoc
// @Summary Update an order's customer name or note
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body models.UpdateOrderRequest true "Fields to update"
// @Success 200 {object} models.OrderResponse
// @Security BearerAuth
// @Router /orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateOrder(orderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, services.ErrOrderImmutable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		}
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

// UpdateOrderStatus godoc
// @Summary Transition an order to a new status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body models.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} models.OrderResponse
// @Failure 409 {object} map[string]interface{} "Illegal status transition"
// @Security BearerAuth
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changedBy := strconv.FormatUint(uint64(c.GetUint("user_id")), 10)
	order, err := h.orders.ChangeStatus(orderID, req.Status, changedBy)
	if err != nil {
		var transitionErr *models.ErrInvalidStatusTransition
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.As(err, &transitionErr):
			c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

// UpdateItemPreparation godoc
// @Summary Record kitchen progress on one order line
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param itemId path int true "Order item ID"
// @Param preparation body models.UpdateItemPreparationRequest true "Units prepared"
// @Success 200 {object} models.OrderItemResponse
// @Security BearerAuth
// @Router /orders/{id}/items/{itemId}/preparation [put]
func (h *OrderHandler) UpdateItemPreparation(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req models.UpdateItemPreparationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.orders.UpdateItemPreparation(orderID, itemID, req.PreparedCount)
	if err != nil {
		if errors.Is(err, services.ErrOrderItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update item preparation"})
		return
	}
	c.JSON(http.StatusOK, models.OrderItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		Name:          item.Name,
		UnitPrice:     item.UnitPrice,
		Quantity:      item.Quantity,
		PreparedCount: item.PreparedCount,
	})
}

// DeleteOrder godoc
// @Summary Delete an order
// @Tags orders
// @Param id path int true "Order ID"
// @Success 204
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a numeric path parameter, answering 400 itself on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}
