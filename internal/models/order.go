package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Order lifecycle statuses. The happy path is pending -> preparing -> ready
// -> delivered; cancellation is only possible before the food is done.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// statusTransitions lists the statuses reachable from each status. Terminal
// statuses have no entries.
var statusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered},
}

// IsValidOrderStatus reports whether s names a known order status.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ErrInvalidStatusTransition is returned when a requested status change is
// not permitted by the lifecycle.
type ErrInvalidStatusTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStatusTransition) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

// Order is one customer order with its line items.
type Order struct {
	gorm.Model
	CustomerName string      `gorm:"size:255" json:"customerName"`
	Note         string      `gorm:"size:1024" json:"note"`
	Status       string      `gorm:"size:32;not null;check:status IN ('pending','preparing','ready','delivered','cancelled')" json:"status"`
	Total        float64     `gorm:"not null" json:"total"`
	PlacedBy     uint        `json:"placedBy"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem is one line of an order. Name and UnitPrice are snapshots taken
// when the order was placed; later catalog edits do not rewrite history.
type OrderItem struct {
	gorm.Model
	OrderID       uint    `gorm:"index;not null" json:"orderId"`
	ProductID     uint    `gorm:"not null" json:"productId"`
	Name          string  `gorm:"size:255;not null" json:"name"`
	UnitPrice     float64 `gorm:"not null" json:"unitPrice"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	PreparedCount int     `gorm:"not null;default:0" json:"preparedCount"`
}

type CreateOrderItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerName string                   `json:"customerName"`
	Note         string                   `json:"note"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	CustomerName *string `json:"customerName"`
	Note         *string `json:"note"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateItemPreparationRequest struct {
	PreparedCount int `json:"preparedCount" binding:"min=0"`
}

type OrderItemResponse struct {
	ID            uint    `json:"id"`
	ProductID     uint    `json:"productId"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unitPrice"`
	Quantity      int     `json:"quantity"`
	PreparedCount int     `json:"preparedCount"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	CustomerName string              `json:"customerName"`
	Note         string              `json:"note,omitempty"`
	Status       string              `json:"status"`
	Total        float64             `json:"total"`
	PlacedBy     uint                `json:"placedBy"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func (o *Order) ToResponse() OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Name:          item.Name,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			PreparedCount: item.PreparedCount,
		})
	}
	return OrderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Note:         o.Note,
		Status:       o.Status,
		Total:        o.Total,
		PlacedBy:     o.PlacedBy,
		Items:        items,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
