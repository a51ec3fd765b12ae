package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/cache"
	"pos-service/internal/models"
	"pos-service/internal/realtime"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrOrderImmutable     = errors.New("order can no longer be modified")
)

// OrderRepository is the slice of the backing store the order service needs.
type OrderRepository interface {
	Create(order *models.Order) error
	Update(order *models.Order) error
	UpdateStatus(orderID uint, status string) error
	UpdateItemPreparedCount(itemID uint, preparedCount int) error
	Delete(orderID uint) error
	GetByID(orderID uint) (*models.Order, error)
	GetAll() ([]models.Order, error)
	GetItemByID(itemID uint) (*models.OrderItem, error)
}

// ProductReader resolves catalog entries when an order is placed.
type ProductReader interface {
	GetByIDs(productIDs []uint) ([]models.Product, error)
}

// OrderService validates and persists order mutations, then hands them to
// the notifier for fan-out. The status machine lives here: the notifier
// trusts that any transition it is told about has already been checked and
// stored.
type OrderService struct {
	orders    OrderRepository
	products  ProductReader
	cache     *cache.Cache
	notifier  *realtime.Notifier
	ordersTTL time.Duration
}

func NewOrderService(orders OrderRepository, products ProductReader, c *cache.Cache, notifier *realtime.Notifier, ordersTTL time.Duration) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		cache:     c,
		notifier:  notifier,
		ordersTTL: ordersTTL,
	}
}

// CreateOrder resolves the requested products, snapshots their names and
// prices into line items, computes the total and persists the order as
// pending.
func (s *OrderService) CreateOrder(req *models.CreateOrderRequest, placedBy uint) (*models.Order, error) {
	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := &models.Order{
		CustomerName: req.CustomerName,
		Note:         req.Note,
		Status:       models.OrderStatusPending,
		PlacedBy:     placedBy,
	}
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, ErrProductUnavailable)
		}
		if !product.Available {
			return nil, fmt.Errorf("product %q: %w", product.Name, ErrProductUnavailable)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		order.Total += product.Price * float64(item.Quantity)
	}

	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.notifier.NotifyOrderCreated(order)
	return order, nil
}

// ListOrders serves the order board through the cache layer.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.OrderResponse, error) {
	value, err := s.cache.GetOrCompute(ctx, cache.KeyOrders, s.ordersTTL, func(ctx context.Context) (interface{}, error) {
		orders, err := s.orders.GetAll()
		if err != nil {
			return nil, err
		}
		responses := make([]models.OrderResponse, 0, len(orders))
		for i := range orders {
			responses = append(responses, orders[i].ToResponse())
		}
		return responses, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.OrderResponse), nil
}

func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrder changes the customer name and/or note of an order that has not
// yet reached a terminal status.
func (s *OrderService) UpdateOrder(orderID uint, req *models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return nil, ErrOrderImmutable
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.Note != nil {
		order.Note = *req.Note
	}
	if err := s.orders.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.notifier.NotifyOrderUpdated(order)
	return order, nil
}

// ChangeStatus moves an order along pending → preparing → ready → delivered
// (cancelled is reachable from pending or preparing). Illegal transitions
// are rejected before anything is persisted or broadcast.
func (s *OrderService) ChangeStatus(orderID uint, status, changedBy string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if !models.CanTransitionOrderStatus(order.Status, status) {
		return nil, &models.ErrInvalidStatusTransition{From: order.Status, To: status}
	}

	if err := s.orders.UpdateStatus(orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status

	s.notifier.NotifyOrderStatusChanged(orderID, status, changedBy)
	return order, nil
}

// UpdateItemPreparation records how many units of a line item the kitchen
// has finished. The count is clamped to [0, quantity].
func (s *OrderService) UpdateItemPreparation(orderID, itemID uint, preparedCount int) (*models.OrderItem, error) {
	item, err := s.orders.GetItemByID(itemID)
	if err != nil || item.OrderID != orderID {
		return nil, ErrOrderItemNotFound
	}

	if preparedCount < 0 {
		preparedCount = 0
	}
	if preparedCount > item.Quantity {
		preparedCount = item.Quantity
	}

	if err := s.orders.UpdateItemPreparedCount(itemID, preparedCount); err != nil {
		return nil, fmt.Errorf("failed to update item preparation: %w", err)
	}
	item.PreparedCount = preparedCount

	s.notifier.NotifyItemPreparationUpdated(orderID, itemID, preparedCount, item.Quantity)
	return item, nil
}

func (s *OrderService) DeleteOrder(orderID uint) error {
	if _, err := s.orders.GetByID(orderID); err != nil {
		return ErrOrderNotFound
	}
	if err := s.orders.Delete(orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.notifier.NotifyOrderDeleted(orderID)
	return nil
}
