package realtime

import (
	"log/slog"

	"pos-service/internal/cache"
	"pos-service/internal/models"
)

// EventSink receives a copy of every emitted domain event, e.g. for an audit
// stream. Publish failures are logged by the notifier and never propagated.
type EventSink interface {
	Publish(event EventName, data interface{}) error
}

// Notifier is the only component that knows which wire event and which cache
// keys belong to each domain mutation. For every mutation it invalidates the
// associated keys first, then broadcasts to all connections. It is a pure
// fan-out layer: callers are expected to have validated and persisted the
// mutation before notifying, and none of the Notify methods return an error.
//
// Every domain event is broadcast globally. Room scoping exists at the hub
// level but is deliberately unused here: all roles watch all updates for the
// notification badges, so a status change reaches the counter screen as well
// as the kitchen.
type Notifier struct {
	hub    *Hub
	cache  *cache.Cache
	sink   EventSink
	logger *slog.Logger
}

// NewNotifier wires the notifier to its collaborators. sink may be nil.
func NewNotifier(hub *Hub, c *cache.Cache, sink EventSink, logger *slog.Logger) *Notifier {
	return &Notifier{
		hub:    hub,
		cache:  c,
		sink:   sink,
		logger: logger,
	}
}

func (n *Notifier) NotifyOrderCreated(order *models.Order) {
	n.emit(EventOrderPlaced, OrderPlacedData{Order: order.ToResponse()}, cache.KeyOrders)
}

func (n *Notifier) NotifyOrderUpdated(order *models.Order) {
	n.emit(EventOrderUpdated, OrderUpdatedData{Order: order.ToResponse()}, cache.KeyOrders)
}

func (n *Notifier) NotifyOrderStatusChanged(orderID uint, status, changedBy string) {
	n.emit(EventOrderStatusUpdated, OrderStatusUpdatedData{
		OrderID:   orderID,
		Status:    status,
		ChangedBy: changedBy,
	}, cache.KeyOrders)
}

func (n *Notifier) NotifyItemPreparationUpdated(orderID, itemID uint, preparedCount, quantity int) {
	n.emit(EventItemPreparationUpdated, ItemPreparationUpdatedData{
		OrderID:       orderID,
		ItemID:        itemID,
		PreparedCount: preparedCount,
		Quantity:      quantity,
	}, cache.KeyOrders)
}

func (n *Notifier) NotifyOrderDeleted(orderID uint) {
	n.emit(EventOrderDeleted, OrderDeletedData{OrderID: orderID}, cache.KeyOrders)
}

func (n *Notifier) NotifyProductCreated(product *models.Product) {
	n.emit(EventProductCreated, ProductCreatedData{Product: product.ToResponse()}, productKeys...)
}

func (n *Notifier) NotifyProductUpdated(product *models.Product) {
	n.emit(EventProductUpdated, ProductUpdatedData{Product: product.ToResponse()}, productKeys...)
}

func (n *Notifier) NotifyProductDeleted(productID uint) {
	n.emit(EventProductDeleted, ProductDeletedData{ProductID: productID}, productKeys...)
}

func (n *Notifier) NotifyProductAvailabilityChanged(productID uint, available bool) {
	n.emit(EventProductAvailabilityChanged, ProductAvailabilityChangedData{
		ProductID: productID,
		Available: available,
	}, productKeys...)
}

func (n *Notifier) NotifySystemMessage(message, level string) {
	n.emit(EventSystemMessage, SystemMessageData{Message: message, Level: level})
}

// productKeys are the datasets any catalog mutation can change.
var productKeys = []string{cache.KeyProducts, cache.KeyAvailableProducts, cache.KeyAllProducts}

// emit invalidates the keys, then broadcasts. The order matters: a client
// reacting to the event by re-fetching must not be served the stale entry.
func (n *Notifier) emit(event EventName, data interface{}, keys ...string) {
	if len(keys) > 0 {
		n.cache.Invalidate(keys...)
	}

	n.hub.BroadcastAll(event, data)

	if n.sink != nil {
		if err := n.sink.Publish(event, data); err != nil {
			n.logger.Error("Failed to publish event to sink", "event", event, "error", err)
		}
	}
	n.logger.Debug("Domain event emitted", "event", event, "invalidated", keys)
}
