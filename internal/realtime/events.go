package realtime

import "pos-service/internal/models"

// EventName identifies a domain event on the wire using a custom enum type
// for better type safety
type EventName string

const (
	EventOrderPlaced                EventName = "orderPlaced"
	EventOrderUpdated               EventName = "orderUpdated"
	EventOrderStatusUpdated         EventName = "orderStatusUpdated"
	EventItemPreparationUpdated     EventName = "itemPreparationUpdated"
	EventOrderDeleted               EventName = "orderDeleted"
	EventProductCreated             EventName = "productCreated"
	EventProductUpdated             EventName = "productUpdated"
	EventProductDeleted             EventName = "productDeleted"
	EventProductAvailabilityChanged EventName = "productAvailabilityChanged"
	EventSystemMessage              EventName = "systemMessage"
)

// String returns the string representation of the EventName
func (e EventName) String() string {
	return string(e)
}

// IsValid checks if the EventName is a valid enum value
func (e EventName) IsValid() bool {
	switch e {
	case EventOrderPlaced, EventOrderUpdated, EventOrderStatusUpdated,
		EventItemPreparationUpdated, EventOrderDeleted, EventProductCreated,
		EventProductUpdated, EventProductDeleted, EventProductAvailabilityChanged,
		EventSystemMessage:
		return true
	default:
		return false
	}
}

// Envelope is the frame delivered to clients: the event name, its typed
// payload, and a server-side emission timestamp. The timestamp is taken when
// the notifier emits, not when the mutation happened, and is meant for
// display, not conflict resolution.
type Envelope struct {
	Event     EventName   `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// One payload type per event name. Clients treat these as change
// notifications and re-fetch authoritative state over the read API.

type OrderPlacedData struct {
	Order models.OrderResponse `json:"order"`
}

type OrderUpdatedData struct {
	Order models.OrderResponse `json:"order"`
}

type OrderStatusUpdatedData struct {
	OrderID   uint   `json:"orderId"`
	Status    string `json:"status"`
	ChangedBy string `json:"changedBy"`
}

type ItemPreparationUpdatedData struct {
	OrderID       uint `json:"orderId"`
	ItemID        uint `json:"itemId"`
	PreparedCount int  `json:"preparedCount"`
	Quantity      int  `json:"quantity"`
}

type OrderDeletedData struct {
	OrderID uint `json:"orderId"`
}

type ProductCreatedData struct {
	Product models.ProductResponse `json:"product"`
}

type ProductUpdatedData struct {
	Product models.ProductResponse `json:"product"`
}

type ProductDeletedData struct {
	ProductID uint `json:"productId"`
}

type ProductAvailabilityChangedData struct {
	ProductID uint `json:"productId"`
	Available bool `json:"available"`
}

type SystemMessageData struct {
	Message string `json:"message"`
	Level   string `json:"level,omitempty"`
}
