package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// relayChannel is the Redis pub/sub channel shared by all service instances.
const relayChannel = "pos:events"

// relayMessage wraps a wire frame published to Redis so instances can skip
// frames they originated themselves and route remote frames to the right
// subset of local connections.
type relayMessage struct {
	Origin string          `json:"origin"`
	Room   string          `json:"room,omitempty"`   // set for room-scoped frames
	ConnID string          `json:"connId,omitempty"` // set for single-connection frames
	Frame  json.RawMessage `json:"frame"`
}

// Hub is the broadcast router: it resolves recipients through the registry
// and delivers wire frames over each recipient's transport. Delivery is
// fire-and-forget; a failed send is logged and the transport layer handles
// the disconnect. Frames handed to a single connection's sender in call
// order reach its transport in that order.
//
// When a Redis client is configured, every broadcast is also published to
// the relay channel so other instances fan it out to their own clients.
type Hub struct {
	registry   *Registry
	redis      *redis.Client
	instanceID string
	logger     *slog.Logger
}

// NewHub creates a broadcast router over the given registry. redisClient may
// be nil, in which case broadcasts stay local to this instance.
func NewHub(registry *Registry, redisClient *redis.Client, instanceID string, logger *slog.Logger) *Hub {
	return &Hub{
		registry:   registry,
		redis:      redisClient,
		instanceID: instanceID,
		logger:     logger,
	}
}

// Registry exposes the hub's registry to the transport layer.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// BroadcastAll delivers the event to every registered connection regardless
// of room membership.
func (h *Hub) BroadcastAll(event EventName, data interface{}) {
	frame, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.deliver(h.registry.sendersAll(), frame, event)
	h.publishRelay(relayMessage{Origin: h.instanceID, Frame: frame})
}

// BroadcastToRoom delivers the event to the room's current subscribers.
// A room with no subscribers is a silent no-op: rooms are ephemeral, and a
// send racing the last leave is normal, not an error.
func (h *Hub) BroadcastToRoom(room string, event EventName, data interface{}) {
	frame, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.deliver(h.registry.sendersInRoom(room), frame, event)
	h.publishRelay(relayMessage{Origin: h.instanceID, Room: room, Frame: frame})
}

// BroadcastToConnection delivers the event to exactly one connection, doing
// nothing if it is not currently live.
func (h *Hub) BroadcastToConnection(id string, event EventName, data interface{}) {
	frame, ok := h.encode(event, data)
	if !ok {
		return
	}
	if sender, live := h.registry.senderFor(id); live {
		h.send(sender, frame, event)
	}
	h.publishRelay(relayMessage{Origin: h.instanceID, ConnID: id, Frame: frame})
}

// RunRelay subscribes to the Redis relay channel and fans remote-origin
// frames out to local connections until the context is cancelled. It returns
// immediately when the hub has no Redis client.
func (h *Hub) RunRelay(ctx context.Context) {
	if h.redis == nil {
		return
	}

	pubsub := h.redis.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleRelay([]byte(msg.Payload))
		case <-ctx.Done():
			h.logger.Info("Event relay shutting down")
			return
		}
	}
}

func (h *Hub) handleRelay(payload []byte) {
	var relay relayMessage
	if err := json.Unmarshal(payload, &relay); err != nil {
		h.logger.Error("Failed to decode relay message", "error", err)
		return
	}
	if relay.Origin == h.instanceID {
		return
	}

	switch {
	case relay.ConnID != "":
		if sender, live := h.registry.senderFor(relay.ConnID); live {
			h.send(sender, relay.Frame, "relay")
		}
	case relay.Room != "":
		h.deliver(h.registry.sendersInRoom(relay.Room), relay.Frame, "relay")
	default:
		h.deliver(h.registry.sendersAll(), relay.Frame, "relay")
	}
}

func (h *Hub) encode(event EventName, data interface{}) ([]byte, bool) {
	frame, err := json.Marshal(Envelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		h.logger.Error("Failed to marshal event", "event", event, "error", err)
		return nil, false
	}
	return frame, true
}

func (h *Hub) deliver(senders []Sender, frame []byte, event EventName) {
	for _, sender := range senders {
		h.send(sender, frame, event)
	}
}

func (h *Hub) send(sender Sender, frame []byte, event EventName) {
	if err := sender.Send(frame); err != nil {
		h.logger.Warn("Dropped frame for connection", "event", event, "error", err)
	}
}

func (h *Hub) publishRelay(relay relayMessage) {
	if h.redis == nil {
		return
	}
	payload, err := json.Marshal(relay)
	if err != nil {
		h.logger.Error("Failed to marshal relay message", "error", err)
		return
	}
	if err := h.redis.Publish(context.Background(), relayChannel, payload).Err(); err != nil {
		h.logger.Error("Redis publish error", "channel", relayChannel, "error", err)
	}
}
