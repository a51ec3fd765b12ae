package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var ErrClientDisconnected = fmt.Errorf("client disconnected")

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// clientMessage is what a connected client may send us: declare an identity,
// or join/leave a room. Anything else is logged and dropped.
type clientMessage struct {
	Action string `json:"action"` // "authenticate", "join" or "leave"
	Role   string `json:"role,omitempty"`
	UserID string `json:"userId,omitempty"`
	Room   string `json:"room,omitempty"`
}

// Client owns one WebSocket connection. It registers itself with the hub's
// registry, pumps inbound control messages into it, and implements Sender by
// queueing outbound frames on a buffered channel drained by writePump, which
// preserves the order frames were queued in.
type Client struct {
	id       string
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte
	logger   *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	closed     int32
	sendClosed int32
}

func NewClient(registry *Registry, conn *websocket.Conn, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:       uuid.New().String(),
		registry: registry,
		conn:     conn,
		send:     make(chan []byte, 256),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues one frame for delivery. It never blocks: when the buffer is
// full the client is considered too slow and is torn down.
func (c *Client) Send(data []byte) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientDisconnected
	default:
		c.logger.Warn("Send buffer full, closing client", "connectionID", c.id)
		c.closeSendChannel()
		return ErrClientDisconnected
	}
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
	}
}

func (c *Client) closeSendChannel() {
	if atomic.CompareAndSwapInt32(&c.sendClosed, 0, 1) {
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.close()
		c.registry.Unregister(c.id)
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("Error closing connection", "connectionID", c.id, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "connectionID", c.id, "error", err)
			} else {
				c.logger.Debug("WebSocket connection closed", "connectionID", c.id)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.logger.Error("Failed to unmarshal client message", "connectionID", c.id, "error", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg clientMessage) {
	switch msg.Action {
	case "authenticate":
		role := msg.Role
		if role == "" {
			role = RoleUnknown
		}
		c.registry.Register(c.id, Identity{Role: role, UserID: msg.UserID}, c)

	case "join":
		if msg.Room == "" {
			c.logger.Warn("Join without room name", "connectionID", c.id)
			return
		}
		c.registry.JoinRoom(c.id, msg.Room)

	case "leave":
		if msg.Room == "" {
			c.logger.Warn("Leave without room name", "connectionID", c.id)
			return
		}
		c.registry.LeaveRoom(c.id, msg.Room)

	default:
		c.logger.Warn("Unknown client action", "connectionID", c.id, "action", msg.Action)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("Error writing frame", "connectionID", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Error sending ping", "connectionID", c.id, "error", err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// ServeWS upgrades the request, registers the connection with the given
// starting identity and runs the pumps. The identity is usually RoleUnknown
// until the client sends an authenticate message.
func ServeWS(registry *Registry, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, identity Identity, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := NewClient(registry, conn, logger)
	registry.Register(client.id, identity, client)
	logger.Info("New WebSocket connection established", "connectionID", client.id, "role", identity.Role)

	go client.writePump()
	go client.readPump()
}
