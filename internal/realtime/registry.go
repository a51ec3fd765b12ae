package realtime

import (
	"log/slog"
	"sync"
	"time"
)

// Staff roles carried in a connection's identity. A connection starts as
// RoleUnknown and declares itself with an authenticate message.
const (
	RoleUnknown  = "unknown"
	RoleCounter  = "counter"
	RoleKitchen  = "kitchen"
	RoleDelivery = "delivery"
	RoleAdmin    = "admin"
)

// Identity is the last-known role/user descriptor of a connection.
type Identity struct {
	Role   string `json:"role"`
	UserID string `json:"userId,omitempty"`
}

// Sender delivers one wire frame to a connection's transport. Implemented by
// the WebSocket client; tests substitute in-memory fakes.
type Sender interface {
	Send(data []byte) error
}

// Connection is the registry's record of one live transport session.
type Connection struct {
	ID          string
	Identity    Identity
	ConnectedAt time.Time

	rooms  map[string]struct{}
	sender Sender
}

// Rooms returns the names of the rooms the connection has joined.
func (c *Connection) Rooms() []string {
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// InRoom reports whether the connection has joined the given room.
func (c *Connection) InRoom(room string) bool {
	_, ok := c.rooms[room]
	return ok
}

// Stats is the registry's operational snapshot for the stats endpoint.
type Stats struct {
	TotalClients int            `json:"totalClients"`
	TotalRooms   int            `json:"totalRooms"`
	RoomStats    map[string]int `json:"roomStats"`
}

// Registry tracks every live connection and its room memberships. Both maps
// are owned exclusively by the registry and mutated only through its methods;
// each method holds the lock for the whole operation, so a connection's room
// set and the per-room subscriber sets never disagree.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	rooms       map[string]map[string]struct{} // room name -> set of connection ids

	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		connections: make(map[string]*Connection),
		rooms:       make(map[string]map[string]struct{}),
		logger:      logger,
	}
}

// Register records a new connection, or refreshes an existing one. For a
// known id the identity (and sender, when non-nil) are replaced in place and
// room memberships are left untouched, so a client that re-authenticates
// keeps its subscriptions.
func (r *Registry) Register(id string, identity Identity, sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn, ok := r.connections[id]; ok {
		conn.Identity = identity
		if sender != nil {
			conn.sender = sender
		}
		r.logger.Info("Client re-registered", "connectionID", id, "role", identity.Role)
		return
	}

	r.connections[id] = &Connection{
		ID:          id,
		Identity:    identity,
		ConnectedAt: time.Now(),
		rooms:       make(map[string]struct{}),
		sender:      sender,
	}
	r.logger.Info("Client registered", "connectionID", id, "role", identity.Role)
}

// Unregister removes a connection and every room membership it holds,
// deleting rooms whose subscriber set becomes empty. Unknown ids are a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[id]
	if !ok {
		return
	}

	for room := range conn.rooms {
		r.removeFromRoomLocked(id, room)
	}
	delete(r.connections, id)
	r.logger.Info("Client unregistered", "connectionID", id, "role", conn.Identity.Role)
}

// JoinRoom subscribes a connection to a room. Joining a room the connection
// is already in is a no-op. An unknown connection id is logged and ignored
// rather than creating a dangling room entry: connect/disconnect races are
// expected and harmless.
func (r *Registry) JoinRoom(id, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[id]
	if !ok {
		r.logger.Warn("Join for unknown connection", "connectionID", id, "room", room)
		return
	}

	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]struct{})
	}
	r.rooms[room][id] = struct{}{}
	conn.rooms[room] = struct{}{}
	r.logger.Info("Client joined room", "connectionID", id, "room", room)
}

// LeaveRoom removes a connection from a room, deleting the room when its
// subscriber set becomes empty. Unknown connections or rooms are logged no-ops.
func (r *Registry) LeaveRoom(id, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.connections[id]
	if !ok {
		r.logger.Warn("Leave for unknown connection", "connectionID", id, "room", room)
		return
	}

	delete(conn.rooms, room)
	r.removeFromRoomLocked(id, room)
	r.logger.Info("Client left room", "connectionID", id, "room", room)
}

func (r *Registry) removeFromRoomLocked(id, room string) {
	subscribers, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(subscribers, id)
	if len(subscribers) == 0 {
		delete(r.rooms, room)
	}
}

// Stats returns connection and room counts for operational visibility.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomStats := make(map[string]int, len(r.rooms))
	for room, subscribers := range r.rooms {
		roomStats[room] = len(subscribers)
	}
	return Stats{
		TotalClients: len(r.connections),
		TotalRooms:   len(r.rooms),
		RoomStats:    roomStats,
	}
}

// Connection returns the record for id, or false if it is not live.
func (r *Registry) Connection(id string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[id]
	return conn, ok
}

// sendersAll snapshots every live sender under the read lock so broadcasts
// do not hold it while writing to transports.
func (r *Registry) sendersAll() []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()

	senders := make([]Sender, 0, len(r.connections))
	for _, conn := range r.connections {
		if conn.sender != nil {
			senders = append(senders, conn.sender)
		}
	}
	return senders
}

// sendersInRoom snapshots the senders of a room's current subscribers.
// A missing room yields an empty slice.
func (r *Registry) sendersInRoom(room string) []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subscribers, ok := r.rooms[room]
	if !ok {
		return nil
	}
	senders := make([]Sender, 0, len(subscribers))
	for id := range subscribers {
		if conn, live := r.connections[id]; live && conn.sender != nil {
			senders = append(senders, conn.sender)
		}
	}
	return senders
}

// senderFor returns the sender for a single connection id, if live.
func (r *Registry) senderFor(id string) (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[id]
	if !ok || conn.sender == nil {
		return nil, false
	}
	return conn.sender, true
}
