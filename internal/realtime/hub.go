package realtime

import (
	"encoding/json"
	"sync"

	"github.com/daniyar-kw/linkup/pkg/logger"
)

// Event is the wire envelope for every pushed payload.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub owns all live connections and their room memberships. Delivery is
// best-effort and at-most-once: an event pushed to a room with no
// subscribers is dropped, and a connection that cannot keep up loses the
// event without affecting the rest of the room.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client            // connection ID -> client
	rooms    map[string]map[string]*Client // room -> connection ID -> client
	presence *Presence
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		rooms:    make(map[string]map[string]*Client),
		presence: NewPresence(),
	}
}

// Presence exposes the tracker for online-status queries.
func (h *Hub) Presence() *Presence {
	return h.presence
}

// Register adds a connection, joins it to its user room and broadcasts
// the online transition if this is the user's first connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.Join(c.ID, UserRoom(c.UserID))

	if h.presence.MarkOnline(c.UserID) {
		h.Broadcast(EventUserConnected, c.UserID)
	}
	logger.Log.WithField("userID", c.UserID).Info("Realtime connection registered")
}

// Unregister removes a connection from every room and broadcasts the
// offline transition when the user's last connection goes away.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	for room, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	c.close()

	if h.presence.MarkOffline(c.UserID) {
		h.Broadcast(EventUserDisconnected, c.UserID)
	}
	logger.Log.WithField("userID", c.UserID).Info("Realtime connection removed")
}

// Join subscribes a connection to a room. Joining twice is a no-op.
func (h *Hub) Join(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[connID] = c
}

// Leave unsubscribes a connection from a room. Leaving a room the
// connection never joined is a no-op.
func (h *Hub) Leave(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Push delivers an event to every connection subscribed to the room.
// Fire-and-forget: delivery failures on one connection never abort the
// others, and nothing is queued for absent subscribers.
func (h *Hub) Push(room, event string, payload interface{}) {
	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		logger.Log.WithError(err).Errorf("Failed to encode %q event", event)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for _, c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if !c.enqueue(data) {
			logger.Log.WithField("userID", c.UserID).Warnf("Dropped %q event: slow connection", event)
		}
	}
}

// Broadcast delivers an event to every open connection.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		logger.Log.WithError(err).Errorf("Failed to encode %q event", event)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(data) {
			logger.Log.WithField("userID", c.UserID).Warnf("Dropped %q broadcast: slow connection", event)
		}
	}
}
