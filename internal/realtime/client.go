package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/daniyar-kw/linkup/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is
	// considered dead and torn down like an explicit disconnect.
	pongWait = 60 * time.Second

	// Ping period, must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	// Outbound queue per connection; events past this are dropped.
	sendBuffer = 64
)

// clientCommand is the only client-initiated frame: room membership.
type clientCommand struct {
	Type string `json:"type"` // "joinChat" or "leaveChat"
	Room string `json:"room"`
}

// Client is one live websocket connection bound to a user.
type Client struct {
	ID     string
	UserID string

	hub  *Hub
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient wraps an upgraded connection for the authenticated user.
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

// enqueue hands data to the write pump without blocking. Returns false
// when the connection is already closed or the buffer is full; either
// way the event is dropped.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close releases the write pump. The flag and the channel close share
// the enqueue mutex, so a push racing a disconnect drops the event
// instead of hitting a closed channel.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump consumes join/leave commands until the connection drops, then
// runs the same cleanup path as an explicit disconnect.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithField("userID", c.UserID).Warnf("WebSocket read error: %v", err)
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}

		switch cmd.Type {
		case "joinChat":
			if cmd.Room != "" {
				c.hub.Join(c.ID, cmd.Room)
			}
		case "leaveChat":
			if cmd.Room != "" {
				c.hub.Leave(c.ID, cmd.Room)
			}
		}
	}
}

// WritePump drains the outbound queue and keeps the connection alive
// with periodic pings. One writer per connection preserves push order.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
