package handlers

import (
	"net/http"

	"github.com/daniyar-kw/linkup/internal/realtime"
	jwtutil "github.com/daniyar-kw/linkup/pkg/jwt"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades realtime connections and hands them to the hub.
type WSHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
}

func NewWSHandler(hub *realtime.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{Hub: hub, JWTSecret: jwtSecret}
}

// ConnectHandler handles GET /ws?token=… The token is carried in the
// query string because browsers cannot set headers on websocket dials.
func (h *WSHandler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logger.Log.Warnf("WebSocket auth failed: %v", err)
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	client := realtime.NewClient(h.Hub, conn, claims.UserID)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
