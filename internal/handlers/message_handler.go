package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/daniyar-kw/linkup/internal/services"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"github.com/daniyar-kw/linkup/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler manages the direct-message HTTP endpoints.
type MessageHandler struct {
	Service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{Service: service}
}

type sendMessageRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	PostID   string `json:"postId"`
}

// SendMessageHandler handles POST /messages/{recipientId}.
func (h *MessageHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["recipientId"])
	if err != nil {
		http.Error(w, "Invalid recipient ID", http.StatusBadRequest)
		return
	}
	senderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var postID *primitive.ObjectID
	if req.PostID != "" {
		id, err := primitive.ObjectIDFromHex(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}
		postID = &id
	}

	message, err := h.Service.Send(r.Context(), senderID, recipientID, req.Content, req.ImageURL, postID)
	if err != nil {
		logger.Log.Warnf("Failed to send message from %s to %s: %v", claims.UserID, recipientID.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, message)
}

// GetHistoryHandler handles GET /messages/{userId}.
func (h *MessageHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	messages, err := h.Service.History(r.Context(), userID, otherID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// MarkAllReadHandler handles PUT /messages/{senderId}/read.
func (h *MessageHandler) MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	senderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["senderId"])
	if err != nil {
		http.Error(w, "Invalid sender ID", http.StatusBadRequest)
		return
	}
	recipientID, _ := primitive.ObjectIDFromHex(claims.UserID)

	count, err := h.Service.MarkAllRead(r.Context(), senderID, recipientID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Messages marked as read",
		"updated": count,
	})
}

// MarkSeenHandler handles PUT /api/messages/{messageId}/seen.
func (h *MessageHandler) MarkSeenHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messageID, err := primitive.ObjectIDFromHex(mux.Vars(r)["messageId"])
	if err != nil {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
		return
	}
	requesterID, _ := primitive.ObjectIDFromHex(claims.UserID)

	message, err := h.Service.MarkSeen(r.Context(), messageID, requesterID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, message)
}

// ListChatsHandler handles GET /chats.
func (h *MessageHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	chats, err := h.Service.ListChats(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to build chat list for %s: %v", claims.UserID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, chats)
}
