package handlers

import (
	"net/http"

	"github.com/daniyar-kw/linkup/internal/realtime"
	"github.com/daniyar-kw/linkup/internal/services"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"github.com/daniyar-kw/linkup/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler manages follow relationships and the online-users view.
type FollowHandler struct {
	Service  *services.RelationshipService
	Presence *realtime.Presence
}

func NewFollowHandler(service *services.RelationshipService, presence *realtime.Presence) *FollowHandler {
	return &FollowHandler{Service: service, Presence: presence}
}

// POST /users/{id}/follow
func (h *FollowHandler) FollowHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	followerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.Follow(r.Context(), followerID, targetID); err != nil {
		logger.Log.Warnf("User %s failed to follow %s: %v", claims.UserID, targetID.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Successfully followed user"})
}

// POST /users/{id}/unfollow
func (h *FollowHandler) UnfollowHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	followerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.Unfollow(r.Context(), followerID, targetID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Successfully unfollowed user"})
}

// GET /users/{username}
func (h *FollowHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.Service.Profile(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":   profile,
		"online": h.Presence.IsOnline(profile.ID.Hex()),
	})
}

// GET /api/users/online
func (h *FollowHandler) OnlineUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"onlineUsers": h.Presence.Online(),
	})
}
