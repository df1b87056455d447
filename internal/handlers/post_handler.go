package handlers

import (
	"net/http"

	"github.com/daniyar-kw/linkup/internal/services"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"github.com/daniyar-kw/linkup/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler exposes the repost endpoints.
type PostHandler struct {
	Service *services.PostService
}

func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{Service: service}
}

// POST /posts/{id}/repost
func (h *PostHandler) RepostHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	post, err := h.Service.Repost(r.Context(), userID, postID)
	if err != nil {
		logger.Log.Warnf("User %s failed to repost %s: %v", claims.UserID, postID.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, post)
}

// DELETE /posts/{id}/repost
func (h *PostHandler) UndoRepostHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if _, err := h.Service.UndoRepost(r.Context(), userID, postID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Repost deleted successfully"})
}
