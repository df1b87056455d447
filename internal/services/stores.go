package services

import (
	"context"
	"time"

	"github.com/daniyar-kw/linkup/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the slice of the user directory the realtime core reads:
// profile lookup and the follow relationship sets.
type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error
}

// NotificationStore owns the notification list embedded per user.
type NotificationStore interface {
	Prepend(ctx context.Context, userID primitive.ObjectID, notif *models.Notification) error
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notifID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	PruneRead(ctx context.Context, cutoff time.Time) (int64, error)
}

// MessageStore owns direct messages between user pairs.
type MessageStore interface {
	Insert(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	Conversation(ctx context.Context, userID, otherID primitive.ObjectID) ([]models.Message, error)
	AllForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
	MarkSeen(ctx context.Context, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, senderID, recipientID primitive.ObjectID) (int64, error)
}

// PostStore reads posts for payload population and records reposts.
type PostStore interface {
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	AddRepost(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveRepost(ctx context.Context, postID, userID primitive.ObjectID) error
}

// Dispatcher pushes events to live connections. Delivery is best-effort
// and never returns an error to the caller.
type Dispatcher interface {
	Push(room, event string, payload interface{})
	Broadcast(event string, payload interface{})
}
