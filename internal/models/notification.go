package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates the notification variants instead of
// branching on free-form strings.
type NotificationType string

const (
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationFollow        NotificationType = "follow"
	NotificationMessage       NotificationType = "message"
	NotificationUnreadMessage NotificationType = "unread_message"
	NotificationRepost        NotificationType = "repost"
)

// Notification is embedded in the recipient's user document.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Type      NotificationType    `bson:"type" json:"type"`
	From      primitive.ObjectID  `bson:"from" json:"from"`
	Post      *primitive.ObjectID `bson:"post,omitempty" json:"post,omitempty"`
	Read      bool                `bson:"read" json:"read"`
	Seen      bool                `bson:"seen" json:"seen"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
}

// Matches reports whether the notification duplicates the given
// (type, from, post) triple. A nil post only matches a nil post.
func (n *Notification) Matches(t NotificationType, from primitive.ObjectID, post *primitive.ObjectID) bool {
	if n.Type != t || n.From != from {
		return false
	}
	if post == nil || n.Post == nil {
		return post == nil && n.Post == nil
	}
	return *post == *n.Post
}

// NotificationView is a notification populated with the sender's public
// profile and the referenced post's summary. Either reference may be nil
// when the sender or post has since been deleted.
type NotificationView struct {
	ID        primitive.ObjectID `json:"id"`
	Type      NotificationType   `json:"type"`
	From      *PublicUser        `json:"from"`
	Post      *PostSummary       `json:"post,omitempty"`
	Read      bool               `json:"read"`
	Seen      bool               `json:"seen"`
	CreatedAt time.Time          `json:"createdAt"`
}
