package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two mutually-following users. At
// least one of Content, ImageURL or Post must be set.
type Message struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID  `bson:"sender_id" json:"senderId"`
	RecipientID primitive.ObjectID  `bson:"recipient_id" json:"recipientId"`
	Content     string              `bson:"content,omitempty" json:"content,omitempty"`
	ImageURL    string              `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Post        *primitive.ObjectID `bson:"post,omitempty" json:"post,omitempty"`
	Read        bool                `bson:"read" json:"read"`
	Seen        bool                `bson:"seen" json:"seen"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
}

// HasPayload reports whether the message carries any content at all.
func (m *Message) HasPayload() bool {
	return m.Content != "" || m.ImageURL != "" || m.Post != nil
}

// MessageView is a message populated with sender/recipient profiles and,
// for shared posts, the post summary.
type MessageView struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    *PublicUser        `json:"sender"`
	Recipient *PublicUser        `json:"recipient"`
	Content   string             `json:"content,omitempty"`
	ImageURL  string             `json:"imageUrl,omitempty"`
	Post      *PostSummary       `json:"post,omitempty"`
	Read      bool               `json:"read"`
	Seen      bool               `json:"seen"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ChatSummary describes one conversation in the chat list.
type ChatSummary struct {
	User        *PublicUser  `json:"user"`
	LastMessage *MessageView `json:"lastMessage"`
	UnreadCount int          `json:"unreadCount"`
}
