package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account. Notifications are embedded in the user
// document: the recipient's list is capped and ordered newest-first.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName       string               `bson:"full_name" json:"fullName"`
	Username       string               `bson:"username" json:"username"`
	Email          string               `bson:"email" json:"email"`
	HashedPassword string               `bson:"hashed_password" json:"-"`
	ProfilePicture string               `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	Bio            string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Followers      []primitive.ObjectID `bson:"followers,omitempty" json:"followers,omitempty"`
	Following      []primitive.ObjectID `bson:"following,omitempty" json:"following,omitempty"`
	SavedPosts     []primitive.ObjectID `bson:"saved_posts,omitempty" json:"savedPosts,omitempty"`
	PostsCount     int                  `bson:"posts_count" json:"postsCount"`
	Notifications  []Notification       `bson:"notifications,omitempty" json:"notifications,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updatedAt"`
}

// PublicUser is the profile shape embedded into populated payloads.
type PublicUser struct {
	ID             primitive.ObjectID `json:"id"`
	Username       string             `json:"username"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
}

// Public strips a user down to the fields other users may see.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// IsFollowing reports whether the user's following set contains id.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}
