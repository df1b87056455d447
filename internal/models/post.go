package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post carries the fields the realtime core reads: author reference for
// notification routing, content/image for payload population and the
// repost set. Full post CRUD lives outside this service.
type Post struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Author       primitive.ObjectID   `bson:"author" json:"author"`
	Content      string               `bson:"content,omitempty" json:"content,omitempty"`
	ImageURL     string               `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Reposts      []primitive.ObjectID `bson:"reposts,omitempty" json:"reposts,omitempty"`
	RepostsCount int                  `bson:"reposts_count" json:"repostsCount"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
}

// RepostedBy reports whether the user already reposted this post.
func (p *Post) RepostedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Reposts {
		if id == userID {
			return true
		}
	}
	return false
}

// PostSummary is the shape embedded into notification and shared-post
// message payloads.
type PostSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Author   *PublicUser        `json:"author,omitempty"`
	Content  string             `json:"content,omitempty"`
	ImageURL string             `json:"imageUrl,omitempty"`
}

// Summary builds the summary view; author population is best-effort and
// filled in by the caller.
func (p *Post) Summary() *PostSummary {
	return &PostSummary{
		ID:       p.ID,
		Content:  p.Content,
		ImageURL: p.ImageURL,
	}
}
