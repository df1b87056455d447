package repository

import (
	"context"
	"errors"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository reads posts for payload population and owns the repost
// set mutations. Post CRUD itself is handled elsewhere.
type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{collection: db.Collection("posts")}
}

// GetPostByID fetches a post.
func (r *PostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("post not found")
		}
		return nil, errs.Internal("failed to fetch post", err)
	}
	return &post, nil
}

// AddRepost records a repost with a single atomic document update.
func (r *PostRepository) AddRepost(ctx context.Context, postID, userID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"reposts": userID},
		"$inc":      bson.M{"reposts_count": 1},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return errs.Internal("failed to record repost", err)
	}
	if result.MatchedCount == 0 {
		return errs.NotFound("post not found")
	}
	return nil
}

// RemoveRepost undoes a repost.
func (r *PostRepository) RemoveRepost(ctx context.Context, postID, userID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"reposts": userID},
		"$inc":  bson.M{"reposts_count": -1},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return errs.Internal("failed to remove repost", err)
	}
	if result.MatchedCount == 0 {
		return errs.NotFound("post not found")
	}
	return nil
}
