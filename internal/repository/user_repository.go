package repository

import (
	"context"
	"errors"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("user not found")
		}
		logrus.WithField("userID", id.Hex()).WithError(err).Error("Failed to find user by ID")
		return nil, errs.Internal("failed to find user by id", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("user not found")
		}
		return nil, errs.Internal("failed to find user by username", err)
	}
	return &user, nil
}

// GetUsersByIDs fetches user details for a list of ObjectIDs.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, errs.Internal("failed to fetch users by IDs", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, errs.Internal("failed to decode user", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// Follow adds target to follower's following set and follower to
// target's followers set. Both updates use $addToSet so repeated calls
// and concurrent follows stay idempotent at the document level.
func (r *UserRepository) Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"following": targetID}},
	)
	if err != nil {
		return errs.Internal("failed to update following set", err)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}},
	)
	if err != nil {
		return errs.Internal("failed to update followers set", err)
	}
	return nil
}

// Unfollow removes the relationship from both sides.
func (r *UserRepository) Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"following": targetID}},
	)
	if err != nil {
		return errs.Internal("failed to update following set", err)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}},
	)
	if err != nil {
		return errs.Internal("failed to update followers set", err)
	}
	return nil
}
