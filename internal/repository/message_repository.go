package repository

import (
	"context"
	"errors"
	"time"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository stores direct messages as independent documents
// referencing sender, recipient and shared post by ID.
type MessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{collection: db.Collection("messages")}
}

// Insert persists a new message.
func (r *MessageRepository) Insert(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return nil, errs.Internal("failed to insert message", err)
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return msg, nil
}

// GetByID fetches a single message.
func (r *MessageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var msg models.Message
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("message not found")
		}
		return nil, errs.Internal("failed to fetch message", err)
	}
	return &msg, nil
}

// Conversation returns all messages between two users, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, userID, otherID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID, "recipient_id": otherID},
			{"sender_id": otherID, "recipient_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.Internal("failed to fetch conversation", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errs.Internal("failed to decode messages", err)
	}
	return messages, nil
}

// AllForUser returns every message the user sent or received, newest
// first. The chat-list summary is derived from this ordering.
func (r *MessageRepository) AllForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID},
			{"recipient_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.Internal("failed to fetch messages", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errs.Internal("failed to decode messages", err)
	}
	return messages, nil
}

// MarkSeen flips the seen flag on a single message.
func (r *MessageRepository) MarkSeen(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		return errs.Internal("failed to mark message as seen", err)
	}
	if result.MatchedCount == 0 {
		return errs.NotFound("message not found")
	}
	return nil
}

// MarkAllRead flags every unread message from sender to recipient as
// read and reports how many were updated.
func (r *MessageRepository) MarkAllRead(ctx context.Context, senderID, recipientID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"sender_id":    senderID,
		"recipient_id": recipientID,
		"read":         false,
	}

	result, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, errs.Internal("failed to mark messages as read", err)
	}
	return result.ModifiedCount, nil
}
