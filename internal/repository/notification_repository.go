package repository

import (
	"context"
	"errors"
	"time"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxNotifications caps the embedded per-user list so the dedup scan
// stays cheap as history grows.
const maxNotifications = 100

// NotificationRepository manages the notification list embedded in each
// user document. There is no separate notifications collection.
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("users"),
	}
}

// Prepend inserts a notification at the head of the recipient's list,
// keeping newest-first order and trimming the tail past the cap.
func (r *NotificationRepository) Prepend(ctx context.Context, userID primitive.ObjectID, notif *models.Notification) error {
	update := bson.M{
		"$push": bson.M{
			"notifications": bson.M{
				"$each":     bson.A{notif},
				"$position": 0,
				"$slice":    maxNotifications,
			},
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return errs.Internal("failed to create notification", err)
	}
	if result.MatchedCount == 0 {
		return errs.NotFound("user not found")
	}
	return nil
}

// List returns the user's notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.FindOne().SetProjection(bson.M{"notifications": 1})

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("user not found")
		}
		return nil, errs.Internal("failed to fetch notifications", err)
	}
	return user.Notifications, nil
}

// MarkRead flips the read flag of a single notification owned by userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	filter := bson.M{"_id": userID, "notifications._id": notifID}
	update := bson.M{"$set": bson.M{"notifications.$.read": true}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return errs.Internal("failed to mark notification as read", err)
	}
	if result.MatchedCount == 0 {
		return errs.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead flips every unread notification and reports how many
// documents changed. A second call in a row modifies nothing.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"notifications.$[elem].read": true}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: bson.A{bson.M{"elem.read": false}},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return 0, errs.Internal("failed to mark notifications as read", err)
	}
	if result.MatchedCount == 0 {
		return 0, errs.NotFound("user not found")
	}
	return result.ModifiedCount, nil
}

// PruneRead drops read notifications older than the cutoff from every
// user document. Unread notifications are never pruned.
func (r *NotificationRepository) PruneRead(ctx context.Context, cutoff time.Time) (int64, error) {
	update := bson.M{
		"$pull": bson.M{
			"notifications": bson.M{
				"read":       true,
				"created_at": bson.M{"$lt": cutoff},
			},
		},
	}

	result, err := r.collection.UpdateMany(ctx, bson.M{}, update)
	if err != nil {
		return 0, errs.Internal("failed to prune notifications", err)
	}
	logrus.Infof("Pruned read notifications on %d user documents", result.ModifiedCount)
	return result.ModifiedCount, nil
}
