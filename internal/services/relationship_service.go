package services

import (
	"context"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/internal/realtime"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipService owns the follow relationship between users and the
// mutual-follow gate that direct messaging requires.
type RelationshipService struct {
	users         UserStore
	notifications *NotificationService
	dispatcher    Dispatcher
}

func NewRelationshipService(users UserStore, notifications *NotificationService, dispatcher Dispatcher) *RelationshipService {
	return &RelationshipService{
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// Mutual reports whether two already-loaded users follow each other.
func Mutual(a, b *models.User) bool {
	return a.IsFollowing(b.ID) && b.IsFollowing(a.ID)
}

// CanExchangeMessages reports whether the two users follow each other.
// A missing user yields false, not an error; callers that need to
// distinguish absence load the users themselves.
func (s *RelationshipService) CanExchangeMessages(ctx context.Context, userA, userB primitive.ObjectID) (bool, error) {
	a, err := s.users.GetUserByID(ctx, userA)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	b, err := s.users.GetUserByID(ctx, userB)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	return Mutual(a, b), nil
}

// Profile resolves a username to the user's public profile.
func (s *RelationshipService) Profile(ctx context.Context, username string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Follow adds target to the follower's following set, notifies the
// target and pushes a followUpdate to their room.
func (s *RelationshipService) Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if followerID == targetID {
		return errs.InvalidArgument("users cannot follow themselves")
	}

	follower, err := s.users.GetUserByID(ctx, followerID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	if follower.IsFollowing(targetID) {
		return errs.Conflict("already following this user")
	}

	if err := s.users.Follow(ctx, followerID, targetID); err != nil {
		return err
	}

	if _, err := s.notifications.Create(ctx, models.NotificationFollow, followerID, targetID, nil); err != nil {
		logger.Log.WithError(err).Warn("Failed to create follow notification")
	}

	s.dispatcher.Push(realtime.UserRoom(targetID.Hex()), realtime.EventFollowUpdate, map[string]interface{}{
		"userId":     targetID.Hex(),
		"followerId": followerID.Hex(),
		"following":  true,
	})
	return nil
}

// Unfollow removes the relationship. Unfollowing a user who was never
// followed is a no-op; no notification is created either way.
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if _, err := s.users.GetUserByID(ctx, followerID); err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.users.Unfollow(ctx, followerID, targetID); err != nil {
		return err
	}

	s.dispatcher.Push(realtime.UserRoom(targetID.Hex()), realtime.EventFollowUpdate, map[string]interface{}{
		"userId":     targetID.Hex(),
		"followerId": followerID.Hex(),
		"following":  false,
	})
	return nil
}
