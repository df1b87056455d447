package services

import (
	"context"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/internal/realtime"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostService covers the repost path: the only post mutation that feeds
// the notification and realtime pipeline from this service.
type PostService struct {
	posts         PostStore
	notifications *NotificationService
	dispatcher    Dispatcher
}

func NewPostService(posts PostStore, notifications *NotificationService, dispatcher Dispatcher) *PostService {
	return &PostService{
		posts:         posts,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// Repost records a repost, notifies the post author and announces the
// repost to all feeds. Reposting the same post twice is a conflict.
func (s *PostService) Repost(ctx context.Context, userID, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.RepostedBy(userID) {
		return nil, errs.Conflict("you have already reposted this post")
	}

	if err := s.posts.AddRepost(ctx, postID, userID); err != nil {
		return nil, err
	}

	if _, err := s.notifications.Create(ctx, models.NotificationRepost, userID, post.Author, &postID); err != nil {
		logger.Log.WithError(err).Warn("Failed to create repost notification")
	}

	updated, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	// Feed events stay broadcast: every feed may show this post.
	s.dispatcher.Broadcast(realtime.EventNewRepost, postID.Hex())
	s.dispatcher.Broadcast(realtime.EventPostUpdated, updated)

	return updated, nil
}

// UndoRepost removes the user's repost. The repost notification is left
// alone: notifications are never deleted individually.
func (s *PostService) UndoRepost(ctx context.Context, userID, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.RepostedBy(userID) {
		return nil, errs.NotFound("repost not found")
	}

	if err := s.posts.RemoveRepost(ctx, postID, userID); err != nil {
		return nil, err
	}

	updated, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Broadcast(realtime.EventPostUpdated, updated)

	return updated, nil
}
