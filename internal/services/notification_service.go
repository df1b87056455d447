package services

import (
	"context"
	"sort"
	"time"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/internal/realtime"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dedupWindow suppresses a duplicate (type, from, post) notification
// while an unread twin younger than this still sits in the list.
const dedupWindow = time.Hour

// NotificationService decides when a notification exists: self-notify
// rejection, the rolling dedup window, read/seen transitions and the
// realtime pushes that follow a successful create.
type NotificationService struct {
	store      NotificationStore
	users      UserStore
	posts      PostStore
	dispatcher Dispatcher
}

func NewNotificationService(store NotificationStore, users UserStore, posts PostStore, dispatcher Dispatcher) *NotificationService {
	return &NotificationService{
		store:      store,
		users:      users,
		posts:      posts,
		dispatcher: dispatcher,
	}
}

// Create records a notification for toUserID and pushes it to the
// recipient's room and the dashboard room. Self-notifications and
// duplicates inside the dedup window are silently suppressed: the
// returned notification is nil and no error is raised. The dedup scan is
// read-modify-write; a benign duplicate under high concurrency is
// tolerated rather than corrected.
func (s *NotificationService) Create(ctx context.Context, notifType models.NotificationType, fromUserID, toUserID primitive.ObjectID, postID *primitive.ObjectID) (*models.Notification, error) {
	if fromUserID == toUserID {
		return nil, nil
	}

	existing, err := s.store.List(ctx, toUserID)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			// Recipient is gone; nothing to notify.
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	for i := range existing {
		n := &existing[i]
		if !n.Read && n.Matches(notifType, fromUserID, postID) && now.Sub(n.CreatedAt) < dedupWindow {
			return nil, nil
		}
	}

	notif := &models.Notification{
		ID:        primitive.NewObjectID(),
		Type:      notifType,
		From:      fromUserID,
		Post:      postID,
		CreatedAt: now,
	}

	if err := s.store.Prepend(ctx, toUserID, notif); err != nil {
		return nil, err
	}

	view := s.populate(ctx, []models.Notification{*notif})[0]
	payload := map[string]interface{}{
		"notification": view,
		"userId":       toUserID.Hex(),
	}
	s.dispatcher.Push(realtime.UserRoom(toUserID.Hex()), realtime.EventNewNotification, payload)
	s.dispatcher.Push(realtime.ActivityRoom, realtime.EventNotification, payload)

	return notif, nil
}

// List returns the user's notifications newest first, populated with
// sender profiles and post summaries on a best-effort basis.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID) ([]*models.NotificationView, error) {
	notifications, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return s.populate(ctx, notifications), nil
}

// MarkRead flips a single notification owned by userID and returns it.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notifID primitive.ObjectID) (*models.Notification, error) {
	if err := s.store.MarkRead(ctx, userID, notifID); err != nil {
		return nil, err
	}

	notifications, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range notifications {
		if notifications[i].ID == notifID {
			return &notifications[i], nil
		}
	}
	return nil, errs.NotFound("notification not found")
}

// MarkAllRead flips every unread notification and returns the count.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}

// PruneStale drops read notifications older than the retention window.
// Invoked periodically by the scheduler.
func (s *NotificationService) PruneStale(ctx context.Context, retention time.Duration) error {
	count, err := s.store.PruneRead(ctx, time.Now().Add(-retention))
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Log.Infof("Notification pruning touched %d users", count)
	}
	return nil
}

// populate resolves sender profiles and post summaries. A deleted sender
// or post yields a nil reference instead of failing the whole list.
func (s *NotificationService) populate(ctx context.Context, notifications []models.Notification) []*models.NotificationView {
	senderIDs := make([]primitive.ObjectID, 0, len(notifications))
	seen := make(map[primitive.ObjectID]bool)
	for _, n := range notifications {
		if !seen[n.From] {
			seen[n.From] = true
			senderIDs = append(senderIDs, n.From)
		}
	}

	profiles := make(map[primitive.ObjectID]*models.PublicUser)
	if len(senderIDs) > 0 {
		users, err := s.users.GetUsersByIDs(ctx, senderIDs)
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to populate notification senders")
		}
		for i := range users {
			profiles[users[i].ID] = users[i].Public()
		}
	}

	views := make([]*models.NotificationView, 0, len(notifications))
	posts := make(map[primitive.ObjectID]*models.PostSummary)
	for _, n := range notifications {
		view := &models.NotificationView{
			ID:        n.ID,
			Type:      n.Type,
			From:      profiles[n.From],
			Read:      n.Read,
			Seen:      n.Seen,
			CreatedAt: n.CreatedAt,
		}
		if n.Post != nil {
			summary, cached := posts[*n.Post]
			if !cached {
				summary = s.postSummary(ctx, *n.Post)
				posts[*n.Post] = summary
			}
			view.Post = summary
		}
		views = append(views, view)
	}
	return views
}

func (s *NotificationService) postSummary(ctx context.Context, postID primitive.ObjectID) *models.PostSummary {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if !errs.Is(err, errs.KindNotFound) {
			logger.Log.WithError(err).Warn("Failed to populate notification post")
		}
		return nil
	}

	summary := post.Summary()
	if author, err := s.users.GetUserByID(ctx, post.Author); err == nil {
		summary.Author = author.Public()
	}
	return summary
}
