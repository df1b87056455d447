package services

import (
	"context"
	"testing"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/internal/realtime"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPostFixture(author *models.User, post *models.Post) (*PostService, *fakeNotificationStore, *fakeDispatcher) {
	userStore := newFakeUserStore(author)
	notifStore := newFakeNotificationStore(author.ID)
	posts := newFakePostStore(post)
	dispatcher := &fakeDispatcher{}
	notifications := NewNotificationService(notifStore, userStore, posts, dispatcher)
	return NewPostService(posts, notifications, dispatcher), notifStore, dispatcher
}

func TestRepost(t *testing.T) {
	ctx := context.Background()
	author := newTestUser("author")
	post := &models.Post{ID: primitive.NewObjectID(), Author: author.ID, Content: "original"}
	svc, notifStore, dispatcher := newPostFixture(author, post)

	reposter := primitive.NewObjectID()
	updated, err := svc.Repost(ctx, reposter, post.ID)
	require.NoError(t, err)
	assert.True(t, updated.RepostedBy(reposter))
	assert.Equal(t, 1, updated.RepostsCount)

	// author hears about it
	notifs, _ := notifStore.List(ctx, author.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationRepost, notifs[0].Type)
	assert.Equal(t, reposter, notifs[0].From)
	require.NotNil(t, notifs[0].Post)
	assert.Equal(t, post.ID, *notifs[0].Post)

	// feed-wide announcements
	events := make([]string, 0, len(dispatcher.broadcasts))
	for _, b := range dispatcher.broadcasts {
		events = append(events, b.Event)
	}
	assert.Contains(t, events, realtime.EventNewRepost)
	assert.Contains(t, events, realtime.EventPostUpdated)
}

func TestRepostTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	author := newTestUser("author")
	post := &models.Post{ID: primitive.NewObjectID(), Author: author.ID}
	svc, _, _ := newPostFixture(author, post)

	reposter := primitive.NewObjectID()
	_, err := svc.Repost(ctx, reposter, post.ID)
	require.NoError(t, err)

	_, err = svc.Repost(ctx, reposter, post.ID)
	assert.True(t, errs.Is(err, errs.KindConflict))
}

func TestRepostMissingPost(t *testing.T) {
	author := newTestUser("author")
	post := &models.Post{ID: primitive.NewObjectID(), Author: author.ID}
	svc, _, _ := newPostFixture(author, post)

	_, err := svc.Repost(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestUndoRepostKeepsNotification(t *testing.T) {
	ctx := context.Background()
	author := newTestUser("author")
	post := &models.Post{ID: primitive.NewObjectID(), Author: author.ID}
	svc, notifStore, _ := newPostFixture(author, post)

	reposter := primitive.NewObjectID()
	_, err := svc.Repost(ctx, reposter, post.ID)
	require.NoError(t, err)

	updated, err := svc.UndoRepost(ctx, reposter, post.ID)
	require.NoError(t, err)
	assert.False(t, updated.RepostedBy(reposter))
	assert.Equal(t, 0, updated.RepostsCount)

	// the repost notification is not withdrawn
	notifs, _ := notifStore.List(ctx, author.ID)
	assert.Len(t, notifs, 1)
}

func TestUndoRepostWithoutRepost(t *testing.T) {
	author := newTestUser("author")
	post := &models.Post{ID: primitive.NewObjectID(), Author: author.ID}
	svc, _, _ := newPostFixture(author, post)

	_, err := svc.UndoRepost(context.Background(), primitive.NewObjectID(), post.ID)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}
