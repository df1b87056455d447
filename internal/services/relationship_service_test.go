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

func newRelationshipFixture(users ...*models.User) (*RelationshipService, *fakeUserStore, *fakeNotificationStore, *fakeDispatcher) {
	userStore := newFakeUserStore(users...)
	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	notifStore := newFakeNotificationStore(ids...)
	dispatcher := &fakeDispatcher{}
	notifications := NewNotificationService(notifStore, userStore, newFakePostStore(), dispatcher)
	return NewRelationshipService(userStore, notifications, dispatcher), userStore, notifStore, dispatcher
}

func TestCanExchangeMessagesSymmetric(t *testing.T) {
	ctx := context.Background()

	alice := newTestUser("alice")
	bob := newTestUser("bob")
	carol := newTestUser("carol")
	mutualFollow(alice, bob)
	// carol follows alice only, one-way
	carol.Following = append(carol.Following, alice.ID)

	svc, _, _, _ := newRelationshipFixture(alice, bob, carol)

	pairs := []struct {
		a, b primitive.ObjectID
		want bool
	}{
		{alice.ID, bob.ID, true},
		{alice.ID, carol.ID, false},
		{bob.ID, carol.ID, false},
	}
	for _, pair := range pairs {
		forward, err := svc.CanExchangeMessages(ctx, pair.a, pair.b)
		require.NoError(t, err)
		reverse, err := svc.CanExchangeMessages(ctx, pair.b, pair.a)
		require.NoError(t, err)

		assert.Equal(t, pair.want, forward)
		assert.Equal(t, forward, reverse, "gate must be symmetric")
	}
}

func TestCanExchangeMessagesMissingUser(t *testing.T) {
	alice := newTestUser("alice")
	svc, _, _, _ := newRelationshipFixture(alice)

	ok, err := svc.CanExchangeMessages(context.Background(), alice.ID, primitive.NewObjectID())
	require.NoError(t, err, "a missing user is not an error for the gate")
	assert.False(t, ok)
}

func TestProfileLookup(t *testing.T) {
	alice := newTestUser("alice")
	svc, _, _, _ := newRelationshipFixture(alice)

	profile, err := svc.Profile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.ID)
	assert.Equal(t, "alice", profile.Username)

	_, err = svc.Profile(context.Background(), "nobody")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestFollowCreatesNotificationAndPush(t *testing.T) {
	ctx := context.Background()
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	svc, userStore, notifStore, dispatcher := newRelationshipFixture(alice, bob)

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	follower, _ := userStore.GetUserByID(ctx, alice.ID)
	assert.True(t, follower.IsFollowing(bob.ID))

	notifs, _ := notifStore.List(ctx, bob.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationFollow, notifs[0].Type)
	assert.Equal(t, alice.ID, notifs[0].From)

	updates := dispatcher.pushed(realtime.EventFollowUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, realtime.UserRoom(bob.ID.Hex()), updates[0].Room)
}

func TestFollowSelf(t *testing.T) {
	alice := newTestUser("alice")
	svc, _, _, _ := newRelationshipFixture(alice)

	err := svc.Follow(context.Background(), alice.ID, alice.ID)
	assert.True(t, errs.Is(err, errs.KindInvalidArgument))
}

func TestFollowTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	svc, _, _, _ := newRelationshipFixture(alice, bob)

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	err := svc.Follow(ctx, alice.ID, bob.ID)
	assert.True(t, errs.Is(err, errs.KindConflict))
}

func TestFollowUnknownUser(t *testing.T) {
	alice := newTestUser("alice")
	svc, _, _, _ := newRelationshipFixture(alice)

	err := svc.Follow(context.Background(), alice.ID, primitive.NewObjectID())
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestUnfollowClearsGateAndPushes(t *testing.T) {
	ctx := context.Background()
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	mutualFollow(alice, bob)
	svc, _, notifStore, dispatcher := newRelationshipFixture(alice, bob)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	ok, err := svc.CanExchangeMessages(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// no notification on unfollow
	notifs, _ := notifStore.List(ctx, bob.ID)
	assert.Empty(t, notifs)

	updates := dispatcher.pushed(realtime.EventFollowUpdate)
	require.Len(t, updates, 1)

	// unfollowing again stays a no-op
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
}
