package services

import (
	"context"
	"sort"
	"time"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes mirroring the repository contracts, plus a
// dispatcher that records every push for assertions.

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errs.NotFound("user not found")
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errs.NotFound("user not found")
}

func (s *fakeUserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) Follow(_ context.Context, followerID, targetID primitive.ObjectID) error {
	follower, ok := s.users[followerID]
	target, ok2 := s.users[targetID]
	if !ok || !ok2 {
		return errs.NotFound("user not found")
	}
	if !follower.IsFollowing(targetID) {
		follower.Following = append(follower.Following, targetID)
	}
	found := false
	for _, id := range target.Followers {
		if id == followerID {
			found = true
		}
	}
	if !found {
		target.Followers = append(target.Followers, followerID)
	}
	return nil
}

func (s *fakeUserStore) Unfollow(_ context.Context, followerID, targetID primitive.ObjectID) error {
	follower, ok := s.users[followerID]
	target, ok2 := s.users[targetID]
	if !ok || !ok2 {
		return errs.NotFound("user not found")
	}
	follower.Following = removeID(follower.Following, targetID)
	target.Followers = removeID(target.Followers, followerID)
	return nil
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type fakeNotificationStore struct {
	lists map[primitive.ObjectID][]models.Notification
}

func newFakeNotificationStore(userIDs ...primitive.ObjectID) *fakeNotificationStore {
	s := &fakeNotificationStore{lists: make(map[primitive.ObjectID][]models.Notification)}
	for _, id := range userIDs {
		s.lists[id] = []models.Notification{}
	}
	return s
}

func (s *fakeNotificationStore) Prepend(_ context.Context, userID primitive.ObjectID, notif *models.Notification) error {
	list, ok := s.lists[userID]
	if !ok {
		return errs.NotFound("user not found")
	}
	s.lists[userID] = append([]models.Notification{*notif}, list...)
	return nil
}

func (s *fakeNotificationStore) List(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	list, ok := s.lists[userID]
	if !ok {
		return nil, errs.NotFound("user not found")
	}
	out := make([]models.Notification, len(list))
	copy(out, list)
	return out, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, userID, notifID primitive.ObjectID) error {
	list, ok := s.lists[userID]
	if !ok {
		return errs.NotFound("user not found")
	}
	for i := range list {
		if list[i].ID == notifID {
			list[i].Read = true
			return nil
		}
	}
	return errs.NotFound("notification not found")
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context, userID primitive.ObjectID) (int64, error) {
	list, ok := s.lists[userID]
	if !ok {
		return 0, errs.NotFound("user not found")
	}
	var count int64
	for i := range list {
		if !list[i].Read {
			list[i].Read = true
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) PruneRead(_ context.Context, cutoff time.Time) (int64, error) {
	var touched int64
	for userID, list := range s.lists {
		kept := list[:0]
		pruned := false
		for _, n := range list {
			if n.Read && n.CreatedAt.Before(cutoff) {
				pruned = true
				continue
			}
			kept = append(kept, n)
		}
		if pruned {
			touched++
		}
		s.lists[userID] = kept
	}
	return touched, nil
}

type fakeMessageStore struct {
	messages []*models.Message
	nextSeq  int
}

func (s *fakeMessageStore) Insert(_ context.Context, msg *models.Message) (*models.Message, error) {
	msg.ID = primitive.NewObjectID()
	if msg.CreatedAt.IsZero() {
		s.nextSeq++
		msg.CreatedAt = time.Now().Add(time.Duration(s.nextSeq) * time.Millisecond)
	}
	stored := *msg
	s.messages = append(s.messages, &stored)
	return msg, nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Message, error) {
	for _, m := range s.messages {
		if m.ID == id {
			out := *m
			return &out, nil
		}
	}
	return nil, errs.NotFound("message not found")
}

func (s *fakeMessageStore) Conversation(_ context.Context, userID, otherID primitive.ObjectID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range s.messages {
		if (m.SenderID == userID && m.RecipientID == otherID) || (m.SenderID == otherID && m.RecipientID == userID) {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeMessageStore) AllForUser(_ context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range s.messages {
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeMessageStore) MarkSeen(_ context.Context, id primitive.ObjectID) error {
	for _, m := range s.messages {
		if m.ID == id {
			m.Seen = true
			return nil
		}
	}
	return errs.NotFound("message not found")
}

func (s *fakeMessageStore) MarkAllRead(_ context.Context, senderID, recipientID primitive.ObjectID) (int64, error) {
	var count int64
	for _, m := range s.messages {
		if m.SenderID == senderID && m.RecipientID == recipientID && !m.Read {
			m.Read = true
			count++
		}
	}
	return count, nil
}

type fakePostStore struct {
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostStore(posts ...*models.Post) *fakePostStore {
	s := &fakePostStore{posts: make(map[primitive.ObjectID]*models.Post)}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (s *fakePostStore) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, errs.NotFound("post not found")
	}
	out := *p
	return &out, nil
}

func (s *fakePostStore) AddRepost(_ context.Context, postID, userID primitive.ObjectID) error {
	p, ok := s.posts[postID]
	if !ok {
		return errs.NotFound("post not found")
	}
	if !p.RepostedBy(userID) {
		p.Reposts = append(p.Reposts, userID)
	}
	p.RepostsCount++
	return nil
}

func (s *fakePostStore) RemoveRepost(_ context.Context, postID, userID primitive.ObjectID) error {
	p, ok := s.posts[postID]
	if !ok {
		return errs.NotFound("post not found")
	}
	p.Reposts = removeID(p.Reposts, userID)
	p.RepostsCount--
	return nil
}

type pushRecord struct {
	Room    string
	Event   string
	Payload interface{}
}

type fakeDispatcher struct {
	pushes     []pushRecord
	broadcasts []pushRecord
}

func (d *fakeDispatcher) Push(room, event string, payload interface{}) {
	d.pushes = append(d.pushes, pushRecord{Room: room, Event: event, Payload: payload})
}

func (d *fakeDispatcher) Broadcast(event string, payload interface{}) {
	d.broadcasts = append(d.broadcasts, pushRecord{Event: event, Payload: payload})
}

func (d *fakeDispatcher) pushed(event string) []pushRecord {
	var out []pushRecord
	for _, p := range d.pushes {
		if p.Event == event {
			out = append(out, p)
		}
	}
	return out
}

// newTestUser builds a user with a fresh ID.
func newTestUser(username string) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		FullName: username,
		Email:    username + "@example.com",
	}
}

// mutualFollow wires both directions of the relationship.
func mutualFollow(a, b *models.User) {
	a.Following = append(a.Following, b.ID)
	b.Followers = append(b.Followers, a.ID)
	b.Following = append(b.Following, a.ID)
	a.Followers = append(a.Followers, b.ID)
}
