package services

import (
	"context"

	"github.com/daniyar-kw/linkup/internal/models"
	"github.com/daniyar-kw/linkup/internal/realtime"
	"github.com/daniyar-kw/linkup/pkg/errs"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageService owns direct messages: sending behind the mutual-follow
// gate, history, read/seen transitions and the chat-list summary.
type MessageService struct {
	messages      MessageStore
	users         UserStore
	posts         PostStore
	notifications *NotificationService
	dispatcher    Dispatcher
}

func NewMessageService(messages MessageStore, users UserStore, posts PostStore, notifications *NotificationService, dispatcher Dispatcher) *MessageService {
	return &MessageService{
		messages:      messages,
		users:         users,
		posts:         posts,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// Send persists a message from sender to recipient and pushes it to the
// recipient's room. The pair must follow each other and the message must
// carry at least one of content, image or shared post.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID primitive.ObjectID, content, imageURL string, postID *primitive.ObjectID) (*models.MessageView, error) {
	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		ImageURL:    imageURL,
		Post:        postID,
	}
	if !msg.HasPayload() {
		return nil, errs.InvalidArgument("message must contain text, an image or a shared post")
	}

	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !Mutual(sender, recipient) {
		return nil, errs.Forbidden("you can only chat with users who follow each other")
	}

	var shared *models.PostSummary
	if postID != nil {
		shared, err = s.loadPostSummary(ctx, *postID)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	// Notification and push are best-effort: the message is already
	// persisted and the send must not fail on delivery plumbing.
	if _, err := s.notifications.Create(ctx, models.NotificationMessage, senderID, recipientID, nil); err != nil {
		logger.Log.WithError(err).Warn("Failed to create message notification")
	}

	view := messageView(msg, sender.Public(), recipient.Public(), shared)
	s.dispatcher.Push(realtime.UserRoom(recipientID.Hex()), realtime.ChatEvent(recipientID.Hex()), view)

	return view, nil
}

// History returns the conversation between two users, oldest first. The
// pair must satisfy the mutual-follow gate.
func (s *MessageService) History(ctx context.Context, userID, otherID primitive.ObjectID) ([]*models.MessageView, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.users.GetUserByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if !Mutual(user, other) {
		return nil, errs.Forbidden("you can only view chats with users who follow each other")
	}

	messages, err := s.messages.Conversation(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	profiles := map[primitive.ObjectID]*models.PublicUser{
		user.ID:  user.Public(),
		other.ID: other.Public(),
	}
	views := make([]*models.MessageView, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		var shared *models.PostSummary
		if msg.Post != nil {
			shared = s.bestEffortPostSummary(ctx, *msg.Post)
		}
		views = append(views, messageView(msg, profiles[msg.SenderID], profiles[msg.RecipientID], shared))
	}
	return views, nil
}

// MarkSeen flips a message's seen flag. Only the recipient may do this;
// the first transition notifies the sender that their message was seen
// and pushes a messageSeen event to the pair's chat room. Marking an
// already-seen message again is a no-op.
func (s *MessageService) MarkSeen(ctx context.Context, messageID, requesterID primitive.ObjectID) (*models.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.RecipientID != requesterID {
		return nil, errs.Forbidden("only the recipient can mark a message as seen")
	}
	if msg.Seen {
		return msg, nil
	}

	if err := s.messages.MarkSeen(ctx, messageID); err != nil {
		return nil, err
	}
	msg.Seen = true

	if _, err := s.notifications.Create(ctx, models.NotificationUnreadMessage, msg.RecipientID, msg.SenderID, nil); err != nil {
		logger.Log.WithError(err).Warn("Failed to create seen notification")
	}

	room := realtime.ChatRoom(msg.SenderID.Hex(), msg.RecipientID.Hex())
	s.dispatcher.Push(room, realtime.EventMessageSeen, map[string]interface{}{
		"messageId": msg.ID.Hex(),
		"seen":      true,
	})

	return msg, nil
}

// MarkAllRead bulk-flags unread messages from sender to recipient as
// read. Idempotent: a repeat call reports zero updates.
func (s *MessageService) MarkAllRead(ctx context.Context, senderID, recipientID primitive.ObjectID) (int64, error) {
	return s.messages.MarkAllRead(ctx, senderID, recipientID)
}

// ListChats summarizes every conversation the user participates in,
// most recently active first.
func (s *MessageService) ListChats(ctx context.Context, userID primitive.ObjectID) ([]*models.ChatSummary, error) {
	messages, err := s.messages.AllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Messages arrive newest first, so the first message per peer is
	// that conversation's last message and peer order is activity order.
	type conversation struct {
		last   *models.Message
		unread int
	}
	grouped := make(map[primitive.ObjectID]*conversation)
	order := make([]primitive.ObjectID, 0)
	for i := range messages {
		msg := &messages[i]
		peerID := msg.SenderID
		if peerID == userID {
			peerID = msg.RecipientID
		}

		conv, ok := grouped[peerID]
		if !ok {
			conv = &conversation{last: msg}
			grouped[peerID] = conv
			order = append(order, peerID)
		}
		if msg.RecipientID == userID && !msg.Read {
			conv.unread++
		}
	}

	if len(order) == 0 {
		return []*models.ChatSummary{}, nil
	}

	participants, err := s.users.GetUsersByIDs(ctx, append(append([]primitive.ObjectID{}, order...), userID))
	if err != nil {
		return nil, err
	}
	profiles := make(map[primitive.ObjectID]*models.PublicUser, len(participants))
	for i := range participants {
		profiles[participants[i].ID] = participants[i].Public()
	}

	result := make([]*models.ChatSummary, 0, len(order))
	for _, peerID := range order {
		conv := grouped[peerID]
		result = append(result, &models.ChatSummary{
			User:        profiles[peerID],
			LastMessage: messageView(conv.last, profiles[conv.last.SenderID], profiles[conv.last.RecipientID], nil),
			UnreadCount: conv.unread,
		})
	}
	return result, nil
}

func (s *MessageService) loadPostSummary(ctx context.Context, postID primitive.ObjectID) (*models.PostSummary, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	summary := post.Summary()
	if author, err := s.users.GetUserByID(ctx, post.Author); err == nil {
		summary.Author = author.Public()
	}
	return summary, nil
}

func (s *MessageService) bestEffortPostSummary(ctx context.Context, postID primitive.ObjectID) *models.PostSummary {
	summary, err := s.loadPostSummary(ctx, postID)
	if err != nil {
		if !errs.Is(err, errs.KindNotFound) {
			logger.Log.WithError(err).Warn("Failed to populate shared post")
		}
		return nil
	}
	return summary
}

func messageView(msg *models.Message, sender, recipient *models.PublicUser, shared *models.PostSummary) *models.MessageView {
	return &models.MessageView{
		ID:        msg.ID,
		Sender:    sender,
		Recipient: recipient,
		Content:   msg.Content,
		ImageURL:  msg.ImageURL,
		Post:      shared,
		Read:      msg.Read,
		Seen:      msg.Seen,
		CreatedAt: msg.CreatedAt,
	}
}
