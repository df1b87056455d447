package realtime

// Event names pushed over the realtime channel.
const (
	EventNotification     = "notification"
	EventNewNotification  = "newNotification"
	EventMessageSeen      = "messageSeen"
	EventFollowUpdate     = "followUpdate"
	EventNewPost          = "newPost"
	EventNewRepost        = "newRepost"
	EventPostUpdated      = "postUpdated"
	EventPostDeleted      = "postDeleted"
	EventUserConnected    = "userConnected"
	EventUserDisconnected = "userDisconnected"
)

// ActivityRoom receives a copy of every notification for dashboard
// listeners, instead of broadcasting them to all connections.
const ActivityRoom = "activity"

// UserRoom names the per-user room every connection of that user joins.
func UserRoom(userID string) string {
	return "user:" + userID
}

// ChatRoom names the room for a user pair. The pair is ordered
// canonically so both sides resolve to the same room.
func ChatRoom(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return "chat:" + userA + ":" + userB
}

// ChatEvent names the per-recipient direct message event.
func ChatEvent(recipientID string) string {
	return "chat-" + recipientID
}
