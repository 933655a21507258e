package domain

import (
	"fmt"
	"time"
)

// NotificationType tags the event category a notification was produced from.
type NotificationType string

const (
	NotificationFriendRequest    NotificationType = "FRIEND_REQUEST"
	NotificationResponseAccepted NotificationType = "FRIEND_RESPONSE_ACCEPTED"
	NotificationResponseRejected NotificationType = "FRIEND_RESPONSE_REJECTED"
	NotificationNewMessage       NotificationType = "NEW_MESSAGE"
)

// Notification is the durable record of an event delivered to a user.
// Immutable except for the one-way unread -> read transition.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// EventIntent describes "what happened, to whom, with what payload" before it
// is persisted or delivered. One tagged struct covers every event category.
type EventIntent struct {
	Type        NotificationType
	RecipientID string

	// RecipientEmail keys the live delivery channel; the durable row is keyed
	// by RecipientID.
	RecipientEmail string

	// Actor display fields drive the generated copy.
	ActorEmail     string
	ActorFirstName string

	// Body carries the caller-supplied message text for NEW_MESSAGE; ignored
	// for relationship events.
	Body string
}

// Compose renders the user-facing title and message for an intent. The copy
// is a pure function of (type, actor, body) and is relied on verbatim by
// connected clients.
func (i EventIntent) Compose() (title, message string) {
	switch i.Type {
	case NotificationFriendRequest:
		return "new Friend Request 👀", fmt.Sprintf("Request from %s", i.ActorEmail)
	case NotificationResponseAccepted:
		return "your Request Accepted✌", fmt.Sprintf("%s accept you friend request", i.ActorFirstName)
	case NotificationResponseRejected:
		return "your Request rejected💔", fmt.Sprintf("%s reject you friend request", i.ActorFirstName)
	case NotificationNewMessage:
		return fmt.Sprintf("New message 💌:%s", i.ActorEmail), i.Body
	default:
		return string(i.Type), i.Body
	}
}
