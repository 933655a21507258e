package domain

import "time"

// FriendRequestStatus is the lifecycle state of a friend request. Every
// transition out of PENDING is terminal.
type FriendRequestStatus string

const (
	FriendRequestPending   FriendRequestStatus = "PENDING"
	FriendRequestAccepted  FriendRequestStatus = "ACCEPTED"
	FriendRequestRejected  FriendRequestStatus = "REJECTED"
	FriendRequestCancelled FriendRequestStatus = "CANCELLED"
)

// FriendRequest links a sender and a receiver. An ACCEPTED row implies a
// friendship in both directions; the reverse edge is derived, never stored.
type FriendRequest struct {
	ID          string              `json:"id"`
	SenderID    string              `json:"sender_id"`
	ReceiverID  string              `json:"receiver_id"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	RespondedAt *time.Time          `json:"responded_at,omitempty"`
}

func (r *FriendRequest) IsPending() bool {
	return r != nil && r.Status == FriendRequestPending
}

// Involves reports whether the given user is on either side of the request.
func (r *FriendRequest) Involves(userID string) bool {
	return r != nil && (r.SenderID == userID || r.ReceiverID == userID)
}

// Counterpart returns the other side of the request relative to userID.
func (r *FriendRequest) Counterpart(userID string) string {
	if r == nil {
		return ""
	}
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}
