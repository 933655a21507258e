package domain

import "testing"

func TestComposeCopy(t *testing.T) {
	cases := []struct {
		name    string
		intent  EventIntent
		title   string
		message string
	}{
		{
			name:    "friend request",
			intent:  EventIntent{Type: NotificationFriendRequest, ActorEmail: "alice@example.com"},
			title:   "new Friend Request 👀",
			message: "Request from alice@example.com",
		},
		{
			name:    "accepted",
			intent:  EventIntent{Type: NotificationResponseAccepted, ActorFirstName: "Alice"},
			title:   "your Request Accepted✌",
			message: "Alice accept you friend request",
		},
		{
			name:    "rejected",
			intent:  EventIntent{Type: NotificationResponseRejected, ActorFirstName: "Alice"},
			title:   "your Request rejected💔",
			message: "Alice reject you friend request",
		},
		{
			name:    "new message",
			intent:  EventIntent{Type: NotificationNewMessage, ActorEmail: "alice@example.com", Body: "hi there"},
			title:   "New message 💌:alice@example.com",
			message: "hi there",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			title, message := tc.intent.Compose()
			if title != tc.title {
				t.Fatalf("title = %q, want %q", title, tc.title)
			}
			if message != tc.message {
				t.Fatalf("message = %q, want %q", message, tc.message)
			}
		})
	}
}

func TestTombstone(t *testing.T) {
	got := Tombstone("u-42", "bob@example.com")
	want := "deleted_u-42_bob@example.com"
	if got != want {
		t.Fatalf("Tombstone = %q, want %q", got, want)
	}
}
