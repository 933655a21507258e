package transport

type ProfileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type FriendRequestCreate struct {
	ReceiverEmail string `json:"receiver_email"`
}

type ChatCreateRequest struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	MemberIDs []string `json:"member_ids"`
}

type ChatPromoteRequest struct {
	UserID string `json:"user_id"`
}

type MessageSendRequest struct {
	Content string `json:"content"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
