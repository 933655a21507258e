package domain

import "time"

// ChatType distinguishes two-party conversations from groups.
type ChatType string

const (
	ChatTypePrivate ChatType = "PRIVATE"
	ChatTypeGroup   ChatType = "GROUP"
)

// ParticipantRole is the role a user holds inside a chat.
type ParticipantRole string

const (
	RoleMember ParticipantRole = "MEMBER"
	RoleAdmin  ParticipantRole = "ADMIN"
)

// ParticipationStatus tracks membership independent of the chat or user rows.
type ParticipationStatus string

const (
	ParticipationActive ParticipationStatus = "ACTIVE"
	ParticipationLeft   ParticipationStatus = "LEFT"
)

// Chat is a conversation container. A PRIVATE chat has exactly two
// participants for its whole lifetime; this is enforced at creation.
type Chat struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      ChatType  `json:"type"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Chat) IsGroup() bool {
	return c != nil && c.Type == ChatTypeGroup
}

// ChatParticipation is the (chat, user) relation carrying role and status.
type ChatParticipation struct {
	ChatID   string              `json:"chat_id"`
	UserID   string              `json:"user_id"`
	Role     ParticipantRole     `json:"role"`
	Status   ParticipationStatus `json:"status"`
	JoinedAt time.Time           `json:"joined_at"`
	LeftAt   *time.Time          `json:"left_at,omitempty"`
}

func (p *ChatParticipation) IsActiveAdmin() bool {
	return p != nil && p.Status == ParticipationActive && p.Role == RoleAdmin
}
