package domain

import "time"

// RedactedMessageContent replaces the text of every message a soft-deleted
// user sent. The original content is unrecoverable afterwards.
const RedactedMessageContent = "[message deleted]"

// Message is a chat message. Only content participates in deletion cascades;
// search and rich content live outside this core.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
