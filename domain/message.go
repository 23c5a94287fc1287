package domain

import "time"

// MessageRecord is a snapshot of a message observed in an approved chat.
// EditedAt is set once the first edit is applied; CreatedAt never changes
// afterwards, retention keys off it alone.
type MessageRecord struct {
	Message   MessageID  `json:"message_id"`
	Chat      ChatID     `json:"chat_id"`
	User      UserID     `json:"user_id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}

// MessageKey uniquely addresses a stored snapshot.
type MessageKey struct {
	Chat    ChatID
	Message MessageID
}
