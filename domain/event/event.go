// Package event defines the inbound units of work produced by the gateway.
// Each event is handled independently; the pipeline keeps no state between
// two events beyond its injected collaborators.
package event

import (
	"chat-guard/domain"
	"time"

	"github.com/google/uuid"
)

// Message is a new or edited message observed in a group chat.
// Text and Caption are mutually optional; a message without either
// carries no moderable content.
type Message struct {
	EventID uuid.UUID
	Chat    domain.ChatID
	User    domain.UserID
	Message domain.MessageID
	Text    string
	Caption string
	At      time.Time

	// Edited marks an edit of a previously observed message.
	// EditedAt is only meaningful when Edited is true.
	Edited   bool
	EditedAt time.Time
}

// Content returns the moderable text of the message, preferring the
// body over the caption.
func (m Message) Content() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// Command is an administrative command addressed to the bot.
type Command struct {
	EventID uuid.UUID
	Chat    domain.ChatID
	User    domain.UserID
	Message domain.MessageID
	Text    string
	At      time.Time
}
