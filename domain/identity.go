// Package domain contains core concepts of the moderation system.
// Identities are opaque values handed to us by the chat gateway;
// equality is by value, nothing here interprets their content.
package domain

import "strconv"

// ChatID identifies a group conversation.
type ChatID string

// UserID identifies a user across all chats.
type UserID int64

// MessageID identifies a message within a chat.
// Unique only per (ChatID, MessageID).
type MessageID int64

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

func (m MessageID) String() string {
	return strconv.FormatInt(int64(m), 10)
}
