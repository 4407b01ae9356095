package common

import (
	"time"
)

// Realtime event names published on a conversation's private channel.
const (
	EventNewMessage    = "new_message"
	EventMessagesRead  = "messages_read"
	EventTyping        = "typing"
	EventMessageEdited = "message_edited"
)

// One payload struct per event so every shape is checked at compile time
// instead of going through an open map.

type NewMessagePayload struct {
	Message MessageResponse `json:"message"`
}

type MessagesReadPayload struct {
	FriendID string    `json:"friend_id"`
	ReadAt   time.Time `json:"read_at"`
}

// TypingPayload is ephemeral presence: never persisted, most recent state
// wins, superseded events are simply dropped.
type TypingPayload struct {
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

type MessageEditedPayload struct {
	Message MessageResponse `json:"message"`
}
