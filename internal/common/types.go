package common

import (
	"time"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
	MessageTypeAudio MessageType = "audio"
)

func (mt MessageType) IsValid() bool {
	switch mt {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeAudio:
		return true
	}
	return false
}

func (mt MessageType) String() string {
	return string(mt)
}

// ReplyPreview is what a reader sees for a message's replyTo target. The
// reference is weak: when the target is gone the preview says so instead of
// failing the whole fetch.
type ReplyPreview struct {
	MessageID string `json:"message_id"`
	SenderID  string `json:"sender_id,omitempty"`
	Content   string `json:"content"`
	Available bool   `json:"available"`
}

// MessageResponse is the message shape handed to handlers, realtime payloads
// and clients. Content here is always plaintext; the encrypted form never
// leaves the store layer.
type MessageResponse struct {
	ID          string        `json:"id"`
	SenderID    string        `json:"sender_id"`
	ReceiverID  string        `json:"receiver_id"`
	Content     string        `json:"content"`
	MessageType string        `json:"message_type"`
	IsRead      bool          `json:"is_read"`
	IsEdited    bool          `json:"is_edited"`
	EditedAt    *time.Time    `json:"edited_at,omitempty"`
	ReplyTo     *ReplyPreview `json:"reply_to,omitempty"`
	DeliveredAt *time.Time    `json:"delivered_at,omitempty"`
	ReadAt      *time.Time    `json:"read_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
