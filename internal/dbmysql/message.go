package dbmysql

import (
	"time"

	"matchchat/internal/common"
)

// Message is the durable unit of conversation. Content is stored encrypted
// when IsEncrypted is set; the conversation key itself is never persisted.
type Message struct {
	ID             string             `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string             `gorm:"index:idx_conversation_created;size:80;not null" json:"conversation_id"`
	SenderID       string             `gorm:"index;size:36;not null" json:"sender_id"`
	ReceiverID     string             `gorm:"index;size:36;not null" json:"receiver_id"`
	Content        string             `gorm:"type:text;not null" json:"content"`
	MessageType    common.MessageType `gorm:"size:16;not null" json:"message_type"`
	IsEncrypted    bool               `gorm:"not null;default:false" json:"is_encrypted"`
	IsRead         bool               `gorm:"index;not null;default:false" json:"is_read"`
	IsEdited       bool               `gorm:"not null;default:false" json:"is_edited"`
	EditedAt       *time.Time         `json:"edited_at,omitempty"`
	ReplyTo        *string            `gorm:"size:36" json:"reply_to,omitempty"`

	// DeliveredAt and ReadAt are monotone: filled in at most once, never
	// cleared. ReadAt set implies IsRead implies DeliveredAt set.
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_conversation_created" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
