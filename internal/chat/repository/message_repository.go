package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"matchchat/internal/common"
	"matchchat/internal/config"
	"matchchat/internal/crypto"
	"matchchat/internal/dbmysql"
)

// MessageRepository owns Message and ReadCursor records. No business policy
// lives here; callers decide what gets written and when events go out.
type MessageRepository interface {
	Create(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error)
	ByID(ctx context.Context, messageID string) (*dbmysql.Message, error)
	ListConversation(ctx context.Context, userID, friendID string, page, pageSize int) ([]*dbmysql.Message, bool, error)
	MarkDelivered(ctx context.Context, messageID string) error
	MarkRead(ctx context.Context, messageID string) error
	MarkAllReadFrom(ctx context.Context, userID, friendID string) (int64, error)
	Edit(ctx context.Context, messageID, newContent, editorID string) (*dbmysql.Message, error)
	ReadCursor(ctx context.Context, userID, friendID string) (*dbmysql.ReadCursor, error)
}

type messageRepo struct {
	db              *gorm.DB
	defaultPageSize int
	maxPageSize     int
}

func NewMessageRepository(db *gorm.DB, cfg *config.Config) MessageRepository {
	defaultSize := cfg.Chat.DefaultPageSize
	if defaultSize <= 0 {
		defaultSize = 50
	}
	maxSize := cfg.Chat.MaxPageSize
	if maxSize <= 0 {
		maxSize = 100
	}
	return &messageRepo{
		db:              db,
		defaultPageSize: defaultSize,
		maxPageSize:     maxSize,
	}
}

func (r *messageRepo) Create(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error) {
	if msg.SenderID == "" {
		return nil, fmt.Errorf("%w: sender ID is required", common.ErrValidation)
	}
	if msg.ReceiverID == "" {
		return nil, fmt.Errorf("%w: receiver ID is required", common.ErrValidation)
	}
	if msg.Content == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}
	if !msg.MessageType.IsValid() {
		return nil, fmt.Errorf("%w: unknown message type %q", common.ErrValidation, msg.MessageType)
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.ConversationID == "" {
		msg.ConversationID = crypto.ConversationID(msg.SenderID, msg.ReceiverID)
	}
	msg.CreatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (r *messageRepo) ByID(ctx context.Context, messageID string) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).Where("id = ?", messageID).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: message %s", common.ErrNotFound, messageID)
	}
	if err != nil {
		return nil, fmt.Errorf("load message: %w", err)
	}
	return &msg, nil
}

// ListConversation pages the pair's messages newest first. Fetches one row
// beyond the page to compute hasMore without a count query.
func (r *messageRepo) ListConversation(ctx context.Context, userID, friendID string, page, pageSize int) ([]*dbmysql.Message, bool, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = r.defaultPageSize
	}
	if pageSize > r.maxPageSize {
		pageSize = r.maxPageSize
	}

	conversationID := crypto.ConversationID(userID, friendID)

	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize + 1).
		Find(&messages).Error
	if err != nil {
		return nil, false, fmt.Errorf("list conversation: %w", err)
	}

	hasMore := len(messages) > pageSize
	if hasMore {
		messages = messages[:pageSize]
	}
	return messages, hasMore, nil
}

// MarkDelivered stamps delivered_at at most once. Calling it again is a
// no-op, not an error.
func (r *messageRepo) MarkDelivered(ctx context.Context, messageID string) error {
	res := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ? AND delivered_at IS NULL", messageID).
		Update("delivered_at", time.Now().UTC())
	if res.Error != nil {
		return fmt.Errorf("mark delivered: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.ensureExists(ctx, messageID)
	}
	return nil
}

// MarkRead stamps read_at at most once and backfills delivered_at, since a
// read message was necessarily delivered.
func (r *messageRepo) MarkRead(ctx context.Context, messageID string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ? AND read_at IS NULL", messageID).
		Updates(map[string]interface{}{
			"delivered_at": gorm.Expr("COALESCE(delivered_at, ?)", now),
			"is_read":      true,
			"read_at":      now,
		})
	if res.Error != nil {
		return fmt.Errorf("mark read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.ensureExists(ctx, messageID)
	}
	return nil
}

// MarkAllReadFrom read-marks every unread message the friend sent to the
// user and bumps the pair's read cursor. A single UPDATE under read-committed
// isolation: a message created mid-call is either caught here or stays unread
// for the next call, and no row is updated twice. Benign race, no lock.
func (r *messageRepo) MarkAllReadFrom(ctx context.Context, userID, friendID string) (int64, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", userID, friendID, false).
		Updates(map[string]interface{}{
			"delivered_at": gorm.Expr("COALESCE(delivered_at, ?)", now),
			"is_read":      true,
			"read_at":      now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("mark all read: %w", res.Error)
	}

	cursor := dbmysql.ReadCursor{
		UserID:     userID,
		FriendID:   friendID,
		LastReadAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_read_at"}),
		}).
		Create(&cursor).Error
	if err != nil {
		return 0, fmt.Errorf("upsert read cursor: %w", err)
	}

	return res.RowsAffected, nil
}

func (r *messageRepo) Edit(ctx context.Context, messageID, newContent, editorID string) (*dbmysql.Message, error) {
	if newContent == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}

	msg, err := r.ByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != editorID {
		return nil, fmt.Errorf("%w: only the sender can edit a message", common.ErrForbidden)
	}

	now := time.Now().UTC()
	err = r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"content":   newContent,
			"edited_at": now,
			"is_edited": true,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("edit message: %w", err)
	}

	msg.Content = newContent
	msg.IsEdited = true
	msg.EditedAt = &now
	return msg, nil
}

func (r *messageRepo) ReadCursor(ctx context.Context, userID, friendID string) (*dbmysql.ReadCursor, error) {
	var cursor dbmysql.ReadCursor
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		First(&cursor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no read cursor for pair", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load read cursor: %w", err)
	}
	return &cursor, nil
}

func (r *messageRepo) ensureExists(ctx context.Context, messageID string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ?", messageID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check message: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: message %s", common.ErrNotFound, messageID)
	}
	return nil
}
