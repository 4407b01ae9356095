package service

import (
	"context"
	"fmt"
	"log"

	"matchchat/internal/chat/repository"
	"matchchat/internal/common"
	"matchchat/internal/config"
	"matchchat/internal/crypto"
	"matchchat/internal/dbmysql"
	"matchchat/internal/realtime"
)

const replyUnavailableText = "message unavailable"

// ChatService defines the interface exposed to the handler layer. It is a
// stateless orchestrator over the message store, the key deriver and the
// realtime channel; it owns no records of its own.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID, content, messageType string, replyTo *string) (*common.MessageResponse, error)
	GetConversation(ctx context.Context, userID, friendID string, page, pageSize int) ([]*common.MessageResponse, bool, error)
	MarkMessagesAsRead(ctx context.Context, userID, friendID string) (int64, error)
	SendTypingStatus(ctx context.Context, userID, friendID string, isTyping bool) error
	EditMessage(ctx context.Context, messageID, editorID, newContent string) (*common.MessageResponse, error)
	AcknowledgeDelivery(ctx context.Context, messageID string) error
	AcknowledgeRead(ctx context.Context, messageID string) error
}

type chatService struct {
	repo    repository.MessageRepository
	channel realtime.Channel
	salt    string
}

// Constructor used in DI/wire
func NewChatService(repo repository.MessageRepository, channel realtime.Channel, cfg *config.Config) ChatService {
	return &chatService{
		repo:    repo,
		channel: channel,
		salt:    cfg.Chat.ConversationSalt,
	}
}

// SendMessage validates, encrypts under the pair's derived key, persists,
// then publishes new_message. The publish is best-effort: when it fails the
// persisted message is still returned alongside ErrTransientTransport, and
// the peer picks the message up on its next poll. Never retried here; an
// automatic retry could duplicate a send that already landed.
func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID, content, messageType string, replyTo *string) (*common.MessageResponse, error) {
	if err := s.validatePair(senderID, receiverID); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", common.ErrValidation)
	}
	if err := common.ValidateMessageType(messageType); err != nil {
		return nil, err
	}

	key, err := crypto.DeriveConversationKey(s.salt, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	sealed, err := crypto.EncryptContent(key, content)
	if err != nil {
		return nil, fmt.Errorf("encrypt content: %w", err)
	}

	msg := &dbmysql.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     sealed,
		MessageType: common.MessageType(messageType),
		IsEncrypted: true,
		ReplyTo:     replyTo, // weak reference, dangling is tolerated
	}
	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(ctx, created, key)

	channelName := crypto.ChannelName(senderID, receiverID)
	if err := s.channel.Publish(ctx, channelName, common.EventNewMessage, common.NewMessagePayload{Message: *resp}); err != nil {
		log.Printf("chat: new_message publish failed for %s: %v", created.ID, err)
		return resp, fmt.Errorf("%w: message stored, notification not delivered", common.ErrTransientTransport)
	}
	return resp, nil
}

// GetConversation returns a page of the pair's history, newest first,
// decrypted with the re-derived conversation key.
func (s *chatService) GetConversation(ctx context.Context, userID, friendID string, page, pageSize int) ([]*common.MessageResponse, bool, error) {
	if err := s.validatePair(userID, friendID); err != nil {
		return nil, false, err
	}

	key, err := crypto.DeriveConversationKey(s.salt, userID, friendID)
	if err != nil {
		return nil, false, err
	}

	messages, hasMore, err := s.repo.ListConversation(ctx, userID, friendID, page, pageSize)
	if err != nil {
		return nil, false, err
	}

	responses := make([]*common.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, s.toResponse(ctx, msg, key))
	}
	return responses, hasMore, nil
}

// MarkMessagesAsRead read-marks everything the friend sent to the user and
// tells the friend over messages_read so their delivery ticks update without
// polling. Idempotent: a second call affects zero rows.
func (s *chatService) MarkMessagesAsRead(ctx context.Context, userID, friendID string) (int64, error) {
	if err := common.ValidateUserID(userID); err != nil {
		return 0, err
	}
	if err := common.ValidateUserID(friendID); err != nil {
		return 0, err
	}

	count, err := s.repo.MarkAllReadFrom(ctx, userID, friendID)
	if err != nil {
		return 0, err
	}

	cursor, err := s.repo.ReadCursor(ctx, userID, friendID)
	if err != nil {
		return count, err
	}

	channelName := crypto.ChannelName(userID, friendID)
	payload := common.MessagesReadPayload{FriendID: userID, ReadAt: cursor.LastReadAt}
	if err := s.channel.Publish(ctx, channelName, common.EventMessagesRead, payload); err != nil {
		log.Printf("chat: messages_read publish failed for %s/%s: %v", userID, friendID, err)
		return count, fmt.Errorf("%w: read state stored, notification not delivered", common.ErrTransientTransport)
	}
	return count, nil
}

// SendTypingStatus is fire-and-forget presence: no persistence, no store
// read, delivery attempted once and never retried. A stale "was typing"
// replay would be worse than a lost event.
func (s *chatService) SendTypingStatus(ctx context.Context, userID, friendID string, isTyping bool) error {
	if err := common.ValidateUserID(userID); err != nil {
		return err
	}
	if err := common.ValidateUserID(friendID); err != nil {
		return err
	}

	channelName := crypto.ChannelName(userID, friendID)
	payload := common.TypingPayload{UserID: userID, IsTyping: isTyping}
	if err := s.channel.Publish(ctx, channelName, common.EventTyping, payload); err != nil {
		log.Printf("chat: typing publish failed for %s/%s: %v", userID, friendID, err)
		return fmt.Errorf("%w: typing event not delivered", common.ErrTransientTransport)
	}
	return nil
}

// EditMessage re-encrypts the new content under the same derived key and
// publishes message_edited so peers converge without a refresh.
func (s *chatService) EditMessage(ctx context.Context, messageID, editorID, newContent string) (*common.MessageResponse, error) {
	if err := common.ValidateUserID(editorID); err != nil {
		return nil, err
	}
	if newContent == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", common.ErrValidation)
	}

	existing, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveConversationKey(s.salt, existing.SenderID, existing.ReceiverID)
	if err != nil {
		return nil, err
	}
	sealed := newContent
	if existing.IsEncrypted {
		if sealed, err = crypto.EncryptContent(key, newContent); err != nil {
			return nil, fmt.Errorf("encrypt content: %w", err)
		}
	}

	edited, err := s.repo.Edit(ctx, messageID, sealed, editorID)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(ctx, edited, key)

	channelName := crypto.ChannelName(edited.SenderID, edited.ReceiverID)
	if err := s.channel.Publish(ctx, channelName, common.EventMessageEdited, common.MessageEditedPayload{Message: *resp}); err != nil {
		log.Printf("chat: message_edited publish failed for %s: %v", messageID, err)
		return resp, fmt.Errorf("%w: edit stored, notification not delivered", common.ErrTransientTransport)
	}
	return resp, nil
}

func (s *chatService) AcknowledgeDelivery(ctx context.Context, messageID string) error {
	return s.repo.MarkDelivered(ctx, messageID)
}

func (s *chatService) AcknowledgeRead(ctx context.Context, messageID string) error {
	return s.repo.MarkRead(ctx, messageID)
}

func (s *chatService) validatePair(userID, friendID string) error {
	if err := common.ValidateUserID(userID); err != nil {
		return err
	}
	if err := common.ValidateUserID(friendID); err != nil {
		return err
	}
	if userID == friendID {
		return fmt.Errorf("%w: sender and receiver must differ", common.ErrInvalidInput)
	}
	return nil
}

// toResponse decrypts for the caller and resolves the reply reference. A
// dangling or unreadable target degrades to "message unavailable" instead of
// failing the fetch.
func (s *chatService) toResponse(ctx context.Context, msg *dbmysql.Message, key string) *common.MessageResponse {
	content := msg.Content
	if msg.IsEncrypted {
		plaintext, err := crypto.DecryptContent(key, msg.Content)
		if err != nil {
			log.Printf("chat: cannot decrypt message %s: %v", msg.ID, err)
			content = replyUnavailableText
		} else {
			content = plaintext
		}
	}

	resp := &common.MessageResponse{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		ReceiverID:  msg.ReceiverID,
		Content:     content,
		MessageType: msg.MessageType.String(),
		IsRead:      msg.IsRead,
		IsEdited:    msg.IsEdited,
		EditedAt:    msg.EditedAt,
		DeliveredAt: msg.DeliveredAt,
		ReadAt:      msg.ReadAt,
		CreatedAt:   msg.CreatedAt,
	}

	if msg.ReplyTo != nil {
		resp.ReplyTo = s.resolveReply(ctx, *msg.ReplyTo, key)
	}
	return resp
}

func (s *chatService) resolveReply(ctx context.Context, replyID, key string) *common.ReplyPreview {
	target, err := s.repo.ByID(ctx, replyID)
	if err != nil {
		return &common.ReplyPreview{
			MessageID: replyID,
			Content:   replyUnavailableText,
			Available: false,
		}
	}

	content := target.Content
	if target.IsEncrypted {
		plaintext, err := crypto.DecryptContent(key, target.Content)
		if err != nil {
			return &common.ReplyPreview{
				MessageID: replyID,
				Content:   replyUnavailableText,
				Available: false,
			}
		}
		content = plaintext
	}

	return &common.ReplyPreview{
		MessageID: replyID,
		SenderID:  target.SenderID,
		Content:   content,
		Available: true,
	}
}
