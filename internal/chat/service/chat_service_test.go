package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"matchchat/internal/chat/service/mocks"
	"matchchat/internal/common"
	"matchchat/internal/config"
	"matchchat/internal/crypto"
	"matchchat/internal/dbmysql"
	"matchchat/internal/realtime"
)

const testSalt = "test-application-salt"

func testConfig() *config.Config {
	return &config.Config{
		Chat: config.ChatConfig{
			ConversationSalt: testSalt,
			DefaultPageSize:  50,
			MaxPageSize:      100,
		},
	}
}

type failingChannel struct{}

func (failingChannel) IsAvailable() bool { return true }

func (failingChannel) Publish(context.Context, string, string, interface{}) error {
	return errors.New("transport down")
}

func (failingChannel) Subscribe(context.Context, string, string, func([]byte)) (realtime.Unsubscribe, error) {
	return nil, errors.New("transport down")
}

func mustEncrypt(t *testing.T, userA, userB, plaintext string) string {
	t.Helper()
	key, err := crypto.DeriveConversationKey(testSalt, userA, userB)
	require.NoError(t, err)
	sealed, err := crypto.EncryptContent(key, plaintext)
	require.NoError(t, err)
	return sealed
}

func TestChatService_SendMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	channel := realtime.NewMemoryChannel()
	svc := NewChatService(mockRepo, channel, testConfig())

	// The peer is already subscribed to the pair's channel.
	var published []common.NewMessagePayload
	unsub, err := channel.Subscribe(context.Background(), crypto.ChannelName("u1", "u2"), common.EventNewMessage, func(data []byte) {
		var payload common.NewMessagePayload
		require.NoError(t, json.Unmarshal(data, &payload))
		published = append(published, payload)
	})
	require.NoError(t, err)
	defer unsub()

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error) {
			// The store never sees plaintext.
			assert.NotEqual(t, "hello there", msg.Content)
			assert.True(t, msg.IsEncrypted)
			assert.Equal(t, common.MessageTypeText, msg.MessageType)

			msg.ID = "m1"
			msg.ConversationID = crypto.ConversationID(msg.SenderID, msg.ReceiverID)
			msg.CreatedAt = time.Now().UTC()
			return msg, nil
		})

	resp, err := svc.SendMessage(context.Background(), "u1", "u2", "hello there", "text", nil)
	require.NoError(t, err)

	assert.Equal(t, "m1", resp.ID)
	assert.Equal(t, "hello there", resp.Content, "caller gets plaintext back")

	require.Len(t, published, 1)
	assert.Equal(t, "m1", published[0].Message.ID)
	assert.Equal(t, "hello there", published[0].Message.Content)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	svc := NewChatService(mockRepo, realtime.NewMemoryChannel(), testConfig())

	tests := []struct {
		name        string
		senderID    string
		receiverID  string
		content     string
		messageType string
		wantErr     error
	}{
		{"self conversation", "u1", "u1", "hi", "text", common.ErrInvalidInput},
		{"bad sender id", "u 1", "u2", "hi", "text", common.ErrInvalidUserID},
		{"bad receiver id", "u1", "", "hi", "text", common.ErrInvalidUserID},
		{"empty content", "u1", "u2", "", "text", common.ErrValidation},
		{"bad message type", "u1", "u2", "hi", "video", common.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SendMessage(context.Background(), tt.senderID, tt.receiverID, tt.content, tt.messageType, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestChatService_SendMessage_PublishFailureKeepsMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	svc := NewChatService(mockRepo, failingChannel{}, testConfig())

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error) {
			msg.ID = "m1"
			msg.CreatedAt = time.Now().UTC()
			return msg, nil
		})

	resp, err := svc.SendMessage(context.Background(), "u1", "u2", "hello", "text", nil)

	// The persisted write is never rolled back over a lost notification.
	assert.ErrorIs(t, err, common.ErrTransientTransport)
	require.NotNil(t, resp)
	assert.Equal(t, "m1", resp.ID)
	assert.Equal(t, "hello", resp.Content)
}

func TestChatService_GetConversation_DecryptsAndResolvesReplies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	svc := NewChatService(mockRepo, realtime.NewMemoryChannel(), testConfig())

	now := time.Now().UTC()
	deleted := "gone"
	target := "m1"
	stored := []*dbmysql.Message{
		{
			ID: "m3", SenderID: "u1", ReceiverID: "u2",
			Content: mustEncrypt(t, "u1", "u2", "third"), MessageType: common.MessageTypeText,
			IsEncrypted: true, ReplyTo: &deleted, CreatedAt: now,
		},
		{
			ID: "m2", SenderID: "u2", ReceiverID: "u1",
			Content: mustEncrypt(t, "u1", "u2", "second"), MessageType: common.MessageTypeText,
			IsEncrypted: true, ReplyTo: &target, CreatedAt: now.Add(-time.Minute),
		},
		{
			ID: "m1", SenderID: "u1", ReceiverID: "u2",
			Content: mustEncrypt(t, "u1", "u2", "first"), MessageType: common.MessageTypeText,
			IsEncrypted: true, CreatedAt: now.Add(-2 * time.Minute),
		},
	}

	mockRepo.EXPECT().
		ListConversation(gomock.Any(), "u2", "u1", 1, 50).
		Return(stored, false, nil)
	mockRepo.EXPECT().
		ByID(gomock.Any(), "gone").
		Return(nil, common.ErrNotFound)
	mockRepo.EXPECT().
		ByID(gomock.Any(), "m1").
		Return(stored[2], nil)

	messages, hasMore, err := svc.GetConversation(context.Background(), "u2", "u1", 1, 50)
	require.NoError(t, err)
	assert.False(t, hasMore)
	require.Len(t, messages, 3)

	assert.Equal(t, "third", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "first", messages[2].Content)

	// Dangling reply degrades instead of failing the fetch.
	require.NotNil(t, messages[0].ReplyTo)
	assert.False(t, messages[0].ReplyTo.Available)
	assert.Equal(t, "message unavailable", messages[0].ReplyTo.Content)

	require.NotNil(t, messages[1].ReplyTo)
	assert.True(t, messages[1].ReplyTo.Available)
	assert.Equal(t, "first", messages[1].ReplyTo.Content)
}

func TestChatService_MarkMessagesAsRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	channel := realtime.NewMemoryChannel()
	svc := NewChatService(mockRepo, channel, testConfig())

	var events []common.MessagesReadPayload
	unsub, err := channel.Subscribe(context.Background(), crypto.ChannelName("u1", "u2"), common.EventMessagesRead, func(data []byte) {
		var payload common.MessagesReadPayload
		require.NoError(t, json.Unmarshal(data, &payload))
		events = append(events, payload)
	})
	require.NoError(t, err)
	defer unsub()

	readAt := time.Now().UTC()
	mockRepo.EXPECT().
		MarkAllReadFrom(gomock.Any(), "u1", "u2").
		Return(int64(3), nil)
	mockRepo.EXPECT().
		ReadCursor(gomock.Any(), "u1", "u2").
		Return(&dbmysql.ReadCursor{UserID: "u1", FriendID: "u2", LastReadAt: readAt}, nil)

	count, err := svc.MarkMessagesAsRead(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.Len(t, events, 1)
	assert.Equal(t, "u1", events[0].FriendID)

	// Second call with nothing new reads zero rows and stays successful.
	mockRepo.EXPECT().
		MarkAllReadFrom(gomock.Any(), "u1", "u2").
		Return(int64(0), nil)
	mockRepo.EXPECT().
		ReadCursor(gomock.Any(), "u1", "u2").
		Return(&dbmysql.ReadCursor{UserID: "u1", FriendID: "u2", LastReadAt: readAt}, nil)

	count, err = svc.MarkMessagesAsRead(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestChatService_MarkMessagesAsRead_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No repository expectations: validation fails before any store access.
	mockRepo := mocks.NewMockMessageRepository(ctrl)
	svc := NewChatService(mockRepo, realtime.NewMemoryChannel(), testConfig())

	_, err := svc.MarkMessagesAsRead(context.Background(), "not a valid id!", "u2")
	assert.ErrorIs(t, err, common.ErrInvalidUserID)

	_, err = svc.MarkMessagesAsRead(context.Background(), "u1", "")
	assert.ErrorIs(t, err, common.ErrInvalidUserID)
}

func TestChatService_SendTypingStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	channel := realtime.NewMemoryChannel()
	svc := NewChatService(mockRepo, channel, testConfig())

	var events []common.TypingPayload
	unsub, err := channel.Subscribe(context.Background(), crypto.ChannelName("u1", "u2"), common.EventTyping, func(data []byte) {
		var payload common.TypingPayload
		require.NoError(t, json.Unmarshal(data, &payload))
		events = append(events, payload)
	})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, svc.SendTypingStatus(context.Background(), "u1", "u2", true))
	require.NoError(t, svc.SendTypingStatus(context.Background(), "u1", "u2", false))

	require.Len(t, events, 2)
	assert.True(t, events[0].IsTyping)
	assert.False(t, events[1].IsTyping)
	assert.Equal(t, "u1", events[0].UserID)
}

func TestChatService_SendTypingStatus_FireAndForget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	svc := NewChatService(mockRepo, failingChannel{}, testConfig())

	err := svc.SendTypingStatus(context.Background(), "u1", "u2", true)
	assert.ErrorIs(t, err, common.ErrTransientTransport)
}

func TestChatService_EditMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	channel := realtime.NewMemoryChannel()
	svc := NewChatService(mockRepo, channel, testConfig())

	now := time.Now().UTC()
	existing := &dbmysql.Message{
		ID: "m1", SenderID: "u1", ReceiverID: "u2",
		Content: mustEncrypt(t, "u1", "u2", "old"), MessageType: common.MessageTypeText,
		IsEncrypted: true, CreatedAt: now,
	}

	mockRepo.EXPECT().
		ByID(gomock.Any(), "m1").
		Return(existing, nil)
	mockRepo.EXPECT().
		Edit(gomock.Any(), "m1", gomock.Any(), "u1").
		DoAndReturn(func(ctx context.Context, messageID, sealed, editorID string) (*dbmysql.Message, error) {
			assert.NotEqual(t, "updated text", sealed, "edit must be re-encrypted before storage")
			edited := *existing
			edited.Content = sealed
			edited.IsEdited = true
			editedAt := time.Now().UTC()
			edited.EditedAt = &editedAt
			return &edited, nil
		})

	resp, err := svc.EditMessage(context.Background(), "m1", "u1", "updated text")
	require.NoError(t, err)
	assert.Equal(t, "updated text", resp.Content)
	assert.True(t, resp.IsEdited)
}

func TestChatService_EditMessage_ForbiddenPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockMessageRepository(ctrl)
	svc := NewChatService(mockRepo, realtime.NewMemoryChannel(), testConfig())

	existing := &dbmysql.Message{
		ID: "m1", SenderID: "u1", ReceiverID: "u2",
		Content: mustEncrypt(t, "u1", "u2", "old"), MessageType: common.MessageTypeText,
		IsEncrypted: true,
	}

	mockRepo.EXPECT().ByID(gomock.Any(), "m1").Return(existing, nil)
	mockRepo.EXPECT().
		Edit(gomock.Any(), "m1", gomock.Any(), "u2").
		Return(nil, common.ErrForbidden)

	_, err := svc.EditMessage(context.Background(), "m1", "u2", "hijacked")
	assert.ErrorIs(t, err, common.ErrForbidden)
}
