// Package client is the embeddable conversation façade used by gateway
// processes and bots. It hides the push-vs-poll decision behind one Start
// call and presents a single merged view of the conversation.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"matchchat/internal/chat/service"
	"matchchat/internal/common"
	"matchchat/internal/config"
	"matchchat/internal/crypto"
	"matchchat/internal/realtime"
)

// Handlers are the callbacks a consumer registers before Start. Nil entries
// are skipped. Callbacks run on the client's delivery path while the client
// lock is held, so they must not call back into the client.
type Handlers struct {
	OnMessage        func(msg *common.MessageResponse)
	OnMessageUpdated func(msg *common.MessageResponse)
	OnMessagesRead   func(readerID string, readAt time.Time)
	OnTyping         func(userID string, isTyping bool)
}

// ChatClient tracks one conversation between userID and friendID. When the
// realtime channel is available it subscribes for push events; otherwise it
// falls back to polling the service. Either way incoming messages are merged
// by id, so re-delivery and push/poll overlap never duplicate a message.
type ChatClient struct {
	svc      service.ChatService
	channel  realtime.Channel
	cfg      *config.Config
	userID   string
	friendID string
	handlers Handlers

	mu        sync.Mutex
	started   bool
	closed    bool
	known     map[string]*common.MessageResponse
	typingGen int
	unsubs    []realtime.Unsubscribe
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewChatClient(svc service.ChatService, channel realtime.Channel, cfg *config.Config, userID, friendID string, handlers Handlers) *ChatClient {
	return &ChatClient{
		svc:      svc,
		channel:  channel,
		cfg:      cfg,
		userID:   userID,
		friendID: friendID,
		handlers: handlers,
		known:    make(map[string]*common.MessageResponse),
	}
}

// Start loads the current backlog, then either subscribes to the pair's
// private channel or launches the poll loop. It may be called once.
func (c *ChatClient) Start(ctx context.Context) error {
	if err := common.ValidateUserID(c.userID); err != nil {
		return err
	}
	if err := common.ValidateUserID(c.friendID); err != nil {
		return err
	}
	if c.userID == c.friendID {
		return fmt.Errorf("%w: cannot open a conversation with yourself", common.ErrInvalidInput)
	}

	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return fmt.Errorf("%w: client already started", common.ErrInvalidInput)
	}
	c.started = true
	c.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	// Subscriptions have no backlog, so the store is consulted first either
	// way. A message published between this fetch and the subscribe below is
	// caught by the merge on the next refresh.
	if err := c.refresh(ctx); err != nil {
		cancel()
		return err
	}

	if !c.channel.IsAvailable() {
		c.wg.Add(1)
		go c.pollLoop(runCtx)
		return nil
	}

	channelName := crypto.ChannelName(c.userID, c.friendID)
	subscriptions := map[string]func([]byte){
		common.EventNewMessage:    c.onNewMessage,
		common.EventMessageEdited: c.onMessageEdited,
		common.EventMessagesRead:  c.onMessagesRead,
		common.EventTyping:        c.onTyping,
	}
	for event, handler := range subscriptions {
		unsub, err := c.channel.Subscribe(runCtx, channelName, event, handler)
		if err != nil {
			c.teardown()
			return fmt.Errorf("subscribe %s: %w", event, err)
		}
		c.mu.Lock()
		c.unsubs = append(c.unsubs, unsub)
		c.mu.Unlock()
	}
	return nil
}

// Stop tears the client down. After Stop returns, no registered handler
// fires again. Safe to call more than once.
func (c *ChatClient) Stop() {
	c.teardown()
	c.wg.Wait()
}

func (c *ChatClient) teardown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.typingGen++ // invalidates any pending expiry timer
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	for _, unsub := range unsubs {
		unsub()
	}
}

// Send forwards to the service and merges the stored message into the local
// view immediately, so the sender sees their own message without waiting for
// the echo. On a transport failure the message is still merged; the error is
// passed through for the caller to inspect.
func (c *ChatClient) Send(ctx context.Context, content, messageType string, replyTo *string) (*common.MessageResponse, error) {
	msg, err := c.svc.SendMessage(ctx, c.userID, c.friendID, content, messageType, replyTo)
	if msg != nil {
		c.mu.Lock()
		c.mergeLocked(msg)
		c.mu.Unlock()
	}
	return msg, err
}

// MarkConversationRead read-marks everything the friend sent.
func (c *ChatClient) MarkConversationRead(ctx context.Context) (int64, error) {
	return c.svc.MarkMessagesAsRead(ctx, c.userID, c.friendID)
}

// SetTyping publishes a typing indicator. Fire-and-forget: a dropped event
// only costs a few seconds of stale presence.
func (c *ChatClient) SetTyping(ctx context.Context, isTyping bool) {
	if err := c.svc.SendTypingStatus(ctx, c.userID, c.friendID, isTyping); err != nil {
		log.Printf("chat client: typing status dropped: %v", err)
	}
}

// Messages returns a snapshot of the merged view, newest first.
func (c *ChatClient) Messages() []*common.MessageResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*common.MessageResponse, 0, len(c.known))
	for _, msg := range c.known {
		copied := *msg
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (c *ChatClient) pollLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Chat.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.refresh(ctx); err != nil && ctx.Err() == nil {
				log.Printf("chat client: poll failed: %v", err)
			}
		}
	}
}

func (c *ChatClient) refresh(ctx context.Context) error {
	messages, _, err := c.svc.GetConversation(ctx, c.userID, c.friendID, 1, 0)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	for _, msg := range messages {
		c.mergeLocked(msg)
	}
	return nil
}

// mergeLocked folds one message into the view. New ids fire OnMessage;
// already-known ids only update mutable fields and fire OnMessageUpdated
// when something actually changed.
func (c *ChatClient) mergeLocked(msg *common.MessageResponse) {
	if c.closed || msg == nil {
		return
	}

	existing, ok := c.known[msg.ID]
	if !ok {
		copied := *msg
		c.known[msg.ID] = &copied
		if c.handlers.OnMessage != nil {
			c.handlers.OnMessage(&copied)
		}
		return
	}

	changed := existing.Content != msg.Content ||
		existing.IsEdited != msg.IsEdited ||
		existing.IsRead != msg.IsRead ||
		!timePtrEqual(existing.EditedAt, msg.EditedAt) ||
		!timePtrEqual(existing.DeliveredAt, msg.DeliveredAt) ||
		!timePtrEqual(existing.ReadAt, msg.ReadAt)
	if !changed {
		return
	}

	existing.Content = msg.Content
	existing.IsEdited = msg.IsEdited
	existing.EditedAt = msg.EditedAt
	existing.IsRead = msg.IsRead
	existing.DeliveredAt = msg.DeliveredAt
	existing.ReadAt = msg.ReadAt
	existing.ReplyTo = msg.ReplyTo
	if c.handlers.OnMessageUpdated != nil {
		copied := *existing
		c.handlers.OnMessageUpdated(&copied)
	}
}

func (c *ChatClient) onNewMessage(data []byte) {
	var payload common.NewMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("chat client: bad new_message payload: %v", err)
		return
	}
	c.mu.Lock()
	c.mergeLocked(&payload.Message)
	c.mu.Unlock()
}

func (c *ChatClient) onMessageEdited(data []byte) {
	var payload common.MessageEditedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("chat client: bad message_edited payload: %v", err)
		return
	}
	c.mu.Lock()
	c.mergeLocked(&payload.Message)
	c.mu.Unlock()
}

func (c *ChatClient) onMessagesRead(data []byte) {
	var payload common.MessagesReadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("chat client: bad messages_read payload: %v", err)
		return
	}
	// Only the peer's read receipts change our sent messages; our own
	// mark-read echoes back on the shared channel and is ignored.
	if payload.FriendID != c.friendID {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, msg := range c.known {
		if msg.SenderID == c.userID && !msg.IsRead && !msg.CreatedAt.After(payload.ReadAt) {
			msg.IsRead = true
			readAt := payload.ReadAt
			msg.ReadAt = &readAt
		}
	}
	if c.handlers.OnMessagesRead != nil {
		c.handlers.OnMessagesRead(payload.FriendID, payload.ReadAt)
	}
}

func (c *ChatClient) onTyping(data []byte) {
	var payload common.TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("chat client: bad typing payload: %v", err)
		return
	}
	if payload.UserID != c.friendID {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.typingGen++
	if c.handlers.OnTyping != nil {
		c.handlers.OnTyping(payload.UserID, payload.IsTyping)
	}
	if !payload.IsTyping {
		return
	}

	// A typing=true without a follow-up expires on its own; the generation
	// counter cancels the timer when a fresher event or Stop arrives first.
	gen := c.typingGen
	time.AfterFunc(c.cfg.Chat.TypingTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.typingGen {
			return
		}
		if c.handlers.OnTyping != nil {
			c.handlers.OnTyping(payload.UserID, false)
		}
	})
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
