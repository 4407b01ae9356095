package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"matchchat/internal/chat/service"
	"matchchat/internal/common"
	"matchchat/internal/config"
	"matchchat/internal/crypto"
	"matchchat/internal/realtime"
)

// ChatHandler exposes the messaging subsystem over JSON/HTTP.
type ChatHandler struct {
	chatService service.ChatService
	channel     realtime.Channel
	cfg         *config.Config
}

func NewChatHandler(chatService service.ChatService, channel realtime.Channel, cfg *config.Config) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		channel:     channel,
		cfg:         cfg,
	}
}

// RegisterRoutes mounts the chat endpoints on the router.
func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat/messages", h.SendMessage).Methods("POST")
	router.HandleFunc("/chat/messages/{messageId}", h.EditMessage).Methods("PATCH")
	router.HandleFunc("/chat/messages/{messageId}/delivered", h.AcknowledgeDelivery).Methods("POST")
	router.HandleFunc("/chat/messages/{messageId}/read", h.AcknowledgeRead).Methods("POST")
	router.HandleFunc("/chat/conversation/{friendId}", h.GetConversation).Methods("GET")
	router.HandleFunc("/chat/mark-read/{friendId}", h.MarkRead).Methods("POST")
	router.HandleFunc("/chat/typing", h.Typing).Methods("POST")
	router.HandleFunc("/chat/diagnostics", h.Diagnostics).Methods("GET")
}

type sendMessageRequest struct {
	SenderID    string  `json:"sender_id"`
	ReceiverID  string  `json:"receiver_id"`
	Content     string  `json:"content"`
	MessageType string  `json:"message_type"`
	ReplyTo     *string `json:"reply_to,omitempty"`
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MessageType == "" {
		req.MessageType = common.MessageTypeText.String()
	}

	msg, err := h.chatService.SendMessage(r.Context(), req.SenderID, req.ReceiverID, req.Content, req.MessageType, req.ReplyTo)
	if errors.Is(err, common.ErrTransientTransport) {
		// The write landed; only the notification was lost. The peer's next
		// poll surfaces the message, so this is still a success.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":            true,
			"message":            msg,
			"realtime_delivered": false,
		})
		return
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	friendID := mux.Vars(r)["friendId"]
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0) // 0 lets the store apply its default

	messages, hasMore, err := h.chatService.GetConversation(r.Context(), userID, friendID, page, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": messages,
		"has_more": hasMore,
		"page":     page,
	})
}

type markReadRequest struct {
	UserID string `json:"user_id"`
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	friendID := mux.Vars(r)["friendId"]

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	count, err := h.chatService.MarkMessagesAsRead(r.Context(), req.UserID, friendID)
	if errors.Is(err, common.ErrTransientTransport) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":            true,
			"updated":            count,
			"realtime_delivered": false,
		})
		return
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"updated": count,
	})
}

type typingRequest struct {
	UserID   string `json:"user_id"`
	FriendID string `json:"friend_id"`
	IsTyping bool   `json:"is_typing"`
}

func (h *ChatHandler) Typing(w http.ResponseWriter, r *http.Request) {
	var req typingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	err := h.chatService.SendTypingStatus(r.Context(), req.UserID, req.FriendID, req.IsTyping)
	if err != nil && !errors.Is(err, common.ErrTransientTransport) {
		// Lost typing events are acceptable and never retried; only
		// validation failures reach the caller.
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type editMessageRequest struct {
	EditorID string `json:"editor_id"`
	Content  string `json:"content"`
}

func (h *ChatHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["messageId"]

	var req editMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.chatService.EditMessage(r.Context(), messageID, req.EditorID, req.Content)
	if errors.Is(err, common.ErrTransientTransport) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":            true,
			"message":            msg,
			"realtime_delivered": false,
		})
		return
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}

func (h *ChatHandler) AcknowledgeDelivery(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["messageId"]
	if err := h.chatService.AcknowledgeDelivery(r.Context(), messageID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *ChatHandler) AcknowledgeRead(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["messageId"]
	if err := h.chatService.AcknowledgeRead(r.Context(), messageID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Diagnostics reports push availability and round-trips the key derivation
// on two fixed identifiers. A living contract check: the derived value must
// be order-independent and 64 lowercase hex characters.
func (h *ChatHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	forward, errA := crypto.DeriveConversationKey(h.cfg.Chat.ConversationSalt, "diag-user-a", "diag-user-b")
	reverse, errB := crypto.DeriveConversationKey(h.cfg.Chat.ConversationSalt, "diag-user-b", "diag-user-a")

	derivationOK := errA == nil && errB == nil && forward == reverse && len(forward) == 64

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"push_configured":   h.channel.IsAvailable(),
		"key_derivation_ok": derivationOK,
		"key_length":        len(forward),
	})
}

func (h *ChatHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidUserID):
		writeError(w, http.StatusBadRequest, "Invalid user ID")
	case errors.Is(err, common.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not allowed")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		log.Printf("chat handler: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("chat handler: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
