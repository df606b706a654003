package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alvaro-reta/solari-market/internal/service"
)

// MessageHandler exposes direct messages between users.
type MessageHandler struct {
	messages *service.MessageService
	logger   *slog.Logger
}

func NewMessageHandler(messages *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

type sendMessageRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
	ItemID  string `json:"itemId"`
}

// HandleSend sends a message from the caller to another user.
//
// HTTP: POST /api/messages
// REQUEST BODY: {"to","content","itemId"} — itemId optional.
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid message JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	msg, err := h.messages.Send(r.Context(), user, req.To, req.Content, req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": msg})
}

// HandleConversation returns the caller's full exchange with another user,
// oldest first. Messages addressed to the caller come back marked read.
//
// HTTP: GET /api/messages/conversation/{userId}
func (h *MessageHandler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	views, err := h.messages.Conversation(r.Context(), user, r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": views,
		"count":    len(views),
	})
}
