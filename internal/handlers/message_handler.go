// File: internal/handlers/message_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iyunix/go-chatview/internal/domain"
	"github.com/iyunix/go-chatview/internal/services"
)

type MessageHandler struct {
	messages *services.MessageService
	logger   services.Logger
}

func NewMessageHandler(ms *services.MessageService, logger services.Logger) *MessageHandler {
	return &MessageHandler{messages: ms, logger: logger}
}

type messageRequest struct {
	ConversationID uint   `json:"conversation_id"`
	Role           string `json:"role"`
	Text           string `json:"text"`
}

// CreateConversationMessage handles POST /conversations/{id}/messages.
func (h *MessageHandler) CreateConversationMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.create(w, r, id, req)
}

// CreateMessage handles the flat POST /messages form, which names the
// conversation in the body.
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ConversationID == 0 {
		writeError(w, "conversation_id is required", http.StatusBadRequest)
		return
	}
	h.create(w, r, req.ConversationID, req)
}

func (h *MessageHandler) create(w http.ResponseWriter, r *http.Request, conversationID uint, req messageRequest) {
	msg, err := h.messages.CreateMessage(r.Context(), conversationID, domain.Role(req.Role), req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// ListMessages handles GET /messages?conversation_id&skip&limit.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	convID, err := strconv.ParseUint(r.URL.Query().Get("conversation_id"), 10, 32)
	if err != nil {
		writeError(w, "conversation_id is required", http.StatusBadRequest)
		return
	}
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	msgs, err := h.messages.ListMessages(r.Context(), uint(convID), skip, limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	msg, err := h.messages.GetMessage(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messages.UpdateMessage(r.Context(), id, req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	if err := h.messages.DeleteMessage(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message_id": id,
		"message":    "Message deleted successfully",
	})
}
