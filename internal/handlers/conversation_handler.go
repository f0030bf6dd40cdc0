// File: internal/handlers/conversation_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/iyunix/go-chatview/internal/services"
)

type ConversationHandler struct {
	conversations *services.ConversationService
	logger        services.Logger
}

func NewConversationHandler(cs *services.ConversationService, logger services.Logger) *ConversationHandler {
	return &ConversationHandler{conversations: cs, logger: logger}
}

type titleRequest struct {
	Title *string `json:"title"`
}

// CreateConversation accepts an empty body, {} or {"title": "..."}.
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	title := ""
	if req.Title != nil {
		title = *req.Title
	}

	conv, err := h.conversations.CreateConversation(r.Context(), title)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// ListConversations returns one page, most recently updated first.
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	convs, err := h.conversations.ListConversations(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	conv, err := h.conversations.GetConversation(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *ConversationHandler) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == nil {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}

	conv, err := h.conversations.RenameConversation(r.Context(), id, *req.Title)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// DeleteConversation removes a conversation and, with it, its messages.
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.conversations.DeleteConversation(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversation_id": id,
		"message":         "Conversation deleted successfully",
	})
}
