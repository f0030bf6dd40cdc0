package services

import (
	"context"
	"errors"

	"github.com/iyunix/go-chatview/internal/domain"
	"github.com/iyunix/go-chatview/internal/metrics"
	"github.com/iyunix/go-chatview/internal/repository/conversation"
	"github.com/iyunix/go-chatview/internal/repository/message"
	"github.com/iyunix/go-chatview/internal/services/ai"
)

type MessageService struct {
	conversationRepo conversation.ConversationRepository
	messageRepo      message.MessageRepository
	responder        ai.CompletionProvider
	historyLimit     int
	logger           Logger
}

func NewMessageService(
	conversationRepo conversation.ConversationRepository,
	messageRepo message.MessageRepository,
	logger Logger,
) (*MessageService, error) {
	if conversationRepo == nil {
		return nil, NewValidationError("constructor", "conversation repository is required")
	}
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &MessageService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		historyLimit:     10,
		logger:           logger,
	}, nil
}

// WithResponder enables assistant replies to user messages.
func (s *MessageService) WithResponder(responder ai.CompletionProvider, historyLimit int) *MessageService {
	s.responder = responder
	if historyLimit > 0 {
		s.historyLimit = historyLimit
	}
	return s
}

// CreateMessage stores a message and touches its conversation. When a
// responder is configured and the message is from the user, the assistant's
// reply is stored before returning. Responder failures are logged only.
func (s *MessageService) CreateMessage(ctx context.Context, conversationID uint, role domain.Role, text string) (*domain.Message, error) {
	if err := domain.ValidateText(text); err != nil {
		return nil, NewValidationError("create_message", err.Error())
	}
	parsed, err := domain.ParseRole(string(role))
	if err != nil {
		return nil, NewValidationError("create_message", err.Error())
	}

	created, err := s.messageRepo.Create(ctx, &domain.Message{ConversationID: conversationID, Role: parsed, Text: text})
	if err != nil {
		if errors.Is(err, message.ErrUnknownConversation) {
			return nil, NewNotFoundError("create_message", "Conversation not found")
		}
		return nil, NewStorageError("create_message", "Error creating message", err)
	}

	if err := s.conversationRepo.TouchUpdatedAt(ctx, conversationID); err != nil {
		s.logger.Warn("could not touch conversation", "conversation_id", conversationID, "error", err)
	}

	if s.responder != nil && parsed == domain.RoleUser {
		s.respond(ctx, conversationID)
	}

	return created, nil
}

func (s *MessageService) respond(ctx context.Context, conversationID uint) {
	history, err := s.messageRepo.FindRecent(ctx, conversationID, s.historyLimit)
	if err != nil {
		s.logger.Error("could not load history for responder", "conversation_id", conversationID, "error", err)
		return
	}

	reply, err := s.responder.Complete(ctx, history)
	if err != nil {
		metrics.ResponderCallsTotal.WithLabelValues("error").Inc()
		s.logger.Error("responder failed", "conversation_id", conversationID, "error", err)
		return
	}
	metrics.ResponderCallsTotal.WithLabelValues("ok").Inc()

	if _, err := s.messageRepo.Create(ctx, &domain.Message{ConversationID: conversationID, Role: domain.RoleAssistant, Text: reply}); err != nil {
		s.logger.Error("could not store assistant reply", "conversation_id", conversationID, "error", err)
	}
}

// ListMessages returns one page of a conversation's transcript.
func (s *MessageService) ListMessages(ctx context.Context, conversationID uint, skip, limit int) ([]domain.Message, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, NewValidationError("list_messages", err.Error())
	}
	if _, err := s.conversationRepo.FindByID(ctx, conversationID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, NewNotFoundError("list_messages", "Conversation not found")
		}
		return nil, NewStorageError("list_messages", "Error reading messages", err)
	}

	messages, err := s.messageRepo.FindByConversationIDWithPagination(ctx, conversationID, skip, limit)
	if err != nil {
		return nil, NewStorageError("list_messages", "Error reading messages", err)
	}
	return messages, nil
}

func (s *MessageService) GetMessage(ctx context.Context, id uint) (*domain.Message, error) {
	found, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("get_message", err)
	}
	return found, nil
}

func (s *MessageService) UpdateMessage(ctx context.Context, id uint, text string) (*domain.Message, error) {
	if err := domain.ValidateText(text); err != nil {
		return nil, NewValidationError("update_message", err.Error())
	}
	updated, err := s.messageRepo.UpdateText(ctx, id, text)
	if err != nil {
		return nil, s.mapRepoError("update_message", err)
	}
	return updated, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, id uint) error {
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError("delete_message", err)
	}
	return nil
}

func (s *MessageService) mapRepoError(operation string, err error) error {
	if errors.Is(err, message.ErrMessageNotFound) {
		return NewNotFoundError(operation, "Message not found")
	}
	return NewStorageError(operation, "storage failure", err)
}
