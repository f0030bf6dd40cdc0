package services

import (
	"context"
	"errors"

	"github.com/iyunix/go-chatview/internal/domain"
	"github.com/iyunix/go-chatview/internal/repository/conversation"
)

// DefaultPageSize is used when a list request carries no limit.
const DefaultPageSize = 10

// MaxPageSize caps the limit of list requests.
const MaxPageSize = 100

type ConversationService struct {
	repo   conversation.ConversationRepository
	logger Logger
}

func NewConversationService(repo conversation.ConversationRepository, logger Logger) (*ConversationService, error) {
	if repo == nil {
		return nil, NewValidationError("constructor", "conversation repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &ConversationService{repo: repo, logger: logger}, nil
}

// CreateConversation stores a new conversation. An empty title gets the default.
func (s *ConversationService) CreateConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	record := &domain.Conversation{Title: domain.DefaultConversationTitle}
	if title != "" {
		normalized, err := domain.NormalizeTitle(title)
		if err != nil {
			return nil, NewValidationError("create_conversation", err.Error())
		}
		record.Title = normalized
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, NewStorageError("create_conversation", "could not create conversation", err)
	}
	s.logger.Info("conversation created", "conversation_id", created.ID)
	return created, nil
}

func (s *ConversationService) ListConversations(ctx context.Context, skip, limit int) ([]domain.Conversation, error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, NewValidationError("list_conversations", err.Error())
	}
	conversations, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, NewStorageError("list_conversations", "could not list conversations", err)
	}
	return conversations, nil
}

func (s *ConversationService) GetConversation(ctx context.Context, id uint) (*domain.Conversation, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("get_conversation", err)
	}
	return found, nil
}

func (s *ConversationService) RenameConversation(ctx context.Context, id uint, title string) (*domain.Conversation, error) {
	normalized, err := domain.NormalizeTitle(title)
	if err != nil {
		return nil, NewValidationError("rename_conversation", err.Error())
	}
	updated, err := s.repo.UpdateTitle(ctx, id, normalized)
	if err != nil {
		return nil, s.mapRepoError("rename_conversation", err)
	}
	s.logger.Info("conversation renamed", "conversation_id", id)
	return updated, nil
}

// DeleteConversation removes a conversation and, in the same transaction, its messages.
func (s *ConversationService) DeleteConversation(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError("delete_conversation", err)
	}
	s.logger.Info("conversation deleted", "conversation_id", id)
	return nil
}

func (s *ConversationService) mapRepoError(operation string, err error) error {
	if errors.Is(err, conversation.ErrConversationNotFound) {
		return NewNotFoundError(operation, "Conversation not found")
	}
	return NewStorageError(operation, "storage failure", err)
}

func validatePage(skip, limit int) error {
	if skip < 0 || limit < 0 {
		return errors.New("invalid skip or limit parameters")
	}
	if limit > MaxPageSize {
		return errors.New("limit exceeds maximum page size")
	}
	return nil
}
