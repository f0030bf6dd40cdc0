package conversation

import (
	"context"

	"github.com/iyunix/go-chatview/internal/domain"
)

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	List(ctx context.Context, offset, limit int) ([]domain.Conversation, error)
	UpdateTitle(ctx context.Context, id uint, title string) (*domain.Conversation, error)
	Delete(ctx context.Context, id uint) error
	TouchUpdatedAt(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
