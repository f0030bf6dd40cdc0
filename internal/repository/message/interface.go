// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/iyunix/go-chatview/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	FindByConversationIDWithPagination(ctx context.Context, conversationID uint, offset, limit int) ([]domain.Message, error)
	FindRecent(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error)
	UpdateText(ctx context.Context, messageID uint, text string) (*domain.Message, error)
	Delete(ctx context.Context, messageID uint) error
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
}
