// File: internal/repository/message/message_repository.go

package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iyunix/go-chatview/internal/domain"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound     = errors.New("message not found")
	ErrUnknownConversation = errors.New("conversation not found")
)

// MaxPageSize bounds a single paginated query.
const MaxPageSize = 100

type gormMessageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates and inserts a message. The conversation must exist.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Conversation{}).Where("id = ?", message.ConversationID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUnknownConversation
		}

		now := r.now()
		message.CreatedAt = now
		message.UpdatedAt = now
		return tx.Create(message).Error
	})
	if err != nil {
		if errors.Is(err, ErrUnknownConversation) {
			return nil, err
		}
		// Message content stays out of the log.
		log.Printf("[MessageRepository] Database error during message creation for conversation ID %d: %v", message.ConversationID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created with ID: %d for conversation: %d", message.ID, message.ConversationID)
	return message, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.Message, error) {
	if messageID == 0 {
		return nil, ErrMessageNotFound
	}

	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, messageID).Error
	return r.handleFindError(err, &message, "FindByID")
}

// FindByConversationIDWithPagination returns messages in transcript order (created_at, id).
func (r *gormMessageRepository) FindByConversationIDWithPagination(ctx context.Context, conversationID uint, offset, limit int) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	if offset < 0 {
		return nil, errors.New("invalid offset: must be >= 0")
	}
	if limit < 0 || limit > MaxPageSize {
		return nil, fmt.Errorf("invalid limit: must be between 0 and %d", MaxPageSize)
	}

	messages := make([]domain.Message, 0, limit)
	if limit == 0 {
		return messages, nil
	}

	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error in paginated query for conversation ID %d: %v", conversationID, err)
		return nil, errors.New("database error retrieving paginated messages")
	}

	return messages, nil
}

// FindRecent returns the last limit messages, still in transcript order.
func (r *gormMessageRepository) FindRecent(ctx context.Context, conversationID uint, limit int) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = 10
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for conversation ID %d: %v", conversationID, err)
		return nil, errors.New("database error finding recent messages")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *gormMessageRepository) UpdateText(ctx context.Context, messageID uint, text string) (*domain.Message, error) {
	if err := domain.ValidateText(text); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var updated domain.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, messageID).Error; err != nil {
			return err
		}
		stamp := r.now()
		if !stamp.After(updated.UpdatedAt) {
			stamp = updated.UpdatedAt.Add(time.Microsecond)
		}
		updated.Text = text
		updated.UpdatedAt = stamp
		return tx.Model(&domain.Message{}).
			Where("id = ?", messageID).
			UpdateColumns(map[string]interface{}{"text": text, "updated_at": stamp}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] Database error updating message ID %d: %v", messageID, err)
		return nil, errors.New("database error updating message")
	}

	log.Printf("[MessageRepository] Message updated with ID: %d", messageID)
	return &updated, nil
}

func (r *gormMessageRepository) Delete(ctx context.Context, messageID uint) error {
	if messageID == 0 {
		return ErrMessageNotFound
	}

	result := r.db.WithContext(ctx).Delete(&domain.Message{}, messageID)
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting message ID %d: %v", messageID, result.Error)
		return errors.New("database error deleting message")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	log.Printf("[MessageRepository] Message deleted: ID %d", messageID)
	return nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, conversationID uint) (int64, error) {
	if conversationID == 0 {
		return 0, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for conversation ID %d: %v", conversationID, err)
		return 0, errors.New("database error counting conversation messages")
	}
	return count, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ConversationID == 0 {
		return errors.New("conversation ID is required")
	}
	role, err := domain.ParseRole(string(message.Role))
	if err != nil {
		return err
	}
	message.Role = role
	return domain.ValidateText(message.Text)
}

func (r *gormMessageRepository) handleFindError(err error, message *domain.Message, operation string) (*domain.Message, error) {
	if err == nil {
		return message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	log.Printf("[MessageRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
