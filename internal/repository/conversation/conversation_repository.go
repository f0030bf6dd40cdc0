// File: internal/repository/conversation/conversation_repository.go

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iyunix/go-chatview/internal/domain"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

// MaxPageSize bounds a single List call.
const MaxPageSize = 100

type gormConversationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// Create inserts a conversation, defaulting the title.
func (r *gormConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	if conversation == nil {
		return nil, errors.New("conversation cannot be nil")
	}
	if conversation.Title == "" {
		conversation.Title = domain.DefaultConversationTitle
	}
	title, err := domain.NormalizeTitle(conversation.Title)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	conversation.Title = title

	now := r.now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		log.Printf("[ConversationRepository] Database error during conversation creation: %v", err)
		return nil, errors.New("database error creating conversation")
	}

	log.Printf("[ConversationRepository] Conversation created with ID: %d", conversation.ID)
	return conversation, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, ErrConversationNotFound
	}

	var conversation domain.Conversation
	err := r.db.WithContext(ctx).First(&conversation, id).Error
	return r.handleFindError(err, &conversation, "FindByID")
}

// List returns a page of conversations, most recently updated first.
// Ordering is applied before offset/limit so consecutive pages compose.
func (r *gormConversationRepository) List(ctx context.Context, offset, limit int) ([]domain.Conversation, error) {
	if offset < 0 {
		return nil, errors.New("invalid offset: must be >= 0")
	}
	if limit < 0 || limit > MaxPageSize {
		return nil, fmt.Errorf("invalid limit: must be between 0 and %d", MaxPageSize)
	}

	conversations := make([]domain.Conversation, 0, limit)
	if limit == 0 {
		return conversations, nil
	}

	err := r.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&conversations).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error in paginated query (offset %d, limit %d): %v", offset, limit, err)
		return nil, errors.New("database error retrieving conversations")
	}

	return conversations, nil
}

// UpdateTitle renames a conversation and strictly advances updated_at.
func (r *gormConversationRepository) UpdateTitle(ctx context.Context, id uint, title string) (*domain.Conversation, error) {
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var updated domain.Conversation
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, id).Error; err != nil {
			return err
		}

		stamp := r.nextStamp(updated.UpdatedAt)

		updated.Title = title
		updated.UpdatedAt = stamp
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", id).
			UpdateColumns(map[string]interface{}{"title": title, "updated_at": stamp}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error updating conversation ID %d: %v", id, err)
		return nil, errors.New("database error updating conversation")
	}

	log.Printf("[ConversationRepository] Conversation %d renamed", id)
	return &updated, nil
}

// Delete removes a conversation together with all of its messages.
func (r *gormConversationRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrConversationNotFound
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Conversation{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return err
		}
		log.Printf("[ConversationRepository] Database error deleting conversation ID %d: %v", id, err)
		return errors.New("database error deleting conversation")
	}

	log.Printf("[ConversationRepository] Conversation deleted: ID %d", id)
	return nil
}

// TouchUpdatedAt moves updated_at forward, e.g. after a new message.
func (r *gormConversationRepository) TouchUpdatedAt(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid conversation ID")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Conversation
		if err := tx.Select("id", "updated_at").First(&current, id).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", id).
			UpdateColumn("updated_at", r.nextStamp(current.UpdatedAt)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error updating timestamp for conversation ID %d: %v", id, err)
		return errors.New("database error updating conversation timestamp")
	}
	return nil
}

// nextStamp returns the current time, or current+1µs when the clock has not
// moved past it, so updated_at only ever increases.
func (r *gormConversationRepository) nextStamp(current time.Time) time.Time {
	stamp := r.now()
	if !stamp.After(current) {
		stamp = current.Add(time.Microsecond)
	}
	return stamp
}

func (r *gormConversationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Conversation{}).Count(&count).Error; err != nil {
		log.Printf("[ConversationRepository] Database error counting conversations: %v", err)
		return 0, errors.New("database error counting conversations")
	}
	return count, nil
}

// handleFindError maps gorm's not-found onto the package sentinel and hides driver detail.
func (r *gormConversationRepository) handleFindError(err error, conversation *domain.Conversation, operation string) (*domain.Conversation, error) {
	if err == nil {
		return conversation, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}

	log.Printf("[ConversationRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
