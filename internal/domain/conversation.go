// File: internal/domain/conversation.go
package domain

import (
	"errors"
	"strings"
	"time"
)

// DefaultConversationTitle is assigned when a conversation is created without a title.
const DefaultConversationTitle = "New Conversation"

// MaxTitleLength caps conversation titles.
const MaxTitleLength = 200

var (
	ErrTitleEmpty   = errors.New("title must not be empty")
	ErrTitleTooLong = errors.New("title must be 200 characters or less")
	ErrTitleUnsafe  = errors.New("invalid characters detected in title")
)

// Conversation represents a single titled thread of messages.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Title     string    `json:"title" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;index"`

	Messages []Message `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// NormalizeTitle trims the title and checks it against the title rules.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleEmpty
	}
	if len([]rune(title)) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:") {
		return "", ErrTitleUnsafe
	}
	return title, nil
}
