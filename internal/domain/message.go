// File: internal/domain/message.go
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role attributes a message to one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MaxMessageLength caps the text of a single message.
const MaxMessageLength = 4000

var (
	ErrTextEmpty   = errors.New("text must not be empty")
	ErrTextTooLong = errors.New("text must be 4000 characters or less")
)

// ParseRole maps a wire value onto a Role. An empty value means RoleUser.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAssistant:
		return RoleAssistant, nil
	case RoleSystem:
		return RoleSystem, nil
	}
	return "", fmt.Errorf("role must be one of user, assistant, system: got %q", raw)
}

// Message represents a single utterance within a conversation.
type Message struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	Role           Role      `json:"role" gorm:"not null;size:16"`
	Text           string    `json:"text" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null"`
}

// ValidateText checks message content the same way on create and update.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextEmpty
	}
	if len([]rune(text)) > MaxMessageLength {
		return ErrTextTooLong
	}
	return nil
}

// Before reports whether m sorts before other in transcript order.
func (m Message) Before(other Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}
