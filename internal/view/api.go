package view

import (
	"context"

	"github.com/iyunix/go-chatview/internal/fragment"
	"github.com/iyunix/go-chatview/internal/transport"
)

// ConversationAPI is the part of the transport client the list and the
// controller use.
type ConversationAPI interface {
	CreateConversation(ctx context.Context) (*transport.Conversation, error)
	ListConversations(ctx context.Context, skip, limit int) ([]transport.Conversation, error)
	UpdateConversation(ctx context.Context, id uint, title string) (*transport.Conversation, error)
	DeleteConversation(ctx context.Context, id uint) (*transport.DeleteResult, error)
}

// MessageAPI is the part of the transport client the transcript uses.
type MessageAPI interface {
	CreateMessage(ctx context.Context, conversationID uint, text string) (*transport.Message, error)
	ListMessages(ctx context.Context, conversationID uint, skip, limit int) ([]transport.Message, error)
}

type API interface {
	ConversationAPI
	MessageAPI
}

// FragmentSource produces components from template identifiers.
type FragmentSource interface {
	Load(ctx context.Context, templateID string) (*fragment.Component, error)
}
