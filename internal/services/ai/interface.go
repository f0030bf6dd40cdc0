package ai

import (
	"context"

	"github.com/iyunix/go-chatview/internal/domain"
)

// CompletionProvider produces the assistant's next turn from a transcript.
type CompletionProvider interface {
	Complete(ctx context.Context, history []domain.Message) (string, error)
}
