// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// SystemPrompt is sent ahead of the conversation history.
	SystemPrompt string
	// HistoryLimit caps how many prior messages are sent as context.
	HistoryLimit int

	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("OPENAI_MODEL is required")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be at least 1")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:        "gpt-4o-mini",
		SystemPrompt: "You are a helpful assistant. Answer concisely.",
		HistoryLimit: 10,
		Timeout:      60 * time.Second,
		Temperature:  0.3,
		MaxTokens:    1024,
	}
}
