package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatview/internal/domain"
)

func TestOpenAIProviderComplete(t *testing.T) {
	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test"
	cfg.BaseURL = srv.URL
	provider, err := NewOpenAIProvider(cfg)
	require.NoError(t, err)

	reply, err := provider.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Text: "Hello"},
		{Role: domain.RoleAssistant, Text: "Hey"},
		{Role: domain.RoleUser, Text: "How are you?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)

	require.Len(t, received.Messages, 4)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, "assistant", received.Messages[2].Role)
	assert.Equal(t, cfg.Model, received.Model)
}

func TestOpenAIProviderEmptyChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test"
	cfg.BaseURL = srv.URL
	provider, err := NewOpenAIProvider(cfg)
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), nil)
	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrTypeProvider, aiErr.Type)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewOpenAIProvider(cfg)
	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ErrTypeConfig, aiErr.Type)
}
