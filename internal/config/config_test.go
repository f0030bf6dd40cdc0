package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CHAT_PAGE_SIZE", "")
	t.Setenv("CHAT_REQUEST_TIMEOUT", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.ResponderEnabled())
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CHAT_PAGE_SIZE", "25")
	t.Setenv("CHAT_REQUEST_TIMEOUT", "3s")
	t.Setenv("CHAT_REMOTE_LOG", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.RemoteLog)
	assert.True(t, cfg.ResponderEnabled())
}

func TestValidateRejectsBadPageSize(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CHAT_PAGE_SIZE", "0")

	_, err := New()
	assert.Error(t, err)
}

func TestBadIntegerFallsBack(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CHAT_PAGE_SIZE", "lots")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
}
