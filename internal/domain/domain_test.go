package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"":          RoleUser,
		"user":      RoleUser,
		"Assistant": RoleAssistant,
		" system ":  RoleSystem,
	}
	for raw, want := range cases {
		got, err := ParseRole(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseRole("invalid")
	assert.Error(t, err)
}

func TestNormalizeTitle(t *testing.T) {
	title, err := NormalizeTitle("  Trip planning ")
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", title)

	_, err = NormalizeTitle("   ")
	assert.ErrorIs(t, err, ErrTitleEmpty)

	_, err = NormalizeTitle(strings.Repeat("a", MaxTitleLength+1))
	assert.ErrorIs(t, err, ErrTitleTooLong)

	_, err = NormalizeTitle("<script>alert(1)</script>")
	assert.ErrorIs(t, err, ErrTitleUnsafe)
}

func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("Hello"))
	assert.ErrorIs(t, ValidateText(""), ErrTextEmpty)
	assert.ErrorIs(t, ValidateText(strings.Repeat(" ", 1001)), ErrTextEmpty)
	assert.ErrorIs(t, ValidateText(strings.Repeat("x", MaxMessageLength+1)), ErrTextTooLong)
}

func TestMessageBefore(t *testing.T) {
	now := time.Now()
	a := Message{ID: 1, CreatedAt: now}
	b := Message{ID: 2, CreatedAt: now}
	c := Message{ID: 0, CreatedAt: now.Add(time.Second)}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.Before(c))
}
