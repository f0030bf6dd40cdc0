package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatview/internal/fragment"
)

func TestContainerInsertKeepsOrder(t *testing.T) {
	doc, err := ParseDocument(testPage)
	require.NoError(t, err)
	container, err := doc.Container(ConversationListID)
	require.NoError(t, err)

	for _, order := range []int{2, 0, 3, 1} {
		comp, err := fragment.Parse("card", testCard)
		require.NoError(t, err)
		require.NoError(t, comp.SetText("title", idString(uint(order))))
		container.Insert(order, comp)
	}

	assert.Equal(t, []string{"0", "1", "2", "3"}, titles(captureCards(container)))

	var rendered []string
	for n := container.node.FirstChild; n != nil; n = n.NextSibling {
		rendered = append(rendered, fragment.TextContent(n))
	}
	require.Len(t, rendered, 4)
	assert.Contains(t, rendered[0], "0")
	assert.Contains(t, rendered[3], "3")
}

func TestContainerClearReleases(t *testing.T) {
	doc, err := ParseDocument(testPage)
	require.NoError(t, err)
	container, err := doc.Container(TranscriptID)
	require.NoError(t, err)

	comp, err := fragment.Parse("bubble", testBubble)
	require.NoError(t, err)
	require.NoError(t, comp.On("text", func() {}))
	container.Insert(0, comp)

	container.Clear()
	assert.Zero(t, container.Len())
	assert.True(t, comp.Released())
	assert.Zero(t, comp.ListenerCount())
	assert.Empty(t, container.HTML())
}

func TestMissingContainer(t *testing.T) {
	doc, err := ParseDocument(`<html><body></body></html>`)
	require.NoError(t, err)

	_, err = doc.Container(ConversationListID)
	assert.ErrorIs(t, err, ErrNoActiveView)
}

func TestContainerIsStable(t *testing.T) {
	doc, err := ParseDocument(testPage)
	require.NoError(t, err)

	a, err := doc.Container(TranscriptID)
	require.NoError(t, err)
	b, err := doc.Container(TranscriptID)
	require.NoError(t, err)
	assert.Same(t, a, b)

	doc.Remove(TranscriptID)
	_, err = doc.Container(TranscriptID)
	assert.ErrorIs(t, err, ErrNoActiveView)
}
