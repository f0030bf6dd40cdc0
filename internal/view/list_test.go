package view

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatview/internal/fragment"
)

func TestListRendersServerOrder(t *testing.T) {
	h := newHarness(t, testPage)
	h.api.seed("first", "second", "third")

	h.do(h.session.List.Refresh)

	cards := h.session.List.Cards()
	assert.Equal(t, []string{"third", "second", "first"}, titles(cards))
	assert.Equal(t, "2024-03-01 | 09:00:04", cards[0].Timestamp)
	assert.Equal(t, idString(3), cards[0].ID)
}

func TestListRefreshIsIdempotent(t *testing.T) {
	h := newHarness(t, testPage)
	h.api.seed("a", "b", "c", "d")

	h.do(h.session.List.Refresh)
	first := h.session.List.Snapshot()
	h.do(h.session.List.Refresh)
	second := h.session.List.Snapshot()

	assert.NotEqual(t, first.Generation(), second.Generation())
	assert.Equal(t, 4, second.Len())
	if diff := cmp.Diff(first.Items(), second.Items()); diff != "" {
		t.Errorf("second render differs (-first +second):\n%s", diff)
	}
	assert.Len(t, h.session.List.Cards(), 4)
}

func TestListIsolatesFailedCard(t *testing.T) {
	h := newHarness(t, testPage)
	h.api.seed("a", "b", "c", "d")
	h.frags.failOn = 2

	h.do(h.session.List.Refresh)

	cards := h.session.List.Cards()
	require.Len(t, cards, 3)

	// Surviving cards keep server order.
	order := map[string]int{"d": 0, "c": 1, "b": 2, "a": 3}
	for i := 1; i < len(cards); i++ {
		assert.Less(t, order[cards[i-1].Title], order[cards[i].Title])
	}

	notice, ok := h.session.Reporter.Last()
	require.True(t, ok)
	assert.Equal(t, "load conversation card", notice.Operation)
	assert.NotEmpty(t, h.session.Status())
}

func TestListDiscardsStaleCompletions(t *testing.T) {
	h := newHarness(t, testPage)
	h.api.seed("old-1", "old-2")
	h.frags.gate = true

	h.session.Loop.Post(h.session.List.Refresh)
	require.Eventually(t, func() bool { return h.frags.blocked() == 2 }, 2*time.Second, 5*time.Millisecond)

	h.api.setTitles("new-1")
	h.session.Loop.Post(h.session.List.Refresh)
	require.Eventually(t, func() bool { return h.frags.blocked() == 3 }, 2*time.Second, 5*time.Millisecond)

	// Let the old generation finish last.
	h.frags.release(2)
	require.Eventually(t, func() bool {
		return onLoop(h.session.Loop, func() int { return len(h.session.List.Cards()) }) == 1
	}, 2*time.Second, 5*time.Millisecond)
	h.frags.release(0)
	h.frags.release(1)
	h.session.Loop.Wait()

	assert.Equal(t, []string{"new-1"}, titles(h.session.List.Cards()))
	assert.Equal(t, []string{"new-1"}, titles(h.session.List.Snapshot().Items()))

	released := 0
	for _, comp := range h.frags.loaded {
		if comp.Released() {
			released++
		}
	}
	assert.Equal(t, 2, released)
}

func TestListAbsentContainerIsNoOp(t *testing.T) {
	h := newHarness(t, `<html><body><section id="transcript"></section></body></html>`)
	h.api.seed("a")

	h.do(h.session.List.Refresh)

	assert.Zero(t, h.api.listCalls)
	assert.Empty(t, h.session.Reporter.Notices())
	assert.Nil(t, h.session.List.Cards())
}

func TestListCardHandlers(t *testing.T) {
	h := newHarness(t, testPage)
	ids := h.api.seed("only")
	h.api.seedMessages(ids[0], "hello")

	h.do(h.session.List.Refresh)

	var card *fragment.Component
	var ok bool
	h.do(func() { card, ok = h.session.List.Card(ids[0]) })
	require.True(t, ok)
	assert.Equal(t, 3, card.ListenerCount())

	h.do(func() { card.Dispatch("open") })

	assert.Equal(t, ids[0], h.session.Transcript.Active())
	assert.Len(t, h.session.Transcript.Bubbles(), 1)

	h.do(h.session.List.Refresh)
	assert.True(t, card.Released())
	assert.Zero(t, card.ListenerCount())
}
