package view

import (
	"context"
	"time"

	"github.com/iyunix/go-chatview/internal/fragment"
	"github.com/iyunix/go-chatview/internal/metrics"
	"github.com/iyunix/go-chatview/internal/transport"
)

// MaxTranscriptMessages is the page of messages a transcript shows.
const MaxTranscriptMessages = 100

var bubbleRoles = []string{"user", "assistant", "system"}

// roleClass maps a message role onto its bubble class.
func roleClass(role string) string {
	switch role {
	case "user", "assistant":
		return role
	}
	return "system"
}

// TranscriptReconciler rebuilds #transcript for the active conversation.
// Every method must run on the loop.
type TranscriptReconciler struct {
	loop      *Loop
	doc       *Document
	api       MessageAPI
	fragments FragmentSource
	reporter  *Reporter
	timeout   time.Duration

	active    uint
	gen       uint64
	remaining int
	snapshot  Snapshot[BubbleState]
}

func NewTranscriptReconciler(loop *Loop, doc *Document, api MessageAPI, fragments FragmentSource, reporter *Reporter, timeout time.Duration) *TranscriptReconciler {
	return &TranscriptReconciler{
		loop:      loop,
		doc:       doc,
		api:       api,
		fragments: fragments,
		reporter:  reporter,
		timeout:   timeout,
	}
}

// Active returns the open conversation id, 0 when none is open.
func (t *TranscriptReconciler) Active() uint {
	return t.active
}

// Refresh makes conversationID active and rebuilds the transcript for it,
// superseding anything still loading for a previous conversation.
func (t *TranscriptReconciler) Refresh(conversationID uint) {
	t.active = conversationID
	t.gen++
	gen := t.gen
	metrics.ReconcileRunsTotal.WithLabelValues("transcript").Inc()

	container, err := t.doc.Container(TranscriptID)
	if err != nil {
		t.reporter.Report("refresh transcript", err, "conversation_id", conversationID)
		return
	}
	container.Clear()
	t.remaining = 0

	Await(t.loop, t.timeout, func(ctx context.Context) ([]transport.Message, error) {
		return t.api.ListMessages(ctx, conversationID, 0, MaxTranscriptMessages)
	}, func(msgs []transport.Message, err error) {
		if gen != t.gen {
			metrics.StaleCompletionsTotal.WithLabelValues("transcript").Inc()
			return
		}
		if err != nil {
			t.reporter.Report("list messages", err, "conversation_id", conversationID)
			t.snapshot = newSnapshot[BubbleState](gen, nil)
			return
		}

		t.remaining = len(msgs)
		if len(msgs) == 0 {
			t.snapshot = newSnapshot[BubbleState](gen, nil)
			return
		}
		for i, msg := range msgs {
			Await(t.loop, t.timeout, func(ctx context.Context) (*fragment.Component, error) {
				return t.fragments.Load(ctx, fragment.MessageBubble)
			}, func(comp *fragment.Component, err error) {
				t.mount(gen, container, i, msg, comp, err)
			})
		}
	})
}

// Reset clears the transcript and the active conversation. In-flight work
// for the previous conversation is discarded.
func (t *TranscriptReconciler) Reset() {
	t.active = 0
	t.gen++
	t.remaining = 0
	t.snapshot = newSnapshot[BubbleState](t.gen, nil)

	container, err := t.doc.Container(TranscriptID)
	if err != nil {
		t.reporter.Report("reset transcript", err)
		return
	}
	container.Clear()
}

func (t *TranscriptReconciler) mount(gen uint64, container *Container, order int, msg transport.Message, comp *fragment.Component, err error) {
	if gen != t.gen {
		metrics.StaleCompletionsTotal.WithLabelValues("transcript").Inc()
		if comp != nil {
			comp.Release()
		}
		return
	}
	defer t.settle(gen, container)

	if err != nil {
		metrics.FragmentFailuresTotal.WithLabelValues(fragment.MessageBubble).Inc()
		t.reporter.Report("load message bubble", err, "message_id", msg.ID)
		return
	}
	if current, lookupErr := t.doc.Container(TranscriptID); lookupErr != nil || current != container {
		comp.Release()
		return
	}
	if err := fillBubble(comp, msg); err != nil {
		comp.Release()
		t.reporter.Report("render message bubble", err, "message_id", msg.ID)
		return
	}
	container.Insert(order, comp)
}

func fillBubble(comp *fragment.Component, msg transport.Message) error {
	if err := comp.AddClass("", roleClass(msg.Role)); err != nil {
		return err
	}
	if err := comp.SetChildren("text", renderMarkdown(msg.Text)); err != nil {
		return err
	}
	if comp.HasSlot("timestamp") {
		return comp.SetText("timestamp", FormatTimestamp(msg.CreatedAt))
	}
	return nil
}

func (t *TranscriptReconciler) settle(gen uint64, container *Container) {
	t.remaining--
	if t.remaining == 0 {
		t.snapshot = newSnapshot(gen, captureBubbles(container))
	}
}

// Snapshot returns the capture of the last completed refresh or reset.
func (t *TranscriptReconciler) Snapshot() Snapshot[BubbleState] {
	return t.snapshot
}

// Bubbles returns what the transcript shows right now.
func (t *TranscriptReconciler) Bubbles() []BubbleState {
	container, err := t.doc.Container(TranscriptID)
	if err != nil {
		return nil
	}
	return captureBubbles(container)
}

func captureBubbles(container *Container) []BubbleState {
	comps := container.Components()
	bubbles := make([]BubbleState, 0, len(comps))
	for _, comp := range comps {
		state := BubbleState{Text: comp.Text("text")}
		for _, role := range bubbleRoles {
			if comp.HasClass("", role) {
				state.Role = role
				break
			}
		}
		bubbles = append(bubbles, state)
	}
	return bubbles
}
