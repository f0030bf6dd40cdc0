package view

import (
	"context"
	"strconv"
	"time"

	"github.com/iyunix/go-chatview/internal/fragment"
	"github.com/iyunix/go-chatview/internal/metrics"
	"github.com/iyunix/go-chatview/internal/transport"
)

// DefaultPageSize is how many conversations the list shows.
const DefaultPageSize = 10

// CardActions are the handlers wired into each conversation card.
type CardActions struct {
	Open   func(id uint)
	Rename func(id uint, title string)
	Delete func(id uint, title string)
}

// ListReconciler rebuilds #conversation-list from the first page of
// conversations. Every method must run on the loop.
type ListReconciler struct {
	loop      *Loop
	doc       *Document
	api       ConversationAPI
	fragments FragmentSource
	reporter  *Reporter
	pageSize  int
	timeout   time.Duration
	actions   CardActions

	gen       uint64
	remaining int
	snapshot  Snapshot[CardState]
}

func NewListReconciler(loop *Loop, doc *Document, api ConversationAPI, fragments FragmentSource, reporter *Reporter, pageSize int, timeout time.Duration) *ListReconciler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ListReconciler{
		loop:      loop,
		doc:       doc,
		api:       api,
		fragments: fragments,
		reporter:  reporter,
		pageSize:  pageSize,
		timeout:   timeout,
	}
}

// SetActions replaces the card handlers used by the next refresh.
func (r *ListReconciler) SetActions(actions CardActions) {
	r.actions = actions
}

// Refresh discards the current list and rebuilds it. Completions from an
// earlier Refresh are dropped once a newer one has started.
func (r *ListReconciler) Refresh() {
	r.gen++
	gen := r.gen
	metrics.ReconcileRunsTotal.WithLabelValues("conversation_list").Inc()

	container, err := r.doc.Container(ConversationListID)
	if err != nil {
		r.reporter.Report("refresh conversation list", err)
		return
	}
	container.Clear()
	r.remaining = 0

	Await(r.loop, r.timeout, func(ctx context.Context) ([]transport.Conversation, error) {
		return r.api.ListConversations(ctx, 0, r.pageSize)
	}, func(convs []transport.Conversation, err error) {
		if gen != r.gen {
			metrics.StaleCompletionsTotal.WithLabelValues("conversation_list").Inc()
			return
		}
		if err != nil {
			r.reporter.Report("list conversations", err)
			r.snapshot = newSnapshot[CardState](gen, nil)
			return
		}

		r.remaining = len(convs)
		if len(convs) == 0 {
			r.snapshot = newSnapshot[CardState](gen, nil)
			return
		}
		for i, conv := range convs {
			Await(r.loop, r.timeout, func(ctx context.Context) (*fragment.Component, error) {
				return r.fragments.Load(ctx, fragment.ConversationCard)
			}, func(comp *fragment.Component, err error) {
				r.mount(gen, container, i, conv, comp, err)
			})
		}
	})
}

func (r *ListReconciler) mount(gen uint64, container *Container, order int, conv transport.Conversation, comp *fragment.Component, err error) {
	if gen != r.gen {
		metrics.StaleCompletionsTotal.WithLabelValues("conversation_list").Inc()
		if comp != nil {
			comp.Release()
		}
		return
	}
	defer r.settle(gen, container)

	if err != nil {
		metrics.FragmentFailuresTotal.WithLabelValues(fragment.ConversationCard).Inc()
		r.reporter.Report("load conversation card", err, "conversation_id", conv.ID)
		return
	}
	if current, lookupErr := r.doc.Container(ConversationListID); lookupErr != nil || current != container {
		comp.Release()
		return
	}
	if err := r.fill(comp, conv); err != nil {
		comp.Release()
		r.reporter.Report("render conversation card", err, "conversation_id", conv.ID)
		return
	}
	container.Insert(order, comp)
}

func (r *ListReconciler) fill(comp *fragment.Component, conv transport.Conversation) error {
	if err := comp.SetText("title", conv.Title); err != nil {
		return err
	}
	if err := comp.SetText("timestamp", FormatTimestamp(conv.UpdatedAt)); err != nil {
		return err
	}
	if err := comp.SetValue("id", strconv.FormatUint(uint64(conv.ID), 10)); err != nil {
		return err
	}

	id, title := conv.ID, conv.Title
	if r.actions.Open != nil && comp.HasSlot("open") {
		_ = comp.On("open", func() { r.actions.Open(id) })
	}
	if r.actions.Rename != nil && comp.HasSlot("rename") {
		_ = comp.On("rename", func() { r.actions.Rename(id, title) })
	}
	if r.actions.Delete != nil && comp.HasSlot("delete") {
		_ = comp.On("delete", func() { r.actions.Delete(id, title) })
	}
	return nil
}

func (r *ListReconciler) settle(gen uint64, container *Container) {
	r.remaining--
	if r.remaining == 0 {
		r.snapshot = newSnapshot(gen, captureCards(container))
	}
}

// Snapshot returns the capture of the last completed refresh.
func (r *ListReconciler) Snapshot() Snapshot[CardState] {
	return r.snapshot
}

// Generation returns the number of refreshes started so far.
func (r *ListReconciler) Generation() uint64 {
	return r.gen
}

// Cards returns what the list shows right now.
func (r *ListReconciler) Cards() []CardState {
	container, err := r.doc.Container(ConversationListID)
	if err != nil {
		return nil
	}
	return captureCards(container)
}

// Card returns the mounted card for a conversation id.
func (r *ListReconciler) Card(id uint) (*fragment.Component, bool) {
	container, err := r.doc.Container(ConversationListID)
	if err != nil {
		return nil, false
	}
	want := strconv.FormatUint(uint64(id), 10)
	for _, comp := range container.Components() {
		if comp.Value("id") == want {
			return comp, true
		}
	}
	return nil, false
}

func captureCards(container *Container) []CardState {
	comps := container.Components()
	cards := make([]CardState, 0, len(comps))
	for _, comp := range comps {
		cards = append(cards, CardState{
			ID:        comp.Value("id"),
			Title:     comp.Text("title"),
			Timestamp: comp.Text("timestamp"),
		})
	}
	return cards
}
