package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-chatview/internal/transport"
)

// Controller turns user actions into storage calls and triggers the
// reconcilers afterwards. It never touches the containers itself. Every
// method must run on the loop.
type Controller struct {
	loop       *Loop
	api        API
	list       *ListReconciler
	transcript *TranscriptReconciler
	rename     *Dialog
	remove     *Dialog
	reporter   *Reporter
	log        Logger
	timeout    time.Duration
}

func NewController(loop *Loop, doc *Document, api API, list *ListReconciler, transcript *TranscriptReconciler, reporter *Reporter, log Logger, timeout time.Duration) *Controller {
	c := &Controller{
		loop:       loop,
		api:        api,
		list:       list,
		transcript: transcript,
		rename:     NewDialog(doc, RenameDialogID),
		remove:     NewDialog(doc, DeleteDialogID),
		reporter:   reporter,
		log:        log,
		timeout:    timeout,
	}
	list.SetActions(CardActions{
		Open:   c.Open,
		Rename: c.RequestRename,
		Delete: c.RequestDelete,
	})
	return c
}

func (c *Controller) RenameDialog() *Dialog { return c.rename }

func (c *Controller) DeleteDialog() *Dialog { return c.remove }

// Create adds a conversation and refreshes the list. On failure the view is
// left as it was.
func (c *Controller) Create() {
	Await(c.loop, c.timeout, func(ctx context.Context) (*transport.Conversation, error) {
		return c.api.CreateConversation(ctx)
	}, func(conv *transport.Conversation, err error) {
		if err != nil {
			c.reporter.Report("create conversation", err)
			return
		}
		c.log.Info("Conversation created", "conversation_id", conv.ID)
		c.list.Refresh()
	})
}

// Open makes a conversation active and loads its transcript.
func (c *Controller) Open(id uint) {
	c.transcript.Refresh(id)
}

// RequestRename opens the rename dialog for id.
func (c *Controller) RequestRename(id uint, title string) {
	err := c.rename.Open(id, title, title, func(input string, settle func(error)) {
		c.submitRename(id, input, settle)
	})
	if err != nil {
		c.reporter.Report("open rename dialog", err, "conversation_id", id)
	}
}

func (c *Controller) submitRename(id uint, title string, settle func(error)) {
	Await(c.loop, c.timeout, func(ctx context.Context) (*transport.Conversation, error) {
		return c.api.UpdateConversation(ctx, id, title)
	}, func(_ *transport.Conversation, err error) {
		if err != nil {
			c.reporter.Report("rename conversation", err, "conversation_id", id)
		}
		c.list.Refresh()
		settle(err)
	})
}

// ConfirmRename submits the open rename dialog with the new title.
func (c *Controller) ConfirmRename(title string) error {
	return c.rename.Submit(title)
}

// RequestDelete opens the delete dialog for id.
func (c *Controller) RequestDelete(id uint, title string) {
	err := c.remove.Open(id, fmt.Sprintf("Delete %q?", title), "", func(_ string, settle func(error)) {
		c.submitDelete(id, settle)
	})
	if err != nil {
		c.reporter.Report("open delete dialog", err, "conversation_id", id)
	}
}

func (c *Controller) submitDelete(id uint, settle func(error)) {
	Await(c.loop, c.timeout, func(ctx context.Context) (*transport.DeleteResult, error) {
		return c.api.DeleteConversation(ctx, id)
	}, func(_ *transport.DeleteResult, err error) {
		if err != nil {
			c.reporter.Report("delete conversation", err, "conversation_id", id)
		} else if c.transcript.Active() == id {
			c.transcript.Reset()
		}
		c.list.Refresh()
		settle(err)
	})
}

// ConfirmDelete submits the open delete dialog.
func (c *Controller) ConfirmDelete() error {
	return c.remove.Submit("")
}

// Cancel dismisses whichever dialog is open.
func (c *Controller) Cancel() {
	c.rename.Cancel()
	c.remove.Cancel()
}

// Send posts a user message to the active conversation, then refreshes the
// transcript and the list, whose order depends on updated_at.
func (c *Controller) Send(text string) {
	id := c.transcript.Active()
	if id == 0 {
		c.reporter.Report("send message", ErrNoActiveConversation)
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	Await(c.loop, c.timeout, func(ctx context.Context) (*transport.Message, error) {
		return c.api.CreateMessage(ctx, id, text)
	}, func(_ *transport.Message, err error) {
		if err != nil {
			c.reporter.Report("send message", err, "conversation_id", id)
			return
		}
		if c.transcript.Active() == id {
			c.transcript.Refresh(id)
		}
		c.list.Refresh()
	})
}
