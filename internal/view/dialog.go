package view

import "errors"

type DialogState int

const (
	DialogIdle DialogState = iota
	DialogAwaitingConfirmation
	DialogSubmitting
	DialogSettled
	DialogCancelled
)

func (s DialogState) String() string {
	switch s {
	case DialogIdle:
		return "idle"
	case DialogAwaitingConfirmation:
		return "awaiting_confirmation"
	case DialogSubmitting:
		return "submitting"
	case DialogSettled:
		return "settled"
	case DialogCancelled:
		return "cancelled"
	}
	return "unknown"
}

var ErrDialogBusy = errors.New("dialog is submitting")

// SubmitFunc handles a confirmed dialog. It must call settle exactly once,
// on the loop, when the action has finished.
type SubmitFunc func(input string, settle func(error))

// Dialog is a confirmation surface bound to one conversation at a time. It
// holds at most one submit listener; each Open replaces the previous one.
type Dialog struct {
	id      string
	doc     *Document
	state   DialogState
	target  uint
	submit  SubmitFunc
	lastErr error
	onTrans func(from, to DialogState)
}

func NewDialog(doc *Document, id string) *Dialog {
	return &Dialog{id: id, doc: doc}
}

// OnTransition registers a callback for every state change.
func (d *Dialog) OnTransition(fn func(from, to DialogState)) {
	d.onTrans = fn
}

func (d *Dialog) State() DialogState { return d.state }

// Target returns the conversation the dialog is bound to.
func (d *Dialog) Target() uint { return d.target }

// LastError returns the outcome of the most recent submission.
func (d *Dialog) LastError() error { return d.lastErr }

func (d *Dialog) ListenerCount() int {
	if d.submit == nil {
		return 0
	}
	return 1
}

// Open shows the dialog for target. subject and prefill fill the subject and
// input slots when the markup has them.
func (d *Dialog) Open(target uint, subject, prefill string, submit SubmitFunc) error {
	el, err := d.doc.Element(d.id)
	if err != nil {
		return err
	}
	if d.state == DialogSubmitting {
		return ErrDialogBusy
	}

	d.submit = submit
	d.target = target
	d.lastErr = nil

	removeAttr(el, "hidden")
	if n := findSlot(el, "subject"); n != nil {
		setText(n, subject)
	}
	if n := findSlot(el, "input"); n != nil {
		setAttr(n, "value", prefill)
	}
	if n := findSlot(el, "error"); n != nil {
		setText(n, "")
	}
	d.transition(DialogAwaitingConfirmation)
	return nil
}

// Submit confirms the dialog. The listener is consumed; the dialog closes
// when it settles, whatever the outcome.
func (d *Dialog) Submit(input string) error {
	if d.state != DialogAwaitingConfirmation {
		return ErrDialogNotOpen
	}
	if el, err := d.doc.Element(d.id); err == nil {
		if n := findSlot(el, "input"); n != nil {
			setAttr(n, "value", input)
		}
	}

	submit := d.submit
	d.submit = nil
	d.transition(DialogSubmitting)

	settled := false
	submit(input, func(err error) {
		if settled {
			return
		}
		settled = true
		d.lastErr = err
		d.transition(DialogSettled)
		d.close(err)
		d.transition(DialogIdle)
	})
	return nil
}

// Cancel dismisses an open dialog without submitting.
func (d *Dialog) Cancel() {
	if d.state != DialogAwaitingConfirmation {
		return
	}
	d.submit = nil
	d.transition(DialogCancelled)
	d.close(nil)
	d.transition(DialogIdle)
}

func (d *Dialog) close(err error) {
	el, lookupErr := d.doc.Element(d.id)
	if lookupErr != nil {
		return
	}
	setAttr(el, "hidden", "")
	if n := findSlot(el, "error"); n != nil && err != nil {
		setText(n, err.Error())
	}
}

func (d *Dialog) transition(to DialogState) {
	from := d.state
	d.state = to
	if d.onTrans != nil {
		d.onTrans(from, to)
	}
}
