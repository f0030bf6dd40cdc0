package view

import "errors"

var (
	// ErrNoActiveView is returned when the container a view renders into is
	// not present in the document. It is reported at debug level only.
	ErrNoActiveView = errors.New("no active view")

	// ErrNoActiveConversation is returned by Send when nothing is open.
	ErrNoActiveConversation = errors.New("no conversation is open")

	ErrDialogNotOpen = errors.New("dialog is not awaiting confirmation")
)
