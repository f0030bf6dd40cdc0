package view

import (
	"time"

	"github.com/iyunix/go-chatview/internal/fragment"
)

// Options configures a Session.
type Options struct {
	PageSize       int
	RequestTimeout time.Duration
	// Sink, when set, receives every reported error.
	Sink EventSink
}

// Session wires the loop, the document and the views together.
type Session struct {
	Loop       *Loop
	Document   *Document
	Reporter   *Reporter
	List       *ListReconciler
	Transcript *TranscriptReconciler
	Controller *Controller
}

func NewSession(doc *Document, api API, fragments FragmentSource, log Logger, opts Options) *Session {
	loop := NewLoop()
	reporter := NewReporter(loop, log)
	if opts.Sink != nil {
		reporter.Forward(opts.Sink, opts.RequestTimeout)
	}
	reporter.OnError(func(n Notice) {
		if el, err := doc.Element(StatusID); err == nil {
			setText(el, n.Operation+": "+n.Message)
		}
	})

	list := NewListReconciler(loop, doc, api, fragments, reporter, opts.PageSize, opts.RequestTimeout)
	transcript := NewTranscriptReconciler(loop, doc, api, fragments, reporter, opts.RequestTimeout)
	controller := NewController(loop, doc, api, list, transcript, reporter, log, opts.RequestTimeout)

	return &Session{
		Loop:       loop,
		Document:   doc,
		Reporter:   reporter,
		List:       list,
		Transcript: transcript,
		Controller: controller,
	}
}

// Status returns the text of the #status element.
func (s *Session) Status() string {
	el, err := s.Document.Element(StatusID)
	if err != nil {
		return ""
	}
	return fragment.TextContent(el)
}

// Do runs fn on the loop and waits until it and everything it started are
// done.
func (s *Session) Do(fn func()) {
	s.Loop.Post(fn)
	s.Loop.Wait()
}
