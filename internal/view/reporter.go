package view

import (
	"context"
	"errors"
	"time"

	"github.com/iyunix/go-chatview/internal/metrics"
	"github.com/iyunix/go-chatview/internal/transport"
)

// Logger is the logging surface the view layer needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// EventSink receives errors forwarded to the server log.
type EventSink interface {
	ReportEvent(ctx context.Context, event transport.Event) error
}

// Notice is a user-facing error indication.
type Notice struct {
	Operation string
	Message   string
	At        time.Time
}

const maxNotices = 20

// Reporter is where reconcilers and the controller send the errors they catch.
// It must be used from the loop.
type Reporter struct {
	loop    *Loop
	log     Logger
	sink    EventSink
	timeout time.Duration
	notices []Notice
	onError func(Notice)
	now     func() time.Time
}

func NewReporter(loop *Loop, log Logger) *Reporter {
	return &Reporter{loop: loop, log: log, now: time.Now}
}

// Forward sends every reported error to sink as well.
func (r *Reporter) Forward(sink EventSink, timeout time.Duration) {
	r.sink = sink
	r.timeout = timeout
}

// OnError registers a callback run for each new notice.
func (r *Reporter) OnError(fn func(Notice)) {
	r.onError = fn
}

// Report records err against op. ErrNoActiveView is logged at debug only.
func (r *Reporter) Report(op string, err error, keysAndValues ...interface{}) {
	if err == nil {
		return
	}
	kv := append([]interface{}{"operation", op, "error", err.Error()}, keysAndValues...)
	if errors.Is(err, ErrNoActiveView) {
		r.log.Debug("View not mounted", kv...)
		return
	}

	r.log.Error("View operation failed", kv...)
	metrics.ReportedErrorsTotal.WithLabelValues(op).Inc()

	notice := Notice{Operation: op, Message: err.Error(), At: r.now()}
	r.notices = append(r.notices, notice)
	if len(r.notices) > maxNotices {
		r.notices = r.notices[len(r.notices)-maxNotices:]
	}
	if r.onError != nil {
		r.onError(notice)
	}

	if r.sink != nil {
		r.forward(notice)
	}
}

func (r *Reporter) forward(notice Notice) {
	event := transport.Event{
		Level:   "error",
		Message: notice.Message,
		Context: map[string]any{"operation": notice.Operation},
	}
	Await(r.loop, r.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.sink.ReportEvent(ctx, event)
	}, func(_ struct{}, err error) {
		if err != nil {
			r.log.Warn("Failed to forward client error", "error", err.Error())
		}
	})
}

// Notices returns the most recent notices, oldest first.
func (r *Reporter) Notices() []Notice {
	return append([]Notice(nil), r.notices...)
}

// Last returns the newest notice.
func (r *Reporter) Last() (Notice, bool) {
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
