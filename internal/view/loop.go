package view

import (
	"context"
	"sync"
	"time"
)

// Loop runs view tasks one at a time on a single goroutine. Network work runs
// elsewhere and posts its completion back as a task, so view state is only
// ever touched from Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	signal  chan struct{}
	pending int
	stopped bool
	idle    *sync.Cond
}

func NewLoop() *Loop {
	l := &Loop{signal: make(chan struct{}, 1)}
	l.idle = sync.NewCond(&l.mu)
	return l
}

// Post queues fn. It is safe to call from any goroutine. Tasks posted after
// Run has returned are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.pending++
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Run executes queued tasks until ctx is done. Tasks still queued at that
// point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
			l.finish()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}
	}
}

// Wait blocks until no task is queued and no I/O is in flight, or until the
// loop has stopped.
func (l *Loop) Wait() {
	l.mu.Lock()
	for l.pending > 0 && !l.stopped {
		l.idle.Wait()
	}
	l.mu.Unlock()
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.pending -= len(l.queue)
	l.queue = nil
	l.idle.Broadcast()
	l.mu.Unlock()
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) begin() {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
}

func (l *Loop) finish() {
	l.mu.Lock()
	l.pending--
	if l.pending == 0 {
		l.idle.Broadcast()
	}
	l.mu.Unlock()
}

// Await runs call on its own goroutine, bounded by timeout when positive, and
// posts then back onto the loop with the result. The completion is queued
// before the I/O is marked finished so Wait never observes a gap.
func Await[T any](l *Loop, timeout time.Duration, call func(context.Context) (T, error), then func(T, error)) {
	l.begin()
	go func() {
		defer l.finish()

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		v, err := call(ctx)
		l.Post(func() { then(v, err) })
	}()
}
