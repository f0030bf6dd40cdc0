package view

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatview/internal/fragment"
	"github.com/iyunix/go-chatview/internal/transport"
)

const testPage = `<!DOCTYPE html><html><head><title>chat</title></head><body>
<ul id="conversation-list"></ul>
<section id="transcript"></section>
<div id="rename-dialog" hidden><p data-slot="subject"></p><input type="text" data-slot="input"><p data-slot="error"></p></div>
<div id="delete-dialog" hidden><p data-slot="subject"></p><p data-slot="error"></p></div>
<p id="status"></p>
</body></html>`

const testCard = `<li class="conversation-card">
<span data-slot="title"></span><time data-slot="timestamp"></time>
<input type="hidden" data-slot="id">
<button data-slot="open">Open</button><button data-slot="rename">Rename</button><button data-slot="delete">Delete</button>
</li>`

const testBubble = `<div class="bubble"><div data-slot="text"></div></div>`

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

// fakeAPI is an in-memory storage service. Conversations are kept most
// recently updated first, like the real server.
type fakeAPI struct {
	mu        sync.Mutex
	nextID    uint
	clock     time.Time
	convs     []transport.Conversation
	msgs      map[uint][]transport.Message
	listCalls int
	updates   []uint

	createErr error
	updateErr error
	deleteErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		msgs:  make(map[uint][]transport.Message),
	}
}

func (f *fakeAPI) tick() string {
	f.clock = f.clock.Add(1500 * time.Millisecond)
	return f.clock.Format(time.RFC3339Nano)
}

func (f *fakeAPI) seed(titles ...string) []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for _, title := range titles {
		f.nextID++
		ts := f.tick()
		conv := transport.Conversation{ID: f.nextID, Title: title, CreatedAt: ts, UpdatedAt: ts}
		f.convs = append([]transport.Conversation{conv}, f.convs...)
		ids = append(ids, conv.ID)
	}
	return ids
}

func (f *fakeAPI) seedMessages(convID uint, texts ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, text := range texts {
		f.nextID++
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		ts := f.tick()
		f.msgs[convID] = append(f.msgs[convID], transport.Message{
			ID: f.nextID, ConversationID: convID, Role: role, Text: text, CreatedAt: ts, UpdatedAt: ts,
		})
	}
}

func (f *fakeAPI) setTitles(titles ...string) {
	f.mu.Lock()
	f.convs = nil
	f.mu.Unlock()
	f.seed(titles...)
}

func (f *fakeAPI) indexOf(id uint) int {
	for i, c := range f.convs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) CreateConversation(ctx context.Context) (*transport.Conversation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	ids := f.seed("New Conversation")
	f.mu.Lock()
	defer f.mu.Unlock()
	conv := f.convs[f.indexOf(ids[0])]
	return &conv, nil
}

func (f *fakeAPI) ListConversations(ctx context.Context, skip, limit int) ([]transport.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if skip > len(f.convs) {
		return []transport.Conversation{}, nil
	}
	end := skip + limit
	if end > len(f.convs) {
		end = len(f.convs)
	}
	return append([]transport.Conversation(nil), f.convs[skip:end]...), nil
}

func (f *fakeAPI) UpdateConversation(ctx context.Context, id uint, title string) (*transport.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return nil, &transport.Error{Type: transport.ErrTypeRequestFailed, Operation: "UpdateConversation", Status: 404}
	}
	conv := f.convs[i]
	conv.Title = title
	conv.UpdatedAt = f.tick()
	f.convs = append(f.convs[:i], f.convs[i+1:]...)
	f.convs = append([]transport.Conversation{conv}, f.convs...)
	return &conv, nil
}

func (f *fakeAPI) DeleteConversation(ctx context.Context, id uint) (*transport.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return nil, &transport.Error{Type: transport.ErrTypeRequestFailed, Operation: "DeleteConversation", Status: 404}
	}
	f.convs = append(f.convs[:i], f.convs[i+1:]...)
	delete(f.msgs, id)
	return &transport.DeleteResult{ConversationID: id, Message: "Conversation deleted successfully"}, nil
}

func (f *fakeAPI) CreateMessage(ctx context.Context, conversationID uint, text string) (*transport.Message, error) {
	f.mu.Lock()
	i := f.indexOf(conversationID)
	f.mu.Unlock()
	if i < 0 {
		return nil, &transport.Error{Type: transport.ErrTypeRequestFailed, Operation: "CreateMessage", Status: 404}
	}
	f.seedMessages(conversationID, text)

	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.msgs[conversationID]
	msg := msgs[len(msgs)-1]
	msg.Role = "user"
	f.msgs[conversationID][len(msgs)-1] = msg
	return &msg, nil
}

func (f *fakeAPI) ListMessages(ctx context.Context, conversationID uint, skip, limit int) ([]transport.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transport.Message{}, f.msgs[conversationID]...), nil
}

// fakeFragments serves the card and bubble templates. With gate set every
// Load blocks until released.
type fakeFragments struct {
	mu      sync.Mutex
	gate    bool
	failOn  int
	calls   int
	waiting []chan struct{}
	loaded  []*fragment.Component
}

func (f *fakeFragments) Load(ctx context.Context, templateID string) (*fragment.Component, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	var ch chan struct{}
	if f.gate {
		ch = make(chan struct{})
		f.waiting = append(f.waiting, ch)
	}
	f.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if n == f.failOn {
		return nil, &fragment.Error{Type: fragment.ErrTypeTemplateUnavailable, TemplateID: templateID, Status: 500}
	}

	markup := testCard
	if templateID == fragment.MessageBubble {
		markup = testBubble
	}
	comp, err := fragment.Parse(templateID, markup)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.loaded = append(f.loaded, comp)
	f.mu.Unlock()
	return comp, nil
}

func (f *fakeFragments) blocked() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiting)
}

func (f *fakeFragments) release(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.waiting[i])
	f.waiting[i] = nil
}

func (f *fakeFragments) releaseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ch := range f.waiting {
		if ch != nil {
			close(ch)
			f.waiting[i] = nil
		}
	}
}

type harness struct {
	api     *fakeAPI
	frags   *fakeFragments
	session *Session
}

func newHarness(t *testing.T, page string) *harness {
	t.Helper()
	doc, err := ParseDocument(page)
	require.NoError(t, err)

	h := &harness{api: newFakeAPI(), frags: &fakeFragments{}}
	h.session = NewSession(doc, h.api, h.frags, nopLogger{}, Options{PageSize: 10, RequestTimeout: 10 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.session.Loop.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		h.frags.releaseAll()
		cancel()
		<-done
	})
	return h
}

func (h *harness) do(fn func()) {
	h.session.Do(fn)
}

// onLoop evaluates fn on the loop without waiting for in-flight I/O.
func onLoop[T any](l *Loop, fn func() T) T {
	ch := make(chan T, 1)
	l.Post(func() { ch <- fn() })
	return <-ch
}

func titles(cards []CardState) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func idString(id uint) string {
	return fmt.Sprintf("%d", id)
}
