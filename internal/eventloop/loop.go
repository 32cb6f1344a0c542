// Package eventloop is the shell's single-threaded scheduler. Every lifecycle
// and window event is delivered through one Loop, and handlers run strictly
// one at a time on the goroutine that called Run. Handlers must not block.
package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned when work is submitted to a loop that has stopped.
var ErrStopped = errors.New("event loop stopped")

// Source identifies who an event is about: the application or one window.
type Source string

// Kind is the event name within a source.
type Kind string

// Handler is invoked on the loop goroutine for each matching event.
type Handler func()

type key struct {
	source Source
	kind   Kind
}

type subscription struct {
	id      uint64
	handler Handler
	once    bool
}

// Loop is a registry of (source, kind) handlers plus a FIFO task queue.
type Loop struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[key][]subscription
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

// New creates a loop. A nil logger discards debug output.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		logger: logger,
		subs:   make(map[key][]subscription),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// On registers h for every (source, kind) event. The returned func removes it.
func (l *Loop) On(source Source, kind Kind, h Handler) (cancel func()) {
	return l.subscribe(source, kind, h, false)
}

// Once registers h for the next (source, kind) event only.
func (l *Loop) Once(source Source, kind Kind, h Handler) (cancel func()) {
	return l.subscribe(source, kind, h, true)
}

func (l *Loop) subscribe(source Source, kind Kind, h Handler, once bool) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	k := key{source: source, kind: kind}
	l.subs[k] = append(l.subs[k], subscription{id: id, handler: h, once: once})

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.remove(k, id)
	}
}

// remove drops subscription id. Caller holds l.mu.
func (l *Loop) remove(k key, id uint64) {
	list := l.subs[k]
	for i, s := range list {
		if s.id == id {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(l.subs, k)
		return
	}
	l.subs[k] = list
}

// RemoveSource drops every subscription for source.
func (l *Loop) RemoveSource(source Source) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.subs {
		if k.source == source {
			delete(l.subs, k)
		}
	}
}

// Emit queues delivery of (source, kind). Safe from any goroutine. Handlers
// are resolved when the event is delivered, not when it is emitted.
func (l *Loop) Emit(source Source, kind Kind) {
	l.Post(func() { l.deliver(source, kind) })
}

// Post queues fn to run on the loop. It reports false if the loop stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued work until Stop is called or ctx is cancelled. Panics
// raised by handlers are not recovered here.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for l.RunPending() > 0 {
		}

		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
		}
	}
}

// RunPending executes the tasks queued so far on the calling goroutine and
// returns how many ran. It must not be called concurrently with Run.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0
	}
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for i, fn := range batch {
		if l.stopped() {
			return i
		}
		fn()
	}
	return len(batch)
}

func (l *Loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Stop ends Run. Work queued afterwards is rejected.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	close(l.done)
}

// Done is closed once the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) deliver(source Source, kind Kind) {
	k := key{source: source, kind: kind}

	l.mu.Lock()
	list := l.subs[k]
	handlers := make([]Handler, 0, len(list))
	for _, s := range list {
		handlers = append(handlers, s.handler)
		if s.once {
			l.remove(k, s.id)
		}
	}
	l.mu.Unlock()

	if len(handlers) == 0 {
		l.logger.Debug("event without handlers", "source", source, "kind", kind)
		return
	}
	for _, h := range handlers {
		h()
	}
}
