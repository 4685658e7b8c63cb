package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Event string

type Payload interface{}

// Handler transforms a payload. The returned payload is handed to the next
// handler and finally to the caller of Fire.
type Handler func(ctx context.Context, p Payload) (Payload, error)

// Listener observes a payload without altering it.
type Listener func(ctx context.Context, p Payload) error

type Bus struct {
	handlers  map[Event][]Handler
	listeners map[Event][]Listener
	lock      sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers:  map[Event][]Handler{},
		listeners: map[Event][]Listener{},
	}
}

func (b *Bus) On(e Event, h Handler) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.handlers[e] = append(b.handlers[e], h)
}

func (b *Bus) Listen(e Event, l Listener) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.listeners[e] = append(b.listeners[e], l)
}

// Count returns the number of handlers and listeners registered for an event
func (b *Bus) Count(e Event) int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.handlers[e]) + len(b.listeners[e])
}

func (b *Bus) snapshot(e Event) ([]Handler, []Listener) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	hs := make([]Handler, len(b.handlers[e]))
	copy(hs, b.handlers[e])

	ls := make([]Listener, len(b.listeners[e]))
	copy(ls, b.listeners[e])

	return hs, ls
}

// Fire runs the handlers of an event one after the other, threading the
// payload through them. The first failing handler stops the chain.
func (b *Bus) Fire(ctx context.Context, e Event, p Payload) (Payload, error) {
	hs, _ := b.snapshot(e)

	for i, h := range hs {
		if err := ctx.Err(); err != nil {
			return p, err
		}

		np, err := h(ctx, p)
		if err != nil {
			return p, errors.Wrapf(err, "hook %d of %s", i, e)
		}

		p = np
	}

	return p, nil
}

// FireConcurrently runs every listener and handler of an event with the
// same payload. Handler results are discarded.
func (b *Bus) FireConcurrently(ctx context.Context, e Event, p Payload) error {
	hs, ls := b.snapshot(e)

	g, gctx := errgroup.WithContext(ctx)

	for _, l := range ls {
		l := l
		g.Go(func() error { return l(gctx, p) })
	}

	for _, h := range hs {
		h := h
		g.Go(func() error {
			_, err := h(gctx, p)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrapf(err, "event %s", e)
	}

	return nil
}

// On registers a typed handler. The handler fails if it receives a payload
// of another type.
func On[T any](b *Bus, e Event, fn func(ctx context.Context, p T) (T, error)) {
	b.On(e, Typed(e, fn))
}

// Typed adapts a typed transform to a Handler
func Typed[T any](e Event, fn func(ctx context.Context, p T) (T, error)) Handler {
	return func(ctx context.Context, p Payload) (Payload, error) {
		tp, ok := p.(T)
		if !ok {
			var zero T
			return p, fmt.Errorf("event %s: expected payload %T, got %T", e, zero, p)
		}
		return fn(ctx, tp)
	}
}

// Notify adapts a typed observer to a Listener
func Notify[T any](e Event, fn func(ctx context.Context, p T) error) Listener {
	return func(ctx context.Context, p Payload) error {
		tp, ok := p.(T)
		if !ok {
			var zero T
			return fmt.Errorf("event %s: expected payload %T, got %T", e, zero, p)
		}
		return fn(ctx, tp)
	}
}

// Fire fires an event and asserts the resulting payload type
func Fire[T any](ctx context.Context, b *Bus, e Event, p T) (T, error) {
	res, err := b.Fire(ctx, e, p)
	if err != nil {
		return p, err
	}

	tp, ok := res.(T)
	if !ok {
		return p, fmt.Errorf("event %s: handler returned %T, expected %T", e, res, p)
	}

	return tp, nil
}
