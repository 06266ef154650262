// Package bus carries commands from auxiliary services (file watcher,
// control API) to the window manager's run loop.
package bus

import (
	"context"
	"sync"
)

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: make(map[*subscription[T]]struct{}),
	}
}

// Hub fans out events to every subscriber. Broadcast blocks until each
// subscriber takes the event, unsubscribes, or ctx is done.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*subscription[T]]struct{}
}

type subscription[T any] struct {
	c    chan T
	done chan struct{}
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	subs := make([]*subscription[T], 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sub.done:
		case sub.c <- event:
		}
	}

	return nil
}

func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	sub := &subscription[T]{
		c:    make(chan T),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.c, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.done)
		})
	}
}

func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
