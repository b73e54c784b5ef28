package watch

import (
	"context"
	"sync"
)

// Subject is a current-value cell with subscribers. A new subscriber
// immediately receives the current value, then every subsequent Set in
// commit order. Slow subscribers are conflated to the latest value;
// missed intermediate values are not buffered.
type Subject[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

// NewSubject creates a Subject holding the given initial value
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value: initial,
		subs:  make(map[int]chan T),
	}
}

// Value returns the current value
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores a new current value and publishes it to all subscribers
func (s *Subject[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	for _, ch := range s.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		// Channel full: replace the pending value with the latest one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel. The current
// value is delivered immediately. The subscription ends when ctx is
// cancelled, at which point the channel is closed.
func (s *Subject[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	ch <- s.value
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}
