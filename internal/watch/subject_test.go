package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
		panic("unreachable")
	}
}

func TestSubscribeReplaysCurrentValue(t *testing.T) {
	s := NewSubject(42)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	assert.Equal(t, 42, receive(t, ch))
}

func TestSubscriberSeesSubsequentSets(t *testing.T) {
	s := NewSubject(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	require.Equal(t, 1, receive(t, ch))

	s.Set(2)
	assert.Equal(t, 2, receive(t, ch))

	s.Set(3)
	assert.Equal(t, 3, receive(t, ch))
}

func TestSlowSubscriberGetsLatestValueOnly(t *testing.T) {
	s := NewSubject(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	// Nothing consumed yet: the pending initial value is replaced as new
	// values arrive
	s.Set(2)
	s.Set(3)

	assert.Equal(t, 3, receive(t, ch))
}

func TestValueReflectsLatestSet(t *testing.T) {
	s := NewSubject("a")
	s.Set("b")
	assert.Equal(t, "b", s.Value())
}

func TestCancelledSubscriptionStopsDelivery(t *testing.T) {
	s := NewSubject(1)

	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)
	require.Equal(t, 1, receive(t, ch))

	cancel()

	// The channel closes once the subscription is removed
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel never closed after cancel")
		}
	}
}

func TestIndependentSubscribers(t *testing.T) {
	s := NewSubject(0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := s.Subscribe(ctx)
	b := s.Subscribe(ctx)
	require.Equal(t, 0, receive(t, a))
	require.Equal(t, 0, receive(t, b))

	s.Set(7)
	assert.Equal(t, 7, receive(t, a))
	assert.Equal(t, 7, receive(t, b))
}
