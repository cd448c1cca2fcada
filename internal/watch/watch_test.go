// ABOUTME: Tests for the latest-value broadcast
// ABOUTME: Covers initial delivery, ordering, conflation, and unsubscribe on cancel

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
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestSubscribe_ReceivesCurrentValue(t *testing.T) {
	v := New("initial")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	assert.Equal(t, "initial", receive(t, ch))
}

func TestSet_VisibleToAllSubscribersBeforeReturn(t *testing.T) {
	v := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := v.Subscribe(ctx)
	b := v.Subscribe(ctx)
	receive(t, a)
	receive(t, b)

	v.Set(42)

	// Already queued, so a non-blocking read must succeed
	select {
	case got := <-a:
		assert.Equal(t, 42, got)
	default:
		t.Fatal("value not queued for subscriber a")
	}
	select {
	case got := <-b:
		assert.Equal(t, 42, got)
	default:
		t.Fatal("value not queued for subscriber b")
	}
}

func TestSet_SlowSubscriberSeesNewestValue(t *testing.T) {
	v := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	for i := 1; i <= 5; i++ {
		v.Set(i)
	}

	assert.Equal(t, 5, receive(t, ch))
	assert.Equal(t, 5, v.Get())
}

func TestSet_OrderPreservedForReadingSubscriber(t *testing.T) {
	v := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	last := receive(t, ch)
	for i := 1; i <= 50; i++ {
		v.Set(i)
		got := receive(t, ch)
		assert.Greater(t, got, last)
		last = got
	}
}

func TestSubscribe_ClosedOnCancel(t *testing.T) {
	v := New("x")
	ctx, cancel := context.WithCancel(context.Background())

	ch := v.Subscribe(ctx)
	receive(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	v.mu.Lock()
	assert.Empty(t, v.subs)
	v.mu.Unlock()

	// Publishing after unsubscribe must not panic
	v.Set("y")
}
