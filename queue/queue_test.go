// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/xcall/payload"
	"code.hybscloud.com/xcall/ringbuf"
)

func newTestRing(t *testing.T, capacity int) *ringbuf.Ring {
	t.Helper()
	r, err := ringbuf.New(capacity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestWriteQueuePushReadQueueNext(t *testing.T) {
	r := newTestRing(t, 8)
	wq := NewWriteQueue(r)
	defer wq.Close()
	rq := NewReadQueue(r)

	waiter, ready := wq.Push(payload.Payload{CallID: 42})
	require.True(t, ready)
	require.Nil(t, waiter)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p, err := rq.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(42), p.CallID)
}

func TestPendingTaskCompletesOncePopped(t *testing.T) {
	r := newTestRing(t, 2)
	wq := NewWriteQueue(r)
	defer wq.Close()
	rq := NewReadQueue(r)

	_, ready1 := wq.Push(payload.Payload{CallID: 1})
	_, ready2 := wq.Push(payload.Payload{CallID: 2})
	require.True(t, ready1)
	require.True(t, ready2)

	// ring is now full (capacity 2); this push must be deferred.
	waiter, ready3 := wq.Push(payload.Payload{CallID: 3})
	require.False(t, ready3)
	require.NotNil(t, waiter)
	require.False(t, waiter.Done())

	done := make(chan struct{})
	waiter.SetWaker(func() { close(done) })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Pop the first two to free capacity; the consumer loop must notice
	// stuck=1 and wake the producer's unstuck handler, which drains task 3.
	p1, err := rq.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(1), p1.CallID)

	p2, err := rq.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(2), p2.CallID)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pending task waker never fired")
	}

	p3, err := rq.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(3), p3.CallID)
}

func TestReadQueueParksWhenEmptyAndWakesOnPush(t *testing.T) {
	r := newTestRing(t, 4)
	wq := NewWriteQueue(r)
	defer wq.Close()
	rq := NewReadQueue(r)

	result := make(chan payload.Payload, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		p, err := rq.Next(ctx)
		if err == nil {
			result <- p
		}
	}()

	time.Sleep(50 * time.Millisecond) // let the consumer park
	_, ready := wq.Push(payload.Payload{CallID: 99})
	require.True(t, ready)

	select {
	case p := <-result:
		require.Equal(t, uint32(99), p.CallID)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer never woke after push")
	}
}
