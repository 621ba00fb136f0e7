// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/xcall/payload"
)

func TestFaninEnqueueDequeueFIFOPerProducer(t *testing.T) {
	f := NewFanin[int](4)
	require.NoError(t, f.Enqueue(1))
	require.NoError(t, f.Enqueue(2))

	v, err := f.Dequeue()
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = f.Dequeue()
	require.NoError(t, err)
	require.Equal(t, 2, v)

	_, err = f.Dequeue()
	require.True(t, iox.IsWouldBlock(err))
}

func TestFaninEnqueueFailsWhenFull(t *testing.T) {
	f := NewFanin[int](2)
	require.NoError(t, f.Enqueue(1))
	require.NoError(t, f.Enqueue(2))
	err := f.Enqueue(3)
	require.True(t, iox.IsWouldBlock(err))
}

func TestFaninWriteQueueMergesConcurrentProducers(t *testing.T) {
	r := newTestRing(t, 64)
	wq := NewWriteQueue(r)
	defer wq.Close()
	rq := NewReadQueue(r)

	fwq := NewFaninWriteQueue(wq, 32)
	defer fwq.Close()

	const producers = 8
	const perProducer = 10
	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				for {
					if err := fwq.Push(payload.Payload{CallID: uint32(p*perProducer + i)}); err == nil {
						break
					}
				}
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for i := 0; i < producers*perProducer; i++ {
		p, err := rq.Next(ctx)
		require.NoError(t, err)
		seen[p.CallID] = true
	}
	require.Len(t, seen, producers*perProducer)
}
