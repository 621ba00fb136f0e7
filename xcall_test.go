// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/xcall/payload"
	"code.hybscloud.com/xcall/queue"
	"code.hybscloud.com/xcall/registry"
	"code.hybscloud.com/xcall/ringbuf"
)

// TestPerThreadIssuesCallsThroughTheSharedRing exercises the full §5
// concurrency model end to end: two goroutines each own a PerThread over
// the same call-direction ring, bootstrap the reply-direction ring's meta
// the way a real connection setup would, and both land their calls on the
// one shared consumer without the two callers' registries interfering
// with each other.
func TestPerThreadIssuesCallsThroughTheSharedRing(t *testing.T) {
	callRing, err := ringbuf.New(16)
	require.NoError(t, err)
	defer func() { _ = callRing.Close() }()

	replyRing, err := ringbuf.New(16)
	require.NoError(t, err)
	defer func() { _ = replyRing.Close() }()

	hs, err := payload.Bootstrap(callRing.Meta(), replyRing.Meta())
	require.NoError(t, err)
	require.Equal(t, callRing.Meta(), hs.Request)
	require.Equal(t, replyRing.Meta(), hs.Response)

	rq := queue.NewReadQueue(callRing)

	pt1 := NewPerThread(callRing)
	pt2 := NewPerThread(callRing)
	defer pt1.Close()
	defer pt2.Close()

	key1 := pt1.Caller.Insert(&registry.CallerEntry{Request: "from-thread-1"})
	key2 := pt2.Caller.Insert(&registry.CallerEntry{Request: "from-thread-2"})

	_, pushed := pt1.WQ.Push(payload.Payload{UserData: key1, CallID: 7, Flag: payload.KindCall})
	require.True(t, pushed)
	_, pushed = pt2.WQ.Push(payload.Payload{UserData: key2, CallID: 7, Flag: payload.KindCall})
	require.True(t, pushed)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var mu sync.Mutex
	seen := make(map[uintptr]string)
	for i := 0; i < 2; i++ {
		p, err := rq.Next(ctx)
		require.NoError(t, err)
		require.True(t, p.IsCall())

		var entry *registry.CallerEntry
		var ok bool
		if entry, ok = pt1.Caller.Take(p.UserData); !ok {
			entry, ok = pt2.Caller.Take(p.UserData)
		}
		require.True(t, ok)
		mu.Lock()
		seen[p.UserData] = entry.Request.(string)
		mu.Unlock()
	}

	require.Equal(t, "from-thread-1", seen[key1])
	require.Equal(t, "from-thread-2", seen[key2])
}
