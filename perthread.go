// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xcall

import (
	"code.hybscloud.com/xcall/queue"
	"code.hybscloud.com/xcall/registry"
	"code.hybscloud.com/xcall/ringbuf"
)

// PerThread is the one `(queue.WriteQueue, registry.Caller)` pairing a
// caller goroutine needs to issue ring-transport calls: a write queue onto
// the shared call-direction ring, and a caller registry that is never
// touched by any other goroutine except to deliver a reply this one is
// waiting on (spec.md §5 "Shared-resource policy").
//
// There is deliberately no pool here: pooling PerThreads across goroutines
// would put a lock back between unrelated callers, exactly the
// cross-thread contention §5 forbids. A caller goroutine constructs its
// own PerThread once (typically at startup) and keeps it for its
// lifetime; Close releases the write queue's background handler when the
// goroutine is done issuing calls.
type PerThread struct {
	WQ     *queue.WriteQueue
	Caller *registry.Caller
}

// NewPerThread builds a PerThread over the shared call-direction ring. One
// call-direction ring can back many PerThreads — the ring is the
// multiplexing point, not this struct — but each PerThread's Caller
// registry and in-flight bookkeeping belong to exactly one goroutine.
func NewPerThread(callRing *ringbuf.Ring) *PerThread {
	return &PerThread{
		WQ:     queue.NewWriteQueue(callRing),
		Caller: registry.NewCaller(),
	}
}

// Close stops the write queue's unstuck-handler goroutine. It does not
// close the underlying ring, which other PerThreads may still share.
func (p *PerThread) Close() {
	p.WQ.Close()
}
