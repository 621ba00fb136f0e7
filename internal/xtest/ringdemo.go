// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xtest

import (
	"context"
	"sync"

	"code.hybscloud.com/xcall/future"
	"code.hybscloud.com/xcall/payload"
	"code.hybscloud.com/xcall/queue"
	"code.hybscloud.com/xcall/registry"
	"code.hybscloud.com/xcall/ringbuf"
)

// RingSystem wires two rings (call direction and reply direction) plus
// the registry and queues spec.md §4.4/§4.6 describe, to exercise the
// ring-transport calling convention end to end for a routine whose
// request and response are both Primitive-tagged.
//
// For a Primitive routine there is nothing to put in an arena, so this
// fixture carries the value directly in Payload.Ptr instead of a real
// pointer — the "single-arena discipline" of spec.md §4.1 degenerates to
// zero allocations, which is exactly what the Primitive tag promises.
// Non-Primitive routines would instead arena-encode the request/response
// with ref.CalcRef and carry its head-reference pointer in Ptr; that path
// is exercised by the classic-future scenarios in xtest_test.go (every
// Call* stub in service.go runs calc_ref before crossing to the callee)
// and by the ref package's own tests, rather than duplicated here.
type RingSystem struct {
	callRing  *ringbuf.Ring
	replyRing *ringbuf.Ring

	calleeRQ *queue.ReadQueue
	calleeWQ *queue.WriteQueue
	callerRQ *queue.ReadQueue
	callerWQ *queue.WriteQueue

	caller *registry.Caller

	pendingMu   sync.Mutex
	pendingPing map[uintptr]*future.Ring[uint]

	cancel context.CancelFunc
}

// NewRingSystem starts the callee dispatch loop and the caller read
// loop as goroutines, wired the way a real ring-transport pair would be
// (spec.md §5 "per-thread (WriteQueue, Caller registry) pairing" —
// collapsed here to two goroutines since there is only one of each
// side).
func NewRingSystem(capacity int, svc Service) (*RingSystem, error) {
	callRing, err := ringbuf.New(capacity)
	if err != nil {
		return nil, err
	}
	replyRing, err := ringbuf.New(capacity)
	if err != nil {
		_ = callRing.Close()
		return nil, err
	}

	rs := &RingSystem{
		callRing:    callRing,
		replyRing:   replyRing,
		calleeRQ:    queue.NewReadQueue(callRing),
		calleeWQ:    queue.NewWriteQueue(replyRing),
		callerRQ:    queue.NewReadQueue(replyRing),
		callerWQ:    queue.NewWriteQueue(callRing),
		caller:      registry.NewCaller(),
		pendingPing: make(map[uintptr]*future.Ring[uint]),
	}

	ctx, cancel := context.WithCancel(context.Background())
	rs.cancel = cancel
	go rs.calleeLoop(ctx, svc)
	go rs.callerLoop(ctx)
	return rs, nil
}

// Close stops both loops and releases the rings.
func (rs *RingSystem) Close() {
	rs.cancel()
	_ = rs.callRing.Close()
	_ = rs.replyRing.Close()
	rs.calleeWQ.Close()
	rs.callerWQ.Close()
}

// Ping issues a ring-transport ping call and returns a cancel-safe
// future.Ring (spec.md §8 "ring transport cancel-safety"): polling it
// once, dropping it, and waiting on a second one must never touch freed
// memory, because completion is a value copy out of the ring, not a
// pointer the callee still holds.
func (rs *RingSystem) Ping(n uint) *future.Ring[uint] {
	fut := future.NewRing[uint]()
	key := rs.caller.Insert(&registry.CallerEntry{})

	rs.pendingMu.Lock()
	rs.pendingPing[key] = fut
	rs.pendingMu.Unlock()

	rs.callerWQ.Push(payload.Payload{
		Ptr:      uintptr(n),
		UserData: key,
		CallID:   0, // "ping" is routine index 0 in Routines
		Flag:     payload.KindCall,
	})
	return fut
}

// Forget drops a pending ping future without waiting for its reply,
// exercising the cancel-safety guarantee directly: the callee still
// completes the call and the caller loop still drains the reply, it
// just has nowhere left to deliver it.
func (rs *RingSystem) Forget(fut *future.Ring[uint]) {
	rs.pendingMu.Lock()
	for key, f := range rs.pendingPing {
		if f == fut {
			delete(rs.pendingPing, key)
			_, _ = rs.caller.Take(key)
			break
		}
	}
	rs.pendingMu.Unlock()
}

func (rs *RingSystem) calleeLoop(ctx context.Context, svc Service) {
	for {
		p, err := rs.calleeRQ.Next(ctx)
		if err != nil {
			return
		}
		if !p.IsCall() {
			continue
		}
		switch p.CallID {
		case 0: // ping
			resp := svc.Ping(uint(p.Ptr))
			rs.calleeWQ.Push(payload.Payload{
				Ptr:      uintptr(resp),
				UserData: p.UserData,
				Flag:     payload.FlagResponse,
			})
		default:
			registry.Violation("unknown call_id %d", p.CallID)
		}
	}
}

func (rs *RingSystem) callerLoop(ctx context.Context) {
	for {
		p, err := rs.callerRQ.Next(ctx)
		if err != nil {
			return
		}
		if !p.IsResponse() {
			continue
		}
		rs.pendingMu.Lock()
		fut, ok := rs.pendingPing[p.UserData]
		if ok {
			delete(rs.pendingPing, p.UserData)
		}
		rs.pendingMu.Unlock()
		if !ok {
			// The caller already dropped this future (spec.md §8
			// "cancel-safety"): the reply is simply discarded, there is
			// nothing left to deliver it to, and nothing was leaked
			// because the value lives in the payload, not behind a
			// pointer the callee still owns.
			continue
		}
		fut.Complete(uint(p.Ptr))
	}
}
