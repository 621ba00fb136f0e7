// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xcall is the Go-side runtime for a cross-language call bridge:
// an owned-value ↔ reference-view data model, a completion slot, and a
// shared-memory SPSC ring transport, that together let a caller issue a
// request and receive a response without an intermediate heap copy in
// the common case.
//
// Binding an actual interface declaration to this runtime (codegen) is
// out of scope for this package; internal/xtest shows by hand what
// generated code is expected to produce.
//
// # Quick Start
//
// A synchronous routine never leaves the caller's stack:
//
//	resp := svc.Ping(1995)
//
// A classic async routine (synchronous or async C-ABI with callback)
// returns a future.Classic, completed by a slot.Writer the handler calls
// exactly once, possibly from another goroutine:
//
//	fut := future.NewClassicUnsafe[LoginRequestRef, LoginRequest, LoginResponse](req, func(reqRef LoginRequestRef, w *slot.Writer[LoginResponse]) {
//	    dispatcher.Go(func() { svc.Login(FromLoginRequestRef(reqRef), w) })
//	})
//	resp, err := fut.Wait(ctx)
//
// A ring-transport routine returns a future.Ring, completed when the
// caller's own read loop pops the matching Reply payload out of the
// ring — always cancel-safe, since completion never depends on the
// callee still holding a pointer into caller-owned memory:
//
//	fut := system.Ping(1995)
//	resp, err := fut.Wait(ctx)
//
// # Reference-view data model
//
// Package ref converts an owned Go value to its flat, C-layout-compatible
// reference view with at most one arena allocation:
//
//	buf, headRef := ref.CalcRef[LoginRequestRef](req)
//	// buf must be kept alive for as long as headRef may be dereferenced
//
// # Memory-complexity tags
//
// ref.Tag classifies a type by how much heap data its reference view
// needs beyond the head reference itself:
//
//	ref.Primitive      - numbers, bools: no indirection at all
//	ref.SimpleWrapper   - a string, or a list of primitives: one {ptr,len}
//	                       pair pointing at the value's own backing storage
//	ref.Complex         - anything containing a Complex field: contributes
//	                       bytes to the arena
//
// # Completion slot
//
// Package slot is the single-producer/single-consumer rendezvous cell
// every future is built on: a Reader held by the caller, a Writer held
// by the callee, safe under any interleaving of drop, write, and read:
//
//	reader, writer := slot.NewPair[Resp]()
//	writer.SetWaker(func() { /* wake the caller */ })
//	// ... elsewhere, exactly once:
//	writer.Write(resp)
//
// # Ring transport
//
// Packages payload, ringbuf, queue, and registry implement the
// shared-memory SPSC ring transport: a 32-byte Payload record, a bounded
// lock-free ring with working/stuck state words and OS wake descriptors,
// producer/consumer wrappers that park instead of busy-polling, and the
// caller/callee slabs that key arena buffers and completion closures by
// the ring's user_data/next_user_data fields.
//
//	ring, _ := ringbuf.New(4096)
//	wq := queue.NewWriteQueue(ring)
//	rq := queue.NewReadQueue(ring)
//
// Multiple application goroutines that need to share one ring go through
// a queue.FaninWriteQueue instead of calling WriteQueue directly, since
// the ring itself is strictly single-writer:
//
//	fwq := queue.NewFaninWriteQueue(wq, 1024)
//	err := fwq.Push(payload.Payload{ /* ... */ })
//
// # Error handling
//
// The fan-in buffer (queue.Fanin, and queue.FaninWriteQueue.Push on top
// of it) reports a full or empty buffer as
// [code.hybscloud.com/iox.ErrWouldBlock] rather than a bespoke error, for
// ecosystem consistency with the rest of this stack. ringbuf.Ring's
// Push/Pop and queue.WriteQueue.Push report full or empty as a bool.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering, [code.hybscloud.com/iox] for semantic
// errors, [code.hybscloud.com/spin] for CPU pause instructions,
// [golang.org/x/sys/unix] for the eventfd/socketpair wake descriptors,
// and [github.com/cloudwego/gopkg/concurrency/gopool] for the reference
// goroutine dispatcher.
package xcall
