// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package future implements the two response-future shapes of spec.md
// §4.3: Classic, the synchronous-C-ABI-with-callback bridge, and Ring,
// the simpler ring-transport bridge. Go has no native Future/Waker, so
// both expose the idiom the rest of this ecosystem already uses for
// non-blocking-first APIs (code.hybscloud.com/iox's ErrWouldBlock
// control flow): a non-blocking Poll plus a context-aware blocking Wait
// built on the slot's own local waker.
package future

import (
	"context"
	"runtime"

	"code.hybscloud.com/xcall/ref"
	"code.hybscloud.com/xcall/slot"
)

// Future is the common shape for both variants.
type Future[T any] interface {
	// Poll reports the value if it is already available, without
	// blocking.
	Poll() (T, bool)
	// Wait blocks until the value is available or ctx is done.
	Wait(ctx context.Context) (T, error)
}

// Classic bridges a completion slot to the caller's context, for
// synchronous-C-ABI-with-callback and async-C-ABI-with-callback routines
// (spec.md §4.3 "Classic async C-ABI future").
//
// Unlike the Rust original, the callee-side exec closure runs eagerly at
// construction instead of being deferred to first poll: Go has no
// lazily-started Future, and eager dispatch is the idiomatic translation
// (every Go call that "returns a future" in this ecosystem — e.g. a
// function handing back a result channel — starts work immediately).
// See DESIGN.md Open Question 4.
type Classic[T any] struct {
	reader   slot.Reader[T]
	ready    chan struct{}
	dropSafe bool
	fused    bool
}

// requestAttachment is the slot attachment for NewClassicDropSafe: the
// owned request (handed back by PollWithRequest) and its arena, kept
// alive together until the response is read out.
type requestAttachment[T any] struct {
	req   T
	arena []byte
}

func (a requestAttachment[T]) request() any { return a.req }

// requestHolder lets PollWithRequest recover the original request from
// an attachment without knowing its concrete owned type.
type requestHolder interface {
	request() any
}

// NewClassicUnsafe constructs a future whose argument(s) are passed by
// reference: it computes `(arena, head_refs) = calc_ref(req)` (spec.md
// §4.3 "compute (arena_buf, head_refs) = calc_ref(req)") and hands the
// head reference view to exec, attaching the arena to the slot so it
// outlives the call regardless of how long the callee takes to read it.
//
// The caller MUST NOT let this future be dropped (garbage collected
// without Wait completing) while the callee might still hold pointers
// into the request's arena — doing so is undefined behaviour per spec.md
// §4.3, which is why this constructor's name says so.
//
// exec is the generated stub's invoker: it receives the request's head
// reference view and the writer handle, and is responsible for
// eventually calling w.Write (possibly from another goroutine, on the
// callee's own scheduler).
func NewClassicUnsafe[R any, T ref.Owned[R], U any](req T, exec func(reqRef R, w *slot.Writer[U])) *Classic[U] {
	arena, reqRef := ref.CalcRef[R, T](req)
	reader, writer := slot.NewPair[U]()
	writer.Attach(arena)
	ready := make(chan struct{})
	writer.SetWaker(func() { close(ready) })
	f := &Classic[U]{reader: reader, ready: ready, dropSafe: false}
	if exec != nil {
		exec(reqRef, &writer)
	}
	return f
}

// NewClassicDropSafe constructs a future for a drop-safe routine: the
// argument is taken by value, reference-viewed the same way as
// NewClassicUnsafe, and the owned request plus its arena are stored as
// the slot's attachment (spec.md §4.3 "store the request tuple and
// buffer as the slot's attachment") — so the future is cancel-safe,
// dropping it before completion is always safe, and PollWithRequest can
// hand the request back alongside the response.
func NewClassicDropSafe[R any, T ref.Owned[R], U any](req T, exec func(reqRef R, w *slot.Writer[U])) *Classic[U] {
	arena, reqRef := ref.CalcRef[R, T](req)
	reader, writer := slot.NewPair[U]()
	writer.Attach(requestAttachment[T]{req: req, arena: arena})
	ready := make(chan struct{})
	writer.SetWaker(func() { close(ready) })
	f := &Classic[U]{reader: reader, ready: ready, dropSafe: true}
	if exec != nil {
		exec(reqRef, &writer)
	}
	return f
}

// Poll reports the response if the callback has already fired.
func (f *Classic[T]) Poll() (T, bool) {
	if f.fused {
		panic("xcall: Classic future polled after completion")
	}
	v, ok := f.reader.Read()
	if ok {
		f.fused = true
	}
	return v, ok
}

// PollWithRequest is Poll for drop-safe-ret routines: it also returns the
// original request tuple alongside the response (spec.md §4.3
// "drop-safe-ret").
func (f *Classic[T]) PollWithRequest() (T, any, bool) {
	if f.fused {
		panic("xcall: Classic future polled after completion")
	}
	v, attachment, ok := f.reader.ReadWithAttachment()
	if ok {
		f.fused = true
	}
	var req any
	if holder, isHolder := attachment.(requestHolder); isHolder {
		req = holder.request()
	}
	return v, req, ok
}

// Wait blocks until the callback fires or ctx is done.
func (f *Classic[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.ready:
		// The waker fires just before the writer handle is dropped, so
		// the value may need a moment to become readable.
		for {
			if v, ok := f.Poll(); ok {
				return v, nil
			}
			runtime.Gosched()
		}
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Drop releases the future's reader handle without waiting for
// completion. Only safe for a future built by NewClassicDropSafe (any
// other future panics here); the generated stub for a
// by-reference routine must never expose this path to callers (spec.md
// §4.3).
func (f *Classic[T]) Drop() {
	if !f.dropSafe {
		panic("xcall: dropping a non-drop-safe Classic future before completion is unsafe")
	}
	f.reader.Drop()
}
