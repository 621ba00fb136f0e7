// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stub defines the contract shapes a code generator must
// satisfy to bind a user-declared interface to this runtime (spec.md §6
// "Generator configuration" and §4.7 "Stub contracts"). Generating that
// code from an interface declaration is out of scope (spec.md
// Non-goals); this package only fixes the shapes the generated code, and
// this runtime, agree on.
package stub

import (
	"code.hybscloud.com/xcall/slot"
)

// Dispatcher runs f on some goroutine, now or soon. The generated stub
// for an async-C-ABI-with-callback routine uses it to hop off the
// caller's own goroutine before calling the user's handler, matching the
// "callee is garbage-collected, goroutine-scheduled" runtime spec.md §2
// assumes. internal/xtest's GoroutineDispatcher is the reference
// implementation used by this repo's own tests; production generated
// code is free to supply a different one instead.
type Dispatcher interface {
	Go(f func())
}

// SyncFunc is a synchronous C-ABI routine (spec.md §4.3 "Sync C-ABI
// call"): the generated stub calls it directly on the caller's own
// goroutine and returns its result immediately. No slot, no future —
// the call never leaves the stack.
type SyncFunc[Req, Resp any] func(req Req) Resp

// AsyncFunc is a classic async C-ABI routine (spec.md §4.3 "Classic
// async C-ABI future"): the generated stub calls it once, handing it a
// writer the handler completes whenever it's ready — possibly on
// another goroutine scheduled through a Dispatcher. f must call w.Write
// exactly once.
type AsyncFunc[Req, Resp any] func(req Req, w *slot.Writer[Resp])

// RingHandler is a ring-transport routine (spec.md §4.4 "Ring
// transport"): the callee's dispatch loop decodes a Call payload's
// arguments at reqPtr and invokes the handler registered for callID,
// which returns a pointer to its response's head reference, to be
// pushed back as a Reply payload's Ptr field.
type RingHandler func(callID uint32, reqPtr uintptr) (respPtr uintptr)

// DropHook runs when a Drop payload names a response arena this callee
// is still holding (nextUserData keys registry.Callee), granting
// permission to release it (spec.md §4.6).
type DropHook func(nextUserData uintptr)

// Kind classifies which of the three calling conventions a routine uses.
type Kind int8

const (
	KindSync Kind = iota
	KindAsync
	KindRing
)

// RoutineDesc describes one routine of a generated interface. Its index
// within Interface.Routines is that routine's call_id — spec.md §9's
// open question ("what identifies a function across the boundary") is
// resolved in this repo as declaration order, so RoutineDesc carries no
// separate ID field; see DESIGN.md.
type RoutineDesc struct {
	// Name is the routine's declared name, used only for diagnostics —
	// it never crosses the wire.
	Name string
	Kind Kind
	// DropSafe marks a routine whose argument is taken by value (a
	// drop-safe Classic/Ring future may be dropped before completion
	// without leaking or racing the callee).
	DropSafe bool
	// DropSafeRet marks a drop-safe routine that also returns the
	// original request alongside the response.
	DropSafeRet bool
}

// Interface is a generated binding's full routine table.
type Interface struct {
	Routines []RoutineDesc
}

// CallID returns the index of the named routine, and whether it was
// found. Generated code normally embeds the index as a constant instead
// of searching by name at call time; this exists for diagnostics and
// tests.
func (i Interface) CallID(name string) (uint32, bool) {
	for idx, r := range i.Routines {
		if r.Name == name {
			return uint32(idx), true
		}
	}
	return 0, false
}

// MemMode selects how the generated stub lays out a routine's arguments.
// This repo only implements the single-arena discipline of spec.md §4.1,
// so the field exists for forward-compatibility with the generator
// config surface rather than branching behavior.
type MemMode int8

const (
	MemArena MemMode = iota
)

// GeneratorConfig mirrors spec.md §6 "Configuration": the knobs a code
// generator reads per interface. queue_size defaults to 4096 per spec.
type GeneratorConfig struct {
	QueueSize    int
	Mem          MemMode
	DropSafe     bool
	DropSafeRet  bool
	GoPassStruct bool
}

// DefaultGeneratorConfig returns the spec's documented defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{QueueSize: 4096, Mem: MemArena}
}
