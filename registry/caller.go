// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry implements the caller-side and callee-side slabs that
// key arena buffers and completion slots by the user_data / next_user_data
// values carried in ring payloads (spec.md §4.6).
//
// Per spec.md §5 "Shared-resource policy", each registry is used from a
// single thread (one caller registry per caller goroutine, one callee
// registry per ring pair) — the mutex here exists only because the
// read-loop goroutine and an occasional cross-goroutine Take (e.g. a
// dropped future still racing a late reply) can both touch it, not
// because the registry is meant to be a general-purpose concurrent map.
package registry

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// CallerEntry is what the caller registry keeps alive between issuing a
// ring Call and receiving its Reply or Drop: the request arena (so the
// callee's pointers into it stay valid), the owned request tuple itself
// (for drop-safe(-ret) futures that hand it back), and the Deliver
// closure that materializes a response reference into the waiting slot.
type CallerEntry struct {
	Arena   []byte
	Request any
	// Deliver is called with the response's head-reference pointer on
	// Reply; it materializes the owned response and writes it into the
	// caller's completion slot. Nil for oneway calls.
	Deliver func(respPtr uintptr)
}

// Caller is the caller-side slab, keyed by a monotonically increasing
// uintptr so keys are never reused while any in-flight payload could
// still reference an old one (spec.md §4.6).
type Caller struct {
	mu      sync.Mutex
	entries map[uintptr]*CallerEntry
}

// callerKeys is shared by every Caller, so a key is unique across all
// caller registries in the process: several registries may push onto
// the same call-direction ring.
var callerKeys atomix.Uintptr

// NewCaller creates an empty caller registry.
func NewCaller() *Caller {
	return &Caller{entries: make(map[uintptr]*CallerEntry)}
}

// Insert stores e and returns the key (user_data) to place in the Call
// payload.
func (c *Caller) Insert(e *CallerEntry) uintptr {
	key := callerKeys.AddAcqRel(1)
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return key
}

// Take removes and returns the entry for key, or (nil, false) if absent
// — which is always a protocol violation (spec.md §7: "reply without
// matching registry entry") since the caller only ever pushes a key it
// just inserted.
func (c *Caller) Take(key uintptr) (*CallerEntry, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return e, ok
}

// Len reports the number of in-flight entries (for tests/diagnostics).
func (c *Caller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
