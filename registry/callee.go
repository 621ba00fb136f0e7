// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// CalleeEntry holds a response arena until the caller sends a Drop
// payload granting permission to release it (spec.md §4.6).
type CalleeEntry struct {
	Arena []byte
}

// Callee is the callee-side slab of reply-side arenas, keyed by
// next_user_data.
type Callee struct {
	mu      sync.Mutex
	next    atomix.Uintptr
	entries map[uintptr]*CalleeEntry
}

// NewCallee creates an empty callee registry.
func NewCallee() *Callee {
	return &Callee{entries: make(map[uintptr]*CalleeEntry)}
}

// Insert stores a response arena and returns the key (next_user_data) to
// place in the Reply payload.
func (c *Callee) Insert(arena []byte) uintptr {
	key := c.next.AddAcqRel(1)
	c.mu.Lock()
	c.entries[key] = &CalleeEntry{Arena: arena}
	c.mu.Unlock()
	return key
}

// Take removes and returns the entry for key on receipt of a Drop
// payload. (nil, false) is a protocol violation (spec.md §7: "double
// reply" / unknown key) — the core panics rather than trusting further
// messages from a peer that has already misbehaved.
func (c *Callee) Take(key uintptr) (*CalleeEntry, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return e, ok
}

// Len reports the number of outstanding response arenas.
func (c *Callee) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
