// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package payload defines the 32-byte ring message (spec.md §3 "Payload",
// §4.5) and the QueueMeta descriptor a ring consumer reconstructs a peer's
// ring from (spec.md §3 "Ring", §6 "QueueMeta").
package payload

// Flag bits, low to high (spec.md §4.5).
const (
	FlagCall     uint32 = 1 << 0 // contains a call (request)
	FlagResponse uint32 = 1 << 1 // contains a response
	FlagWantsReply uint32 = 1 << 2 // wants peer reply
	FlagDrop     uint32 = 1 << 3 // drop permission on referenced memory
	FlagQuit     uint32 = 1 << 4 // quit ack/init marker
)

// Concrete flag combinations used by the call/reply/drop cycle.
const (
	KindCall     = FlagCall | FlagWantsReply             // 0b0101
	KindReply    = FlagResponse | FlagDrop | FlagWantsReply // 0b1110
	KindDrop     = FlagDrop                                // 0b1000
	KindQuitInit = FlagQuit | FlagWantsReply                // 0b10100
	KindQuitAck  = FlagQuit                                 // 0b10000
)

// Payload is the fixed-size ring message (32 bytes on a 64-bit platform:
// 3 uintptr fields + 2 uint32 fields).
type Payload struct {
	Ptr            uintptr // caller's head reference address (or response address on reply)
	UserData       uintptr // caller registry key
	NextUserData   uintptr // callee registry key, set on reply
	CallID         uint32  // function index within the interface
	Flag           uint32  // bitfield, see Kind* constants
}

// IsCall reports whether p carries a call/request.
func (p Payload) IsCall() bool { return p.Flag&FlagCall != 0 }

// IsResponse reports whether p carries a response.
func (p Payload) IsResponse() bool { return p.Flag&FlagResponse != 0 }

// WantsReply reports whether the sender expects a reply payload.
func (p Payload) WantsReply() bool { return p.Flag&FlagWantsReply != 0 }

// IsDrop reports whether p grants drop permission on referenced memory.
func (p Payload) IsDrop() bool { return p.Flag&FlagDrop != 0 }

// IsQuit reports whether p is part of connection teardown.
func (p Payload) IsQuit() bool { return p.Flag&FlagQuit != 0 }

// QueueMeta is the 8-field snapshot from which an implementer can
// reconstruct a ring: the shared-memory region backing the slot array,
// the four atomic words, and the two OS wake descriptors (spec.md §3,
// §6). In this repo the "shared memory" is simply this process's heap —
// there is no second OS process to map the region into — but the struct
// keeps the field set and ordering a cross-process transport would need.
type QueueMeta struct {
	BufferPtr  uintptr
	BufferLen  uintptr
	HeadPtr    uintptr
	TailPtr    uintptr
	WorkingPtr uintptr
	StuckPtr   uintptr
	WorkingFD  int32
	UnstuckFD  int32
}
