// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"
	"log"
)

// Violation reports a protocol violation — a condition the wire
// protocol guarantees should never occur (double reply, reply with no
// matching registry entry, an unknown call_id) — and panics. It logs via
// the standard log package before panicking, the same way
// concurrency/gopool.GoPool logs a recovered panic: this is the one
// place in the core outside a returned error where xcall writes
// anything, since every other condition is either a value the caller
// checks or a bug this package's own invariants already rule out.
func Violation(format string, args ...any) {
	msg := "xcall: protocol violation: " + fmt.Sprintf(format, args...)
	log.Print(msg)
	panic(msg)
}
