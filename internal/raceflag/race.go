// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

// Package raceflag reports whether the race detector is active.
//
// lock-free queue and ring algorithms use sequence numbers with
// acquire-release semantics to protect non-atomic data fields. Go's race
// detector tracks explicit synchronization primitives, not the
// happens-before relationships established by atomic memory orderings, so
// concurrent stress tests for these algorithms are excluded when racing.
package raceflag

// Enabled is true when the race detector is active.
const Enabled = true
