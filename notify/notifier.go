// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package notify implements the cross-thread, cross-runtime wake
// primitive backed by an OS event object: eventfd on Linux, a
// nonblocking Unix-domain socketpair on Darwin. The notify side writes
// one 8-byte wake token (the smallest write an eventfd accepts); the
// wait side reads (draining) until woken, wrapped so the
// wait blocks the calling goroutine instead of the OS thread — the Go
// runtime's netpoller parks it, giving the "asynchronous readable
// endpoint" spec.md §6 asks for without a bespoke epoll loop.
package notify

import (
	"context"
	"os"
	"time"
)

// Pair is one wake channel: a notify side the producer writes to and a
// wait side the consumer blocks on. For eventfd backends both sides are
// the same descriptor; for socketpair backends they are the two ends.
type Pair struct {
	notifyFile *os.File
	waitFile   *os.File
	owner      bool
}

// NotifyFD returns the raw descriptor a peer should use to wake this
// pair's waiter. Part of the QueueMeta snapshot (spec.md §3, §6).
func (p *Pair) NotifyFD() int32 { return int32(p.notifyFile.Fd()) }

// WaitFD returns the raw descriptor this pair's own Wait blocks on.
func (p *Pair) WaitFD() int32 { return int32(p.waitFile.Fd()) }

// Notify writes one wake token to the notify side, waking any goroutine
// parked in a peer's Wait. Level-triggered enough that spurious wakes are
// harmless: Wait callers always re-check the condition they were waiting
// for (spec.md §4.4 "Wake discipline").
func (p *Pair) Notify() error {
	_, err := p.notifyFile.Write(wakeToken[:])
	return err
}

// Wait blocks the calling goroutine (not the OS thread) until a byte is
// available on the wait side, or ctx is done. It drains all currently
// pending bytes so a burst of Notify calls collapses to one wake, as the
// working/stuck state machines in spec.md §4.4 require (they always
// re-check the ring rather than trusting the wake count).
func (p *Pair) Wait(ctx context.Context) error {
	// Clear any deadline a previous cancelled Wait left behind.
	_ = p.waitFile.SetReadDeadline(time.Time{})
	if ctx != nil && ctx.Done() != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				// Force the blocked Read to return early; the caller's
				// ctx.Err() check below reports cancellation.
				_ = p.waitFile.SetReadDeadline(time.Unix(1, 0))
			case <-done:
			}
		}()
	}

	var buf [64]byte
	for {
		n, err := p.waitFile.Read(buf[:])
		if n > 0 {
			return drain(p.waitFile)
		}
		if err != nil {
			if ctx != nil {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
			return err
		}
	}
}

// drain reads until the wait side would block, collapsing any remaining
// queued wake bytes from repeated Notify calls into the single wake
// already delivered.
func drain(f *os.File) error {
	_ = f.SetReadDeadline(time.Now())
	var buf [64]byte
	for {
		n, err := f.Read(buf[:])
		if n == 0 || err != nil {
			_ = f.SetReadDeadline(time.Time{})
			return nil
		}
	}
}

// Close releases the OS resources. Non-owner pairs (reconstructed from a
// peer's QueueMeta via FromRawFD) must not close the underlying
// descriptors — the owner closes them on its own drop (spec.md §3 Ring
// lifecycle: "Notifier file descriptors are owned by the ring owner;
// non-owner holds raw descriptors without close-on-drop").
func (p *Pair) Close() error {
	if !p.owner {
		return nil
	}
	err := p.notifyFile.Close()
	if p.waitFile != p.notifyFile {
		if err2 := p.waitFile.Close(); err2 != nil && err == nil {
			err = err2
		}
	}
	return err
}

// wakeToken is a host-endian non-zero uint64: an eventfd rejects writes
// shorter than 8 bytes, and a socketpair accepts any length.
var wakeToken = [8]byte{1}
