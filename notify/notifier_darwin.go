// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build darwin

package notify

import (
	"os"

	"golang.org/x/sys/unix"
)

// New creates an owned Pair backed by a nonblocking Unix-domain
// socketpair with SO_NOSIGPIPE (spec.md §6 "Notifier backing": Apple has
// no eventfd). sv[0] is this side's wait fd; sv[1] is the fd a peer
// receives (via QueueMeta) and writes to in order to wake us.
func New() (*Pair, error) {
	sv, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	for _, fd := range sv {
		if err := unix.SetNonblock(fd, true); err != nil {
			return nil, err
		}
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1); err != nil {
			return nil, err
		}
	}
	wait := os.NewFile(uintptr(sv[0]), "xcall-socketpair-wait")
	notify := os.NewFile(uintptr(sv[1]), "xcall-socketpair-notify")
	return &Pair{notifyFile: notify, waitFile: wait, owner: true}, nil
}

// FromRawFD wraps the peer-facing end of a socketpair received via
// QueueMeta (the "wake" descriptor a remote owner handed us). The
// returned Pair treats fd as its notify side; it has no independent wait
// side because a non-owner only ever calls Notify on a peer's pair.
func FromRawFD(fd int32) *Pair {
	f := os.NewFile(uintptr(fd), "xcall-socketpair-peer")
	return &Pair{notifyFile: f, waitFile: f, owner: false}
}
