// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package notify

import (
	"os"

	"golang.org/x/sys/unix"
)

// New creates an owned Pair backed by a Linux eventfd with
// EFD_NONBLOCK|EFD_CLOEXEC (spec.md §6 "Notifier backing"). Both the
// notify and wait sides are the same descriptor.
func New() (*Pair, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	f := os.NewFile(uintptr(fd), "xcall-eventfd")
	return &Pair{notifyFile: f, waitFile: f, owner: true}, nil
}

// FromRawFD wraps a peer-owned eventfd descriptor received via QueueMeta.
// The returned Pair does not close fd on Close.
func FromRawFD(fd int32) *Pair {
	f := os.NewFile(uintptr(fd), "xcall-eventfd-peer")
	return &Pair{notifyFile: f, waitFile: f, owner: false}
}
