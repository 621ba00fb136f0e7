// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xtest

import (
	"fmt"

	"code.hybscloud.com/xcall/future"
	"code.hybscloud.com/xcall/slot"
	"code.hybscloud.com/xcall/stub"
)

// Routines is the generated-in-spirit routine table for this fixture's
// interface; its slice index is each routine's call_id (spec.md §9 open
// question, resolved as declaration order).
var Routines = stub.Interface{Routines: []stub.RoutineDesc{
	{Name: "ping", Kind: stub.KindSync},
	{Name: "login", Kind: stub.KindAsync},
	{Name: "add_friends", Kind: stub.KindAsync},
	{Name: "delete_friends", Kind: stub.KindAsync, DropSafe: true},
	{Name: "pm_friend", Kind: stub.KindAsync, DropSafe: true, DropSafeRet: true},
}}

// Service is the callee's own implementation of the interface's
// handlers — what a generated stub would call into. It holds no state;
// every handler is pure given its request.
type Service struct{}

// Ping is a synchronous C-ABI routine: the echo scenario of spec.md §8.
func (Service) Ping(n uint) uint { return n }

// Login is the classic async-by-reference scenario: the request is
// never copied into the slot (only the response is), so the future this
// produces must not be dropped before completion. On success the message
// echoes req.Profile.Name — the nested record CallLogin reconstructed via
// FromLoginRequestRef after calc_ref — so a caller can tell the nested
// field actually survived the reference-view round trip.
func (Service) Login(req LoginRequest, w *slot.Writer[LoginResponse]) {
	if req.Username == "" || req.Password == "" {
		w.Write(LoginResponse{OK: false, Message: "missing credentials"})
		return
	}
	if req.Password != "correct-horse-battery-staple" {
		w.Write(LoginResponse{OK: false, Message: "invalid credentials"})
		return
	}
	w.Write(LoginResponse{OK: true, Token: "tok-" + req.Username, Message: "welcome " + req.Profile.Name})
}

// AddFriends is async-by-reference: not drop-safe, matching spec.md §8's
// "async by-reference call" scenario. The response carries the list-of-
// record scenario (spec.md §8): one User per added friend ID.
func (Service) AddFriends(req FriendsListRequest, w *slot.Writer[FriendsListResponse]) {
	w.Write(FriendsListResponse{OK: true, Added: int32(len(req.FriendIDs)), Users: usersFor(req.FriendIDs)})
}

// DeleteFriends is drop-safe async-by-value: the request is taken by
// value and the future may be safely dropped before completion (spec.md
// §8 "drop-safe async by-value call").
func (Service) DeleteFriends(req FriendsListRequest, w *slot.Writer[FriendsListResponse]) {
	w.Write(FriendsListResponse{OK: true, Added: -int32(len(req.FriendIDs)), Users: usersFor(req.FriendIDs)})
}

// usersFor stands in for a real friends-directory lookup: it is enough to
// give the list-of-record response scenario actual elements to arena-encode.
func usersFor(ids []uint64) []User {
	if len(ids) == 0 {
		return nil
	}
	users := make([]User, len(ids))
	for i, id := range ids {
		users[i] = User{ID: id, Name: fmt.Sprintf("friend-%d", id), Age: 0}
	}
	return users
}

// PMFriend is drop-safe-ret: the response is delivered alongside the
// original request tuple (spec.md §8 "drop-safe-ret").
func (Service) PMFriend(req PMFriendRequest, w *slot.Writer[PMFriendResponse]) {
	w.Write(PMFriendResponse{Delivered: req.Message != ""})
}

// CallPing is the generated caller-side stub for the sync routine: no
// future involved, spec.md §4.3 "Sync C-ABI call" never leaves the
// caller's own stack.
func CallPing(svc Service, n uint) uint {
	f := stub.SyncFunc[uint, uint](svc.Ping)
	return f(n)
}

// CallLogin is the generated caller-side stub for the classic
// async-by-reference routine: it runs calc_ref(req) (spec.md §4.3) before
// handing off to the callee, which materializes the owned request back
// from the reference view it receives — the way a real cross-ABI callee
// would decode its raw argument pointer.
func CallLogin(svc Service, d stub.Dispatcher, req LoginRequest) *future.Classic[LoginResponse] {
	return future.NewClassicUnsafe[LoginRequestRef, LoginRequest, LoginResponse](req, func(reqRef LoginRequestRef, w *slot.Writer[LoginResponse]) {
		d.Go(func() { svc.Login(FromLoginRequestRef(reqRef), w) })
	})
}

// CallAddFriends is the generated caller-side stub for the
// async-by-reference (not drop-safe) routine.
func CallAddFriends(svc Service, d stub.Dispatcher, req FriendsListRequest) *future.Classic[FriendsListResponse] {
	return future.NewClassicUnsafe[FriendsListRequestRef, FriendsListRequest, FriendsListResponse](req, func(reqRef FriendsListRequestRef, w *slot.Writer[FriendsListResponse]) {
		d.Go(func() { svc.AddFriends(FromFriendsListRequestRef(reqRef), w) })
	})
}

// CallDeleteFriends is the generated caller-side stub for the drop-safe
// async-by-value routine.
func CallDeleteFriends(svc Service, d stub.Dispatcher, req FriendsListRequest) *future.Classic[FriendsListResponse] {
	return future.NewClassicDropSafe[FriendsListRequestRef, FriendsListRequest, FriendsListResponse](req, func(reqRef FriendsListRequestRef, w *slot.Writer[FriendsListResponse]) {
		d.Go(func() { svc.DeleteFriends(FromFriendsListRequestRef(reqRef), w) })
	})
}

// CallPMFriend is the generated caller-side stub for the
// drop-safe-ret routine.
func CallPMFriend(svc Service, d stub.Dispatcher, req PMFriendRequest) *future.Classic[PMFriendResponse] {
	return future.NewClassicDropSafe[PMFriendRequestRef, PMFriendRequest, PMFriendResponse](req, func(reqRef PMFriendRequestRef, w *slot.Writer[PMFriendResponse]) {
		d.Go(func() { svc.PMFriend(FromPMFriendRequestRef(reqRef), w) })
	})
}
