// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package xtest is a hand-written stand-in for the code generator
// spec.md explicitly puts out of scope: it realizes the owned types and
// stub contracts for the interface spec.md §8 uses as its literal
// end-to-end scenarios (ping, login, add_friends, delete_friends,
// pm_friend), so that the rest of this runtime can be exercised the way
// generated code would exercise it.
package xtest

import (
	"unsafe"

	"github.com/cloudwego/gopkg/concurrency/gopool"
	"go.uber.org/zap"

	"code.hybscloud.com/xcall/ref"
)

// GoroutineDispatcher is the simplest possible stub.Dispatcher: one
// goroutine per task, via the pooled gopool.Go rather than a bare `go`
// statement — this is the runtime's own answer to spec.md §2's
// "garbage-collected, goroutine-scheduled callee", grounded on
// cloudwego/gopkg's worker pool.
//
// A handler that panics instead of writing its slot would otherwise wedge
// the caller's future forever with no diagnostic; GoroutineDispatcher
// recovers and logs that case structurally, the way this ecosystem's
// services log unexpected faults (grounded on yanet2's zap usage).
type GoroutineDispatcher struct {
	Log *zap.Logger
}

// Go implements stub.Dispatcher.
func (d GoroutineDispatcher) Go(f func()) {
	gopool.Go(func() {
		defer func() {
			if r := recover(); r != nil && d.Log != nil {
				d.Log.Error("xcall: dispatched handler panicked", zap.Any("recover", r))
			}
		}()
		f()
	})
}

// User is the spec's §8 nested record: a SimpleWrapper type (one string
// field, the rest primitive) with no arena cost of its own. It only
// contributes a Complex tag to a parent when the parent holds a *list* of
// Users (spec.md §4.1 "list of non-primitive elements").
type User struct {
	ID   uint64
	Name string
	Age  int32
}

// UserRef is User's C-layout-compatible reference view.
type UserRef struct {
	ID   uint64
	Name ref.StringRef
	Age  int32
}

func (User) MemTag() ref.Tag { return ref.SimpleWrapper }
func (User) ToSize(*int)     {}

func (u User) ToRef(*ref.Writer) UserRef {
	return UserRef{ID: u.ID, Name: ref.NewStringRef(u.Name), Age: u.Age}
}

// FromUserRef materializes an owned User from its reference view.
func FromUserRef(r UserRef) User {
	return User{ID: r.ID, Name: ref.FromStringRef(r.Name), Age: r.Age}
}

// LoginRequest is SimpleWrapper: its two strings and its nested Profile
// (itself SimpleWrapper, with no list fields) all stay at zero arena cost
// (spec.md §4.1 memory-complexity tags).
type LoginRequest struct {
	Username string
	Password string
	Profile  User
}

// LoginRequestRef is LoginRequest's C-layout-compatible reference view.
// Profile embeds UserRef directly, the way a generated reference view
// embeds any nested record's own reference-view type.
type LoginRequestRef struct {
	Username ref.StringRef
	Password ref.StringRef
	Profile  UserRef
}

func (LoginRequest) MemTag() ref.Tag { return ref.SimpleWrapper }
func (LoginRequest) ToSize(*int)     {}

func (r LoginRequest) ToRef(w *ref.Writer) LoginRequestRef {
	return LoginRequestRef{
		Username: ref.NewStringRef(r.Username),
		Password: ref.NewStringRef(r.Password),
		Profile:  r.Profile.ToRef(w),
	}
}

// FromLoginRequestRef materializes an owned LoginRequest from its
// reference view (spec.md §4.1 "inverse operation").
func FromLoginRequestRef(r LoginRequestRef) LoginRequest {
	return LoginRequest{
		Username: ref.FromStringRef(r.Username),
		Password: ref.FromStringRef(r.Password),
		Profile:  FromUserRef(r.Profile),
	}
}

// LoginResponse is also SimpleWrapper.
type LoginResponse struct {
	OK      bool
	Token   string
	Message string
}

type LoginResponseRef struct {
	OK      bool
	Token   ref.StringRef
	Message ref.StringRef
}

func (LoginResponse) MemTag() ref.Tag { return ref.SimpleWrapper }
func (LoginResponse) ToSize(*int)     {}

func (r LoginResponse) ToRef(*ref.Writer) LoginResponseRef {
	return LoginResponseRef{OK: r.OK, Token: ref.NewStringRef(r.Token), Message: ref.NewStringRef(r.Message)}
}

func FromLoginResponseRef(r LoginResponseRef) LoginResponse {
	return LoginResponse{OK: r.OK, Token: ref.FromStringRef(r.Token), Message: ref.FromStringRef(r.Message)}
}

// FriendsListRequest carries a list of primitive friend IDs, so it too
// is SimpleWrapper-tagged: the ListRef aliases FriendIDs' own backing
// array directly, at zero arena cost.
type FriendsListRequest struct {
	UserID    uint64
	FriendIDs []uint64
}

type FriendsListRequestRef struct {
	UserID    uint64
	FriendIDs ref.ListRef
}

func (FriendsListRequest) MemTag() ref.Tag { return ref.SimpleWrapper }
func (FriendsListRequest) ToSize(*int)     {}

func (r FriendsListRequest) ToRef(*ref.Writer) FriendsListRequestRef {
	return FriendsListRequestRef{UserID: r.UserID, FriendIDs: ref.NewPrimitiveListRef(r.FriendIDs)}
}

func FromFriendsListRequestRef(r FriendsListRequestRef) FriendsListRequest {
	return FriendsListRequest{UserID: r.UserID, FriendIDs: ref.FromPrimitiveListRef[uint64](r.FriendIDs)}
}

// FriendsListResponse carries the spec's §8 list-of-record scenario: Users
// is a list of non-primitive (SimpleWrapper) elements, so it lifts to
// Complex (spec.md §4.1) and needs a written arena trailer of UserRefs —
// the one path that actually exercises ListToSize/ListToRef end to end.
type FriendsListResponse struct {
	OK    bool
	Added int32
	Users []User
}

// FriendsListResponseRef is FriendsListResponse's reference view: Users
// becomes a ListRef pointing at the arena trailer FriendsListResponse.ToRef
// writes, one UserRef per element.
type FriendsListResponseRef struct {
	OK    bool
	Added int32
	Users ref.ListRef
}

func (FriendsListResponse) MemTag() ref.Tag { return User{}.MemTag().Lifted() }

func (r FriendsListResponse) ToSize(acc *int) {
	ref.ListToSize(acc, int(unsafe.Sizeof(UserRef{})), r.Users, func(u *User, acc *int) { u.ToSize(acc) })
}

func (r FriendsListResponse) ToRef(w *ref.Writer) FriendsListResponseRef {
	return FriendsListResponseRef{
		OK:    r.OK,
		Added: r.Added,
		Users: ref.ListToRef(w, r.Users, func(u *User, w *ref.Writer) UserRef { return u.ToRef(w) }),
	}
}

// FromFriendsListResponseRef materializes an owned FriendsListResponse
// from its reference view. buf is the arena the response was written
// into (the ListRef's elements live at buf[i*sizeof(UserRef)]), mirroring
// the way a real callee would walk a received pointer's element array.
func FromFriendsListResponseRef(buf []byte, r FriendsListResponseRef) FriendsListResponse {
	n := int(r.Users.Len)
	var users []User
	if n > 0 {
		userRefSize := int(unsafe.Sizeof(UserRef{}))
		users = make([]User, n)
		for i := 0; i < n; i++ {
			users[i] = FromUserRef(ref.Get[UserRef](buf, i*userRefSize))
		}
	}
	return FriendsListResponse{OK: r.OK, Added: r.Added, Users: users}
}

// PMFriendRequest is SimpleWrapper (one string).
type PMFriendRequest struct {
	From    uint64
	To      uint64
	Message string
}

type PMFriendRequestRef struct {
	From    uint64
	To      uint64
	Message ref.StringRef
}

func (PMFriendRequest) MemTag() ref.Tag { return ref.SimpleWrapper }
func (PMFriendRequest) ToSize(*int)     {}

func (r PMFriendRequest) ToRef(*ref.Writer) PMFriendRequestRef {
	return PMFriendRequestRef{From: r.From, To: r.To, Message: ref.NewStringRef(r.Message)}
}

func FromPMFriendRequestRef(r PMFriendRequestRef) PMFriendRequest {
	return PMFriendRequest{From: r.From, To: r.To, Message: ref.FromStringRef(r.Message)}
}

// PMFriendResponse is Primitive.
type PMFriendResponse struct {
	Delivered bool
}

func (PMFriendResponse) MemTag() ref.Tag                { return ref.Primitive }
func (PMFriendResponse) ToSize(*int)                    {}
func (r PMFriendResponse) ToRef(*ref.Writer) PMFriendResponse { return r }
