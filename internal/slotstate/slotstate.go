// Package slotstate implements the atomic bitfield that governs the
// lifecycle of a single ring slot: empty -> claimed -> active -> empty.
//
// Go has no analogue to C++20's std::atomic<T>::wait/notify, so the
// notify side is modeled with a channel that is closed (and replaced)
// on every state transition a waiter might care about, following the
// same "broadcast, then swap" pattern the teacher's EventLoop uses for
// its own quit/done channels (core/concurrency/eventloop.go).
package slotstate

import "sync/atomic"

// State values for a ring slot. Bit patterns, not an iota sequence, to
// mirror spec.md's "empty = 0, claimed = 1, active = 2" directly.
const (
	Empty   uint32 = 0
	Claimed uint32 = 1 << 0
	Active  uint32 = 1 << 1
)

// Field is the atomic bitfield owned by exactly one ring slot. All
// mutation happens through the slot's current owner, except the initial
// Empty->Claimed transition, which is resolved by CAS among competing
// producers (spec.md §3, Slot state field invariant).
//
// The zero value is a valid, Empty field: the wake-up gate is created
// lazily on first use so a Field can live inline inside a slice element
// (as RingBuffer's slots do) without a separate constructor call per
// element.
type Field struct {
	state atomic.Uint32
	gate  atomic.Pointer[chan struct{}]
}

func (f *Field) gateChan() *chan struct{} {
	if p := f.gate.Load(); p != nil {
		return p
	}
	ch := make(chan struct{})
	f.gate.CompareAndSwap(nil, &ch)
	return f.gate.Load()
}

// Load returns the current state (acquire).
func (f *Field) Load() uint32 {
	return f.state.Load()
}

// Test reports whether all bits of mask are currently set.
func (f *Field) Test(mask uint32) bool {
	return f.state.Load()&mask == mask
}

// StoreRelease stores a new state with release ordering and wakes any
// goroutine blocked in Wait.
func (f *Field) StoreRelease(v uint32) {
	f.state.Store(v)
	f.broadcast()
}

// StoreQuiet stores a new state with release ordering without waking
// any waiter: the claimed->active transition spec.md §4.2 describes
// relies on the state transition itself, not a notify, since waiters
// only ever block on the active->empty edge (see WaitWhile).
func (f *Field) StoreQuiet(v uint32) {
	f.state.Store(v)
}

// CompareAndSwap attempts old -> new, wakes every waiter on success, and
// returns whether it succeeded. Package ring does not call it: producers
// claim through AcquireClaim, and commits CAS the ring's head index.
func (f *Field) CompareAndSwap(old, new uint32) bool {
	ok := f.state.CompareAndSwap(old, new)
	if ok {
		f.broadcast()
	}
	return ok
}

// AcquireClaim spin-CASes the state from Empty to Claimed, backing off
// with runtime.Gosched the way the teacher's lock-free queues retry CAS
// loops (core/concurrency/ring.go).
func (f *Field) AcquireClaim(relax func()) {
	for !f.state.CompareAndSwap(Empty, Claimed) {
		if relax != nil {
			relax()
		}
	}
	f.broadcast()
}

// WaitWhile blocks until the state no longer has every bit of mask set,
// the same test as Test(mask) (spec.md: "wait() blocks until state
// leaves active").
func (f *Field) WaitWhile(mask uint32) {
	for {
		gatePtr := f.gateChan()
		if f.state.Load()&mask != mask {
			return
		}
		<-*gatePtr
	}
}

// broadcast wakes every goroutine parked in WaitWhile by closing the
// current gate channel and installing a fresh one, so future waiters
// don't immediately observe a closed channel from a stale transition.
func (f *Field) broadcast() {
	ch := make(chan struct{})
	old := f.gate.Swap(&ch)
	if old != nil {
		close(*old)
	}
}
