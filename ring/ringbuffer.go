package ring

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/taskflow/internal/slotstate"
	"github.com/momentics/taskflow/task"
)

// Policy selects how Execute drives a drained range.
type Policy int

const (
	// Parallel invokes every slot in the drained range concurrently.
	Parallel Policy = iota
	// Sequential waits for the predecessor slot to complete before
	// invoking each slot, preserving commit order.
	Sequential
)

const cacheLine = 64

// padIndex is a monotonic counter padded to its own cache line so that
// independent atomic traffic on tail/head/next never false-shares,
// mirroring the teacher's RingBuffer head/tail padding
// (core/concurrency/ring.go) generalized to all three indices spec.md
// requires.
type padIndex struct {
	v   atomic.Uint64
	_   [cacheLine - 8]byte
}

// RingBuffer is the bounded, lock-free MPMC queue of spec.md C5: a
// circular array of slots with three monotonic indices (tail, head,
// next), each on its own cache line, giving O(1) push, FIFO consume, and
// random-access iteration compatible with a standard for-each. The slots
// themselves are not padded or aligned to cache lines (see Slot), so
// adjacent slots can share one.
type RingBuffer struct {
	policy Policy
	_      [cacheLine - 8]byte
	tail   padIndex
	head   padIndex
	next   padIndex
	mask   uint64
	slots  []Slot
	gate   atomic.Pointer[chan struct{}]
}

// New allocates a ring buffer of exactly size slots, where size must be
// a power of two greater than 1 (spec.md §3). Sizes that are not a power
// of two are rounded up, matching the teacher's NewRingBuffer.
func New(size uint64, policy Policy) *RingBuffer {
	if size < 2 {
		size = 2
	}
	if size&(size-1) != 0 {
		n := size - 1
		n |= n >> 1
		n |= n >> 2
		n |= n >> 4
		n |= n >> 8
		n |= n >> 16
		n |= n >> 32
		size = n + 1
	}
	return &RingBuffer{
		policy: policy,
		mask:   size - 1,
		slots:  make([]Slot, size),
	}
}

func (r *RingBuffer) mix(i uint64) uint64 { return i & r.mask }

// Push claims a slot, stores fn, binds token to it, and commits the
// slot, following the five steps of spec.md §4.4 exactly: claim via
// fetch-add on next, wait-for-empty across a wrapped slot, back-pressure
// when the buffer would overflow, assign, then commit head in claim
// order (not arrival order).
func (r *RingBuffer) Push(token *Token, fn task.Func) *Token {
	// 1. Claim.
	slotIdx := r.next.v.Add(1) - 1
	slot := &r.slots[r.mix(slotIdx)]

	// 2. Wait-for-empty, then claim the cell itself.
	if slot.testActive() {
		slot.state.WaitWhile(slotstate.Active)
	}
	slot.Acquire()

	// 3. Full check: if the slot after this one is tail, the buffer is
	// full and we must wait for a consumer to advance tail.
	if r.mix(slotIdx+1-r.tail.v.Load()) == 0 {
		r.waitTailAdvance()
	}

	// 4. Assign + bind token.
	slot.Assign(fn)
	if token != nil {
		slot.BindToken(token)
	}

	// 5. Commit: CAS head from slotIdx to slotIdx+1, retrying until
	// predecessors with smaller claim indices have committed first, then
	// wake every goroutine blocked on head in WaitNonEmpty (see notifyHead).
	for !r.head.v.CompareAndSwap(slotIdx, slotIdx+1) {
		runtime.Gosched()
	}
	r.notifyHead()
	return token
}

// notifyHead wakes every goroutine parked in WaitNonEmpty by closing the
// current head gate and installing a fresh one, mirroring
// internal/slotstate.Field.broadcast's "swap, then close the old" shape
// so a notify racing a fresh WaitNonEmpty call can never drop a waiter.
func (r *RingBuffer) notifyHead() {
	ch := make(chan struct{})
	old := r.gate.Swap(&ch)
	if old != nil {
		close(*old)
	}
}

func (r *RingBuffer) gateChan() *chan struct{} {
	if p := r.gate.Load(); p != nil {
		return p
	}
	ch := make(chan struct{})
	r.gate.CompareAndSwap(nil, &ch)
	return r.gate.Load()
}

// PushNew is Push with a freshly allocated token.
func (r *RingBuffer) PushNew(fn task.Func) *Token {
	return r.Push(&Token{}, fn)
}

func (r *RingBuffer) waitTailAdvance() {
	tail := r.tail.v.Load()
	for r.tail.v.Load() == tail {
		runtime.Gosched()
	}
}

// Consume returns a half-open range over every committed, unclaimed slot
// (at most max of them; max == 0 means "as many as are available") and
// advances tail past it, transferring ownership of the whole range to
// the caller. The caller is solely responsible for calling Release
// (directly, or indirectly via Invoke) on every slot in the returned
// range.
func (r *RingBuffer) Consume(max uint64) Range {
	tail := r.tail.v.Load()
	head := r.head.v.Load()
	if max == 0 || max > head-tail {
		max = head - tail
	}
	end := tail + max
	b := newIterator(r.slots, r.mask, tail)
	e := newIterator(r.slots, r.mask, end)
	r.tail.v.Store(end)
	return Range{begin: b, end: e}
}

// Begin returns a non-consuming read-only iterator at the current tail.
func (r *RingBuffer) Begin() Iterator {
	return newIterator(r.slots, r.mask, r.tail.v.Load())
}

// End returns a non-consuming read-only iterator at the current head.
func (r *RingBuffer) End() Iterator {
	return newIterator(r.slots, r.mask, r.head.v.Load())
}

// Execute consumes up to max slots and invokes them, returning the
// number of slots processed. Under Parallel policy invocations run
// concurrently; under Sequential each slot waits for its immediate
// predecessor so that commit order is preserved end-to-end.
func (r *RingBuffer) Execute(max uint64) int {
	rg := r.Consume(max)
	return r.executeRange(rg)
}

func (r *RingBuffer) executeRange(rg Range) int {
	n := rg.Len()
	if n == 0 {
		return 0
	}
	switch r.policy {
	case Parallel:
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			s := rg.At(i)
			go func(s *Slot) {
				defer wg.Done()
				s.Invoke()
			}(s)
		}
		wg.Wait()
	default: // Sequential
		prev := rg.begin.Add(-1)
		if !prev.Equal(rg.end) && prev.At().testActive() {
			prev.At().Wait()
		}
		for i := 0; i < n; i++ {
			rg.At(i).Invoke()
		}
	}
	return n
}

// Clear drains everything and resets each slot without invoking it,
// for use during shutdown (spec.md §4.4).
func (r *RingBuffer) Clear() {
	rg := r.Consume(0)
	for i := 0; i < rg.Len(); i++ {
		rg.At(i).Release()
	}
}

// Size returns the number of committed-but-unconsumed slots.
func (r *RingBuffer) Size() uint64 {
	return r.mix(r.head.v.Load() - r.tail.v.Load())
}

// Empty reports whether Size is zero.
func (r *RingBuffer) Empty() bool {
	return r.Size() == 0
}

// MaxSize returns the largest number of slots the buffer can hold at
// once (capacity - 1, since a full slot ring is indistinguishable from
// empty without reserving one sentinel position).
func (r *RingBuffer) MaxSize() uint64 {
	return r.mask
}

// WaitNonEmpty blocks until Size is non-zero, matching the original's
// `ring_buffer::wait()`: a direct consumer of the buffer (one that
// Consumes in a loop without an intake queue in front of it) can block
// here instead of polling, and is woken by the same head-commit notify
// Push issues on every successful commit. executor.Executor does not
// call this: its run loop blocks on its own intake-arrival channel
// instead, since work reaches its buffer only after passing through
// that intake queue, not directly through Push.
func (r *RingBuffer) WaitNonEmpty() {
	for {
		gatePtr := r.gateChan()
		if !r.Empty() {
			return
		}
		<-*gatePtr
	}
}
