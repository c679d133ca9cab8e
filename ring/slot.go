// Package ring implements the lock-free MPMC ring buffer (spec.md C3-C6):
// the per-slot ownership protocol, the wrap-safe random-access iterator,
// the ring buffer itself, and the observer tokens bound to a slot's
// state. It is the direct descendant of the teacher's
// core/concurrency/ring.go and core/concurrency/lock_free_queue.go,
// generalized from a Vyukov-style sequence-number cell to the
// claim/commit slot state machine spec.md requires (needed so a
// consumer can `consume` a whole committed range at once, rather than
// dequeueing one cell at a time).
package ring

import (
	"runtime"

	"github.com/momentics/taskflow/internal/slotstate"
	"github.com/momentics/taskflow/task"
)

// Slot mediates ownership transfer of a single callable between a
// producer and a consumer (spec.md §4.2). In the original C++, a slot is
// cache-line aligned so adjacent producer/consumer traffic doesn't false
// share; Go's GC-managed slices can't express per-element alignment
// padding the way `alignas` does, so RingBuffer instead spaces out its
// own hot fields (tail/head/next) across cache lines, which is where
// false sharing actually matters for a single shared ring.
type Slot struct {
	state slotstate.Field
	buf   task.Buffer
}

// Acquire spin-CASes the state from empty to claimed.
func (s *Slot) Acquire() {
	s.state.AcquireClaim(runtime.Gosched)
}

// Assign stores fn into the buffer and transitions claimed->active. The
// design intentionally does not notify waiters here: waiters block on
// the active->empty edge instead (spec.md §4.2).
func (s *Slot) Assign(fn task.Func) {
	s.buf.Emplace(fn)
	s.state.StoreQuiet(slotstate.Active)
}

// Wait blocks until the slot leaves the active state.
func (s *Slot) Wait() {
	s.state.WaitWhile(slotstate.Active)
}

// Release destroys the callable and returns the slot to empty, waking
// any waiters (producers wrapped around onto this slot, or token.Wait
// callers).
func (s *Slot) Release() {
	s.buf.Reset()
	s.state.StoreRelease(slotstate.Empty)
}

// Invoke runs the stored callable and releases the slot, matching
// `ring_buffer::execute`'s per-job invocation in the original source. A
// panic inside fn is a programmer error: it propagates to the caller, but
// only after the deferred Release has returned the slot to empty, so
// callers that need resilience must recover within their own task.
func (s *Slot) Invoke() {
	defer s.Release()
	s.buf.Invoke()
}

// BindToken publishes a pointer to this slot's state field into t,
// establishing the observer relationship described in spec.md §3 (Token).
func (s *Slot) BindToken(t *Token) {
	t.bind(&s.state)
}

func (s *Slot) testActive() bool {
	return s.state.Test(slotstate.Active)
}
