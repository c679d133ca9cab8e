// Package scheduler implements the adaptive work-stealing pool of
// spec.md §5 (C8): a fixed set of worker goroutines, each owning a
// local deque, stealing from peers and a shared master queue, backing
// off through a bounded explore phase before parking on a shared event
// count. It is ported line-for-line in spirit from
// original_source/libthreadable/threadable/scheduler/stealing.hxx's
// Algorithms 3-5 (exploit_task, explore_task, wait_for_task), which
// the teacher repo's own internal/concurrency/scheduler.go approximates
// with a much simpler single-level steal; this package restores the
// original's activity/thief bookkeeping in full since spec.md requires
// its exact wake/sleep guarantees.
package scheduler

import "sync/atomic"

// eventCount is a monotonic-epoch wait/notify gate, standing in for
// C++'s std::atomic<uint64_t>::wait/notify (which Go's atomic package
// has no equivalent of): prepare() snapshots the epoch, commitWait
// blocks on a channel that notify closes and replaces, so a notify that
// lands between prepare and commitWait is never missed.
type eventCount struct {
	epoch atomic.Uint64
	gate  atomic.Pointer[chan struct{}]
}

func (e *eventCount) gateChan() chan struct{} {
	if p := e.gate.Load(); p != nil {
		return *p
	}
	ch := make(chan struct{})
	e.gate.CompareAndSwap(nil, &ch)
	return *e.gate.Load()
}

// prepare returns the current epoch, to be passed to commitWait.
func (e *eventCount) prepare() uint64 {
	return e.epoch.Load()
}

// commitWait blocks until a notify advances the epoch past the one
// passed in, or returns immediately if one already has.
func (e *eventCount) commitWait(epoch uint64) {
	ch := e.gateChan()
	if e.epoch.Load() != epoch {
		return
	}
	<-ch
}

// notify wakes every waiter blocked in commitWait. The original
// distinguishes notify_one from notify_all; Go's channel-close gate
// wakes every parked receiver regardless, so both collapse to the same
// broadcast here (documented simplification — see DESIGN.md).
func (e *eventCount) notify() {
	ch := make(chan struct{})
	e.epoch.Add(1)
	old := e.gate.Swap(&ch)
	if old != nil {
		close(*old)
	}
}

// activityStats is the set of atomics every worker in a pool shares:
// how many are actively exploiting, how many are out thieving, and
// whether the pool has been asked to stop. At least one thief must exist
// whenever any worker is active and another is idle (Lemma 1 of the
// original), which is what wait_for_task's tentative-decrement dance
// below maintains.
type activityStats struct {
	notifier eventCount
	actives  atomic.Int64
	thieves  atomic.Int64
	stops    atomic.Bool
}
