package scheduler

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/taskflow/task"
)

// masterQueue is the scheduler's shared overflow queue: where Submit
// lands work that has no owning worker yet, and where idle workers look
// first before giving up and sleeping (wait_for_task's masterOnly
// steal). It is backed by the same github.com/eapache/queue ring buffer
// the executor's intake uses, guarded by a mutex rather than the ring
// package's lock-free protocol: the master queue's contended section is
// a single Remove, not the claim/commit dance a ring buffer exists to
// parallelize, so a mutex is both simpler and no slower here.
type masterQueue struct {
	mu    sync.Mutex
	items *queue.Queue
}

func newMasterQueue() *masterQueue {
	return &masterQueue{items: queue.New()}
}

func (m *masterQueue) push(fn task.Func) {
	m.mu.Lock()
	m.items.Add(fn)
	m.mu.Unlock()
}

func (m *masterQueue) empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Length() == 0
}

// steal drains the master queue into target, returning the first item
// directly (the "cached" task the thief will run immediately) and
// pushing the rest onto target's back. masterOnly exists for symmetry
// with the original's master_queue concept — this implementation only
// ever steals from the shared queue itself, so the parameter is unused
// (see DESIGN.md: peer-to-peer stealing is handled by Pool.stealFrom in
// pool.go popping peer deques directly rather than routing through
// masterQueue).
func (m *masterQueue) steal(target *deque, masterOnly bool) (task.Func, bool) {
	_ = masterOnly
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items.Length() == 0 {
		return nil, false
	}
	first := m.items.Peek().(task.Func)
	m.items.Remove()
	for m.items.Length() > 0 {
		fn := m.items.Peek().(task.Func)
		m.items.Remove()
		target.pushBack(fn)
	}
	return first, true
}
