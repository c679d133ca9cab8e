package scheduler

import (
	"sync"

	"github.com/momentics/taskflow/task"
)

// deque is a worker's local double-ended queue: the owner pushes and
// pops from the back (LIFO, good cache locality for recursively spawned
// work), thieves pop from the front (FIFO, taking the oldest, least
// related task). The original models this with a lock-free cas_deque;
// the pack carries no lock-free deque implementation to ground one on
// (see DESIGN.md), so this is a plain mutex-guarded slice, which is
// still correct and, at one lock per steal/pop, cheap enough for a
// worker count in the tens.
type deque struct {
	mu    sync.Mutex
	items []task.Func
}

func (d *deque) pushBack(fn task.Func) {
	d.mu.Lock()
	d.items = append(d.items, fn)
	d.mu.Unlock()
}

func (d *deque) tryPopBack() (task.Func, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.items)
	if n == 0 {
		return nil, false
	}
	fn := d.items[n-1]
	d.items = d.items[:n-1]
	return fn, true
}

func (d *deque) tryPopFront() (task.Func, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil, false
	}
	fn := d.items[0]
	d.items = d.items[1:]
	return fn, true
}

func (d *deque) empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items) == 0
}
