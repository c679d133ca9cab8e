// Package executor implements the single-threaded drainer described in
// spec.md §4.6 (C7): a private ring buffer run by exactly one goroutine,
// fed by an intake queue any number of producers may submit to.
//
// It descends from the teacher's core/concurrency/executor.go, keeping
// its single-worker submit/run loop shape and its use of
// github.com/eapache/queue as the intake structure ahead of the
// lock-free core, but replaces the teacher's channel-based global queue
// with the package's own ring.RingBuffer so that submitted work goes
// through the same claim/commit/consume protocol as every other task in
// the system.
package executor

import (
	"errors"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/taskflow/obslog"
	"github.com/momentics/taskflow/ring"
	"github.com/momentics/taskflow/task"
)

// state tracks the executor's run-loop lifecycle (spec.md §4.6).
type state int32

const (
	running state = iota
	stopping
	stopped
)

// ErrStopped is returned by Submit once the executor has begun (or
// finished) stopping.
var ErrStopped = errors.New("executor: stopped")

// Executor is a single-threaded execution context with a private ring
// buffer. It is intentionally non-copyable and non-movable, matching
// spec.md §6's contract for `executor`.
type Executor struct {
	buf *ring.RingBuffer

	mu      sync.Mutex
	intake  *queue.Queue
	notify  chan struct{}
	doneCh  chan struct{}
	stateMu sync.Mutex
	st      state
}

// New starts an executor backed by a ring buffer of the given capacity
// and policy, and begins its run loop immediately.
func New(capacity uint64, policy ring.Policy) *Executor {
	e := &Executor{
		buf:    ring.New(capacity, policy),
		intake: queue.New(),
		notify: make(chan struct{}, 1),
		doneCh: make(chan struct{}),
	}
	go e.run()
	return e
}

// Submit pushes a plain callable into the executor's private buffer.
func (e *Executor) Submit(fn task.Func) (*ring.Token, error) {
	return e.submit(fn)
}

// SubmitRange pushes a single closure that, when invoked, executes r's
// slots with the given policy (sequential waits on each predecessor,
// parallel runs concurrently), matching spec.md's `submit(range, policy)`.
func (e *Executor) SubmitRange(r ring.Range, policy ring.Policy) (*ring.Token, error) {
	return e.submit(func() {
		n := r.Len()
		if policy == ring.Parallel {
			var wg sync.WaitGroup
			wg.Add(n)
			for i := 0; i < n; i++ {
				go func(s *ring.Slot) {
					defer wg.Done()
					s.Invoke()
				}(r.At(i))
			}
			wg.Wait()
			return
		}
		for i := 0; i < n; i++ {
			s := r.At(i)
			if policy == ring.Sequential && i > 0 {
				r.At(i - 1).Wait()
			}
			s.Invoke()
		}
	})
}

// submit gives fn a freestanding completion token before it ever
// reaches the ring buffer: items sit in the intake queue for an
// unbounded (producer-dependent) time before drainIntake moves them
// into a slot, so there is no slot to bind a token to yet at the moment
// Submit is called. See ring.Token.Rebind/NewStandalone.
func (e *Executor) submit(fn task.Func) (*ring.Token, error) {
	e.stateMu.Lock()
	stopped := e.st != running
	e.stateMu.Unlock()
	if stopped {
		return nil, ErrStopped
	}

	tok, wrapped := ring.NewStandalone(fn)

	e.mu.Lock()
	e.intake.Add(wrapped)
	e.mu.Unlock()

	select {
	case e.notify <- struct{}{}:
	default:
	}
	return tok, nil
}

// Stop pushes a final closure that transitions stopping->stopped and
// drains the buffer, then blocks until the run loop has exited.
func (e *Executor) Stop() {
	e.stateMu.Lock()
	if e.st != running {
		e.stateMu.Unlock()
		<-e.doneCh
		return
	}
	e.st = stopping
	e.stateMu.Unlock()

	e.mu.Lock()
	e.intake.Add(task.Func(func() {
		e.stateMu.Lock()
		e.st = stopped
		e.stateMu.Unlock()
		e.buf.Clear()
	}))
	e.mu.Unlock()

	select {
	case e.notify <- struct{}{}:
	default:
	}
	<-e.doneCh
}

// run alternates draining the intake queue into the ring buffer and
// invoking whatever the buffer has committed. When both the buffer and
// the intake queue are empty it blocks on the intake-arrival channel
// (notify) rather than on the buffer itself, since work reaches the
// buffer only through drainIntake.
func (e *Executor) run() {
	defer close(e.doneCh)
	for {
		e.drainIntake()
		e.buf.Execute(0)

		e.stateMu.Lock()
		st := e.st
		e.stateMu.Unlock()
		if st == stopped {
			return
		}
		if e.buf.Empty() && e.intakeEmpty() {
			<-e.notify
		}
	}
}

// drainIntake moves queued callables into the ring buffer, stopping
// once the buffer has no free slots left rather than blocking inside
// PushNew: the run loop alone drains the buffer (via Execute, right
// after this returns), so blocking here would deadlock against itself
// whenever intake backlog exceeds the buffer's capacity.
func (e *Executor) drainIntake() {
	for e.buf.Size() < e.buf.MaxSize() {
		e.mu.Lock()
		depth := e.intake.Length()
		if depth == 0 {
			e.mu.Unlock()
			return
		}
		v := e.intake.Peek()
		e.intake.Remove()
		e.mu.Unlock()
		if depth > 64 {
			obslog.QueueDepth(obslog.Default, "executor-intake", depth)
		}
		fn := v.(task.Func)
		e.buf.PushNew(fn)
	}
}

func (e *Executor) intakeEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.intake.Length() == 0
}
