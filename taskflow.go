// Package taskflow is the public facade of spec.md C9: fire-and-forget
// async scheduling, self-requeuing repeat_async, and range-based
// execute, all handed off to a process-wide work-stealing pool that is
// started lazily on first use and can be drained and stopped with
// Shutdown.
package taskflow

import (
	"runtime"
	"sync"

	"github.com/momentics/taskflow/ring"
	"github.com/momentics/taskflow/scheduler"
	"github.com/momentics/taskflow/task"
)

var (
	poolOnce sync.Once
	pool     *scheduler.Pool
)

func defaultPool() *scheduler.Pool {
	poolOnce.Do(func() {
		pool = scheduler.New(runtime.GOMAXPROCS(0))
	})
	return pool
}

// Async schedules fn to run on the default pool and returns a token
// observing its completion.
func Async(fn task.Func) *ring.Token {
	t, wrapped := ring.NewStandalone(fn)
	defaultPool().Submit(wrapped)
	return t
}

// AsyncWithToken schedules fn on the default pool, rebinding the
// caller-supplied token to the new invocation rather than allocating a
// fresh one — useful when a caller wants to reuse a single token handle
// across an explicit chain of Async calls.
func AsyncWithToken(t *ring.Token, fn task.Func) *ring.Token {
	defaultPool().Submit(t.Rebind(fn))
	return t
}

// RepeatAsync schedules fn to run on the default pool, and as long as
// the returned token has not been cancelled, reschedules it again
// immediately after each run completes — rebinding the same token to
// each new invocation before the previous one returns, so Wait always
// follows the live invocation rather than a stale one.
func RepeatAsync(fn func(t *ring.Token)) *ring.Token {
	t := &ring.Token{}
	var loop func()
	loop = func() {
		if t.Cancelled() {
			return
		}
		fn(t)
		if !t.Cancelled() {
			defaultPool().Submit(t.Rebind(loop))
		}
	}
	defaultPool().Submit(t.Rebind(loop))
	return t
}

// Execute runs every slot in r under policy, matching spec.md's
// "execute(policy, range, args…)": for ring.Sequential, invoke each
// element in order on the calling goroutine; for ring.Parallel, push
// each onto the default pool (C8) and wait on the aggregated token
// group, rather than spawning raw unbounded goroutines of its own.
func Execute(r ring.Range, policy ring.Policy) {
	n := r.Len()
	if n == 0 {
		return
	}
	if policy != ring.Parallel {
		for i := 0; i < n; i++ {
			r.At(i).Invoke()
		}
		return
	}

	var group ring.TokenGroup
	for i := 0; i < n; i++ {
		s := r.At(i)
		group.Add(Async(func() { s.Invoke() }))
	}
	group.Wait()
}

// Shutdown stops the default pool, waiting for every worker to exit. A
// subsequent Async/RepeatAsync call starts a fresh pool. It exists for
// tests and graceful-shutdown paths; most processes never call it.
func Shutdown() {
	if pool != nil {
		pool.Stop()
		pool = nil
	}
	poolOnce = sync.Once{}
}
