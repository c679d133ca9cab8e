package scheduler

import (
	"runtime"

	"github.com/momentics/taskflow/obslog"
	"github.com/momentics/taskflow/prng"
	"github.com/momentics/taskflow/task"
)

// execStats is a worker's own, non-atomic bookkeeping for the bounded
// explore backoff: nothing here is shared, so there is no need for
// atomics (spec.md §5.2's exec_stats).
type execStats struct {
	stealBound   int
	yieldBound   int
	failedSteals int
	yields       int
}

// newExecStats sets stealBound to 2*(numWorkers+1), matching the
// original's @NOTE that it be set externally rather than left at its
// struct default of 2.
func newExecStats(numWorkers int) execStats {
	return execStats{stealBound: 2 * (numWorkers + 1), yieldBound: 100}
}

// worker is one pool slot: its own deque, its own PRNG for victim
// selection, and its own exec stats. It never touches another worker's
// fields except through steal, which only ever pops from the front of a
// peer's deque or from the shared master queue.
type worker struct {
	id    int
	self  deque
	exec  execStats
	rng   *prng.Engine
	pool  *Pool
}

// exploitTask mirrors Algorithm 3: run the cached task, then drain the
// local deque LIFO before giving up ownership, bumping actives around
// the whole burst and waking a sibling on the 0->1 transition if no
// thief is currently out looking for work.
func exploitTask(stolen task.Func, activity *activityStats, self *deque) {
	if stolen == nil {
		return
	}
	if activity.actives.Add(1) == 1 && activity.thieves.Load() == 0 {
		activity.notifier.notify()
	}
	invoke(stolen)
	for {
		t, ok := self.tryPopBack()
		if !ok {
			break
		}
		invoke(t)
	}
	activity.actives.Add(-1)
}

func invoke(fn task.Func) {
	fn()
}

// exploreTask mirrors Algorithm 4: repeatedly pick a random victim
// (another worker's deque, or the master queue) and try to steal from
// it, backing off through a bounded spin before yielding, and giving up
// entirely after yieldBound yields.
func exploreTask(exec *execStats, w *worker) (task.Func, bool) {
	exec.failedSteals = 0
	exec.yields = 0
	for {
		if fn, ok := w.pool.stealFrom(w); ok {
			return fn, true
		}
		exec.failedSteals++
		if exec.failedSteals >= exec.stealBound {
			runtime.Gosched()
			exec.yields++
			if exec.yields == exec.yieldBound {
				break
			}
		}
	}
	return nil, false
}

// waitForTask mirrors Algorithm 5: register as a thief, explore, and if
// nothing turns up park on the shared event count — except when doing
// so would leave zero thieves while some worker is still active, in
// which case this worker undoes its tentative decrement and keeps
// exploring, preserving the invariant that an active worker always has
// at least one thief searching on its behalf.
func waitForTask(activity *activityStats, exec *execStats, w *worker) (task.Func, bool) {
	activity.thieves.Add(1)
	for {
		if fn, ok := exploreTask(exec, w); ok {
			if activity.thieves.Add(-1) == 0 {
				activity.notifier.notify()
			}
			return fn, true
		}

		epoch := activity.notifier.prepare()
		if !w.pool.master.empty() {
			if fn, ok := w.pool.master.steal(&w.self, true); ok {
				if activity.thieves.Add(-1) == 0 {
					activity.notifier.notify()
				}
				return fn, true
			}
			continue
		}

		if activity.stops.Load() {
			activity.notifier.notify()
			activity.thieves.Add(-1)
			return nil, false
		}

		if activity.thieves.Add(-1) == 0 && activity.actives.Load() > 0 {
			activity.thieves.Add(1)
			continue
		}

		obslog.WorkerEvent(w.pool.log, w.id, "sleep", activity.actives.Load(), activity.thieves.Load())
		activity.notifier.commitWait(epoch)
		return nil, true
	}
}

// workerLoop alternates waitForTask (steal-or-sleep) and exploitTask
// (run what was found) until waitForTask reports the pool has stopped.
func workerLoop(w *worker) {
	for {
		fn, ok := waitForTask(w.pool.activity, &w.exec, w)
		if !ok {
			return
		}
		exploitTask(fn, w.pool.activity, &w.self)
	}
}
