package scheduler

import (
	"runtime"
	"sync"
	"time"

	"github.com/momentics/taskflow/affinity"
	"github.com/momentics/taskflow/obslog"
	"github.com/momentics/taskflow/prng"
	"github.com/momentics/taskflow/task"
)

// Pool is a fixed-size work-stealing scheduler: spec.md §5's C8. It owns
// a shared master queue, one deque per worker goroutine, and the
// activity/thief bookkeeping worker.go's algorithms rely on to decide
// when to sleep and when to wake a sibling.
type Pool struct {
	workers  []*worker
	activity *activityStats
	master   *masterQueue
	log      *obslog.Logger
	wg       sync.WaitGroup
}

// New starts a pool of numWorkers goroutines, each running workerLoop,
// with affinity disabled and the default steal bound. For numWorkers >= 1
// this is equivalent to NewWithConfig(WithWorkers(numWorkers)); a
// non-positive numWorkers starts a single worker here, where
// NewWithConfig would start GOMAXPROCS workers.
func New(numWorkers int) *Pool {
	return newPool(Config{numWorkers: numWorkers})
}

// newPool is the shared constructor behind New and NewWithConfig.
func newPool(c Config) *Pool {
	numWorkers := c.numWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	stealBound := c.stealBound
	if stealBound < 1 {
		stealBound = 2 * (numWorkers + 1)
	}
	p := &Pool{
		activity: &activityStats{},
		master:   newMasterQueue(),
		log:      obslog.Default,
	}
	p.workers = make([]*worker, numWorkers)
	for i := range p.workers {
		exec := newExecStats(numWorkers)
		exec.stealBound = stealBound
		p.workers[i] = &worker{
			id:   i,
			exec: exec,
			rng:  prng.New(uint64(time.Now().UnixNano())+uint64(i)*0x9e3779b97f4a7c15, uint64(i)),
			pool: p,
		}
	}
	numCPU := runtime.NumCPU()
	p.wg.Add(numWorkers)
	for _, w := range p.workers {
		w := w
		go func() {
			defer p.wg.Done()
			if c.affinity {
				_ = affinity.Pin(w.id % numCPU)
			}
			workerLoop(w)
		}()
	}
	return p
}

// Submit hands fn to the master queue and wakes a sleeping worker, if
// any, to look for it.
func (p *Pool) Submit(fn task.Func) {
	p.master.push(fn)
	p.activity.notifier.notify()
}

// Stop asks every worker to exit once it next finds the master queue
// empty and no work locally, and blocks until all have returned.
func (p *Pool) Stop() {
	p.activity.stops.Store(true)
	p.activity.notifier.notify()
	p.wg.Wait()
}

// stealFrom picks a random victim among w's peers (or the master queue,
// selected when the draw lands on w's own id) and attempts one steal,
// matching explore_task's "victim == self -> steal(master_queue)"
// branch.
func (p *Pool) stealFrom(w *worker) (task.Func, bool) {
	victim := int(w.rng.Intn(uint32(len(p.workers))))
	if victim == w.id {
		return p.master.steal(&w.self, false)
	}
	return p.workers[victim].self.tryPopFront()
}
