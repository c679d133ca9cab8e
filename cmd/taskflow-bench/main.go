// Command taskflow-bench is a small throughput/latency harness for the
// taskflow scheduler: it submits a configurable number of trivial tasks
// and reports how long the pool took to drain them. It exists as a
// collaborator outside the library's core scope (spec.md explicitly
// excludes a CLI from C1-C9), built with the standard library's flag
// package since nothing in the retrieval pack is actually called as a
// CLI-flag library anywhere (see DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/taskflow"
	"github.com/momentics/taskflow/ring"
)

func main() {
	var (
		numTasks  = flag.Int("tasks", 1_000_000, "number of tasks to submit")
		repeatLen = flag.Int("repeat", 0, "if > 0, schedule that many repeat_async chains instead of one-shot tasks")
	)
	flag.Parse()

	start := time.Now()
	tasks := *numTasks
	if *repeatLen > 0 {
		runRepeatBench(*repeatLen)
		tasks = *repeatLen * 10 // each chain runs 10 times, see runRepeatBench
	} else {
		runOneShotBench(*numTasks)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stdout, "completed in %s (%.0f tasks/sec)\n", elapsed, float64(tasks)/elapsed.Seconds())
	taskflow.Shutdown()
}

func runOneShotBench(n int) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		taskflow.Async(func() { wg.Done() })
	}
	wg.Wait()
}

func runRepeatBench(chains int) {
	var wg sync.WaitGroup
	wg.Add(chains)
	for i := 0; i < chains; i++ {
		var runs int32
		taskflow.RepeatAsync(func(t *ring.Token) {
			if atomic.AddInt32(&runs, 1) >= 10 {
				t.Cancel()
				wg.Done()
			}
		})
	}
	wg.Wait()
}
