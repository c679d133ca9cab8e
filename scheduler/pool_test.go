package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsSubmittedWork(t *testing.T) {
	p := New(4)
	defer p.Stop()

	const count = 2000
	var n int32
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		p.Submit(func() {
			atomic.AddInt32(&n, 1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out, ran %d/%d", atomic.LoadInt32(&n), count)
	}
	if got := atomic.LoadInt32(&n); got != count {
		t.Fatalf("expected %d runs, got %d", count, got)
	}
}

func TestPoolStopJoinsAllWorkers(t *testing.T) {
	p := New(3)
	var n int32
	for i := 0; i < 50; i++ {
		p.Submit(func() { atomic.AddInt32(&n, 1) })
	}
	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop did not return in time")
	}
}

func TestEventCountPrepareCommitWaitNotify(t *testing.T) {
	var ec eventCount
	epoch := ec.prepare()

	woke := make(chan struct{})
	go func() {
		ec.commitWait(epoch)
		close(woke)
	}()

	select {
	case <-woke:
		t.Fatalf("commitWait returned before notify")
	case <-time.After(20 * time.Millisecond):
	}

	ec.notify()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatalf("commitWait did not unblock after notify")
	}
}

func TestNewWithConfigHonorsWorkerCountAndStealBound(t *testing.T) {
	p := NewWithConfig(WithWorkers(2), WithStealBound(3), WithAffinity(false))
	defer p.Stop()

	if len(p.workers) != 2 {
		t.Fatalf("expected 2 workers, got %d", len(p.workers))
	}
	for _, w := range p.workers {
		if w.exec.stealBound != 3 {
			t.Fatalf("expected steal bound 3, got %d", w.exec.stealBound)
		}
	}

	var n int32
	const count = 100
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		p.Submit(func() {
			atomic.AddInt32(&n, 1)
			wg.Done()
		})
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out, ran %d/%d", atomic.LoadInt32(&n), count)
	}
}

func TestDequeFIFOFromFront(t *testing.T) {
	var d deque
	var order []int
	d.pushBack(func() { order = append(order, 1) })
	d.pushBack(func() { order = append(order, 2) })

	fn, ok := d.tryPopFront()
	if !ok {
		t.Fatalf("expected an item")
	}
	fn()
	fn, ok = d.tryPopFront()
	if !ok {
		t.Fatalf("expected a second item")
	}
	fn()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected FIFO order [1 2], got %v", order)
	}
	if !d.empty() {
		t.Fatalf("expected deque empty after draining")
	}
}
