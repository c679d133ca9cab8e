package executor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/taskflow/ring"
)

func TestExecutorRunsSubmittedWork(t *testing.T) {
	e := New(64, ring.Parallel)
	var n int32
	const count = 200
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		if _, err := e.Submit(func() {
			atomic.AddInt32(&n, 1)
			wg.Done()
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
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
	e.Stop()
	if got := atomic.LoadInt32(&n); got != count {
		t.Fatalf("expected %d runs, got %d", count, got)
	}
}

func TestExecutorRejectsSubmitAfterStop(t *testing.T) {
	e := New(8, ring.Parallel)
	e.Stop()
	if _, err := e.Submit(func() {}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestExecutorSubmitRangeRunsEverySlotSequentially(t *testing.T) {
	src := ring.New(16, ring.Sequential)
	var mu sync.Mutex
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		src.PushNew(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	rg := src.Consume(0)

	e := New(8, ring.Parallel)
	defer e.Stop()

	tok, err := e.SubmitRange(rg, ring.Sequential)
	if err != nil {
		t.Fatalf("submit range failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		tok.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for range to execute")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 5 {
		t.Fatalf("expected 5 invocations, got %v", order)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("expected in-order execution, got %v", order)
		}
	}
}
