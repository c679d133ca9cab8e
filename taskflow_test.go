package taskflow

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/taskflow/ring"
)

func TestAsyncRunsAndTokenCompletes(t *testing.T) {
	defer Shutdown()

	var ran int32
	tok := Async(func() { atomic.StoreInt32(&ran, 1) })
	tok.Wait()
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("Async task did not run before Wait returned")
	}
	if !tok.Done() {
		t.Fatalf("token should be done after Wait")
	}
}

func TestRepeatAsyncStopsOnCancel(t *testing.T) {
	defer Shutdown()

	var runs int32
	tok := RepeatAsync(func(t *ring.Token) {
		if atomic.AddInt32(&runs, 1) >= 5 {
			t.Cancel()
		}
	})

	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt32(&runs) < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := atomic.LoadInt32(&runs); got < 5 {
		t.Fatalf("expected at least 5 runs before cancellation, got %d", got)
	}
	if !tok.Cancelled() {
		t.Fatalf("expected token to be cancelled")
	}
	tok.Wait()
	if got := atomic.LoadInt32(&runs); got != 5 {
		t.Fatalf("expected the chain to stop at the cancelling run (5), got %d runs", got)
	}
	if !tok.Done() {
		t.Fatalf("expected token to be done after Wait")
	}
}

func TestExecuteParallelRunsEverySlotViaPool(t *testing.T) {
	defer Shutdown()

	r := ring.New(16, ring.Parallel)
	var n int32
	for i := 0; i < 10; i++ {
		r.PushNew(func() { atomic.AddInt32(&n, 1) })
	}
	rg := r.Consume(0)
	Execute(rg, ring.Parallel)
	if got := atomic.LoadInt32(&n); got != 10 {
		t.Fatalf("expected 10 invocations, got %d", got)
	}
}

func TestExecuteSequentialRunsInOrder(t *testing.T) {
	r := ring.New(16, ring.Sequential)
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		r.PushNew(func() { order = append(order, i) })
	}
	rg := r.Consume(0)
	Execute(rg, ring.Sequential)
	if len(order) != 5 {
		t.Fatalf("expected 5 invocations, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("expected in-order execution, got %v", order)
		}
	}
}
