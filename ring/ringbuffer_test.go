package ring

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRingBufferPushConsumeSingle(t *testing.T) {
	r := New(8, Parallel)
	var ran int32
	r.PushNew(func() { atomic.StoreInt32(&ran, 1) })

	rg := r.Consume(0)
	if rg.Len() != 1 {
		t.Fatalf("expected 1 committed slot, got %d", rg.Len())
	}
	rg.At(0).Invoke()
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("task did not run")
	}
	if !r.Empty() {
		t.Fatalf("expected buffer empty after consume+invoke")
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	r := New(4, Parallel)
	var sum int64
	const n = 50
	for i := 0; i < n; i++ {
		i := i
		r.PushNew(func() { atomic.AddInt64(&sum, int64(i)) })
		rg := r.Consume(0)
		for j := 0; j < rg.Len(); j++ {
			rg.At(j).Invoke()
		}
	}
	var want int64
	for i := 0; i < n; i++ {
		want += int64(i)
	}
	if sum != want {
		t.Fatalf("expected sum %d, got %d", want, sum)
	}
}

func TestRingBufferMultiProducerFIFO(t *testing.T) {
	r := New(1024, Parallel)
	const producers = 8
	const perProducer = 500

	// Every task is invoked by the single consumer goroutine below, so
	// last and outOfOrder need no locking; they are read only after done.
	last := make([]int, producers)
	for p := range last {
		last[p] = -1
	}
	var outOfOrder int

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		p := p
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				i := i
				for {
					if r.Size() < r.MaxSize() {
						r.PushNew(func() {
							if i != last[p]+1 {
								outOfOrder++
							}
							last[p] = i
						})
						break
					}
				}
			}
		}()
	}

	total := producers * perProducer
	var consumed int
	done := make(chan struct{})
	go func() {
		for consumed < total {
			if r.Empty() {
				continue
			}
			rg := r.Consume(0)
			n := rg.Len()
			for i := 0; i < n; i++ {
				rg.At(i).Invoke()
			}
			consumed += n
		}
		close(done)
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out draining, consumed %d/%d", consumed, total)
	}
	if outOfOrder != 0 {
		t.Fatalf("%d tasks ran out of their producer's push order", outOfOrder)
	}
	for p, v := range last {
		if v != perProducer-1 {
			t.Fatalf("producer %d: last task run was %d, expected %d", p, v, perProducer-1)
		}
	}
}

func TestRingBufferSequentialPolicyOrder(t *testing.T) {
	const n = 20
	r := New(32, Sequential) // usable capacity (mask) must be at least n since nothing drains until Execute below
	var order []int
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		i := i
		r.PushNew(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	r.Execute(0)
	if len(order) != n {
		t.Fatalf("expected %d invocations, got %d", n, len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("sequential policy reordered: order[%d]=%d", i, v)
		}
	}
}

func TestRingBufferWaitNonEmptyWakesOnPush(t *testing.T) {
	r := New(8, Parallel)

	woke := make(chan struct{})
	go func() {
		r.WaitNonEmpty()
		close(woke)
	}()

	select {
	case <-woke:
		t.Fatalf("WaitNonEmpty returned before anything was pushed")
	case <-time.After(20 * time.Millisecond):
	}

	r.PushNew(func() {})

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatalf("WaitNonEmpty did not wake after a push committed")
	}
}

func TestTokenWaitAfterInvoke(t *testing.T) {
	r := New(8, Parallel)
	tok := r.PushNew(func() {})
	if tok.Done() {
		t.Fatalf("token should not be done before invocation")
	}
	rg := r.Consume(0)
	rg.At(0).Invoke()
	tok.Wait()
	if !tok.Done() {
		t.Fatalf("token should be done after invocation")
	}
}

func TestTokenGroupConjunctiveWait(t *testing.T) {
	r := New(8, Parallel)
	var group TokenGroup
	for i := 0; i < 3; i++ {
		group.Add(r.PushNew(func() { time.Sleep(time.Millisecond) }))
	}
	go func() {
		rg := r.Consume(0)
		for i := 0; i < rg.Len(); i++ {
			rg.At(i).Invoke()
		}
	}()
	group.Wait()
	if !group.Done() {
		t.Fatalf("expected all tokens done after group wait")
	}
}
