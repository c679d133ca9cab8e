package ring

import (
	"sync/atomic"

	"github.com/momentics/taskflow/internal/slotstate"
	"github.com/momentics/taskflow/task"
)

// Token is an observer handle onto a single slot's state: it supports
// done-checking, cooperative cancellation, and blocking wait (spec.md
// §4.5). A slot never knows which tokens observe it; dropping a token
// has no effect on the slot it was bound to.
//
// The state pointer is itself atomic so that a self-requeuing task
// (RepeatAsync) can rebind the token to a fresh completion state before
// the previous invocation returns, and a concurrent Wait call will
// follow the rebind rather than observe a stale slot.
type Token struct {
	cancelled atomic.Bool
	state     atomic.Pointer[slotstate.Field]
}

func (t *Token) bind(state *slotstate.Field) {
	t.state.Store(state)
}

// Done reports whether the observed slot is no longer active, or true if
// the token observes no slot at all.
func (t *Token) Done() bool {
	state := t.state.Load()
	return state == nil || !state.Test(slotstate.Active)
}

// Cancel sets the token's cancellation flag. It never blocks and does
// not itself affect whether the underlying slot runs to completion;
// callables that accept a *Token as their first argument may poll
// Cancelled to stop self-requeuing (see RepeatAsync).
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports the cancellation flag set by Cancel.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

// Wait blocks until the observed slot leaves the active state and stays
// that way: if a rebind (RepeatAsync requeuing a task before its
// previous invocation returns) lands while this call is parked on the
// old target, Wait re-observes the new target rather than returning the
// instant the stale one clears, so a waiter never races a requeue.
func (t *Token) Wait() {
	for {
		state := t.state.Load()
		if state == nil {
			return
		}
		state.WaitWhile(slotstate.Active)
		if t.state.Load() == state {
			return
		}
	}
}

// Rebind gives t a fresh, freestanding completion state not owned by
// any ring buffer, and returns fn wrapped so that state transitions
// Active->Empty when fn returns. This is what lets a caller outside
// package ring (the scheduler facade) hand a plain callable to a pool
// worker while still exposing Done/Wait/Cancel on the returned token —
// and what RepeatAsync uses to rebind the same token to a new slot's
// state before the previous invocation returns, so a concurrent Wait
// follows the task across requeues instead of returning early.
func (t *Token) Rebind(fn task.Func) task.Func {
	state := &slotstate.Field{}
	state.StoreRelease(slotstate.Active)
	t.bind(state)
	return func() {
		defer state.StoreRelease(slotstate.Empty)
		fn()
	}
}

// NewStandalone allocates a token bound to a freestanding state (see
// Rebind) and returns it along with fn wrapped to drive that state.
func NewStandalone(fn task.Func) (*Token, task.Func) {
	t := &Token{}
	return t, t.Rebind(fn)
}

// TokenGroup aggregates tokens for collective done/cancel/wait
// operations. Wait is conjunctive: it returns only once every member is
// done (spec.md §4.5).
type TokenGroup struct {
	tokens []*Token
}

// Add appends t to the group.
func (g *TokenGroup) Add(t *Token) {
	g.tokens = append(g.tokens, t)
}

// Len returns the number of tokens currently in the group.
func (g *TokenGroup) Len() int {
	return len(g.tokens)
}

// Done reports whether every token in the group is done.
func (g *TokenGroup) Done() bool {
	for _, t := range g.tokens {
		if !t.Done() {
			return false
		}
	}
	return true
}

// Cancel cancels every token in the group.
func (g *TokenGroup) Cancel() {
	for _, t := range g.tokens {
		t.Cancel()
	}
}

// Wait blocks until every token in the group is done.
func (g *TokenGroup) Wait() {
	for _, t := range g.tokens {
		t.Wait()
	}
}
