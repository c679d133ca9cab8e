// Package task provides the type-erased, zero-argument callable stored in
// each ring slot. It mirrors the contract of spec.md §4.1 (Callable
// buffer, C1) but is deliberately thin: a Go closure is already the
// language's native type-erased, heap-managed callable representation
// (non-escaping closures are stack-allocated by the compiler, escaping
// ones spill to the heap automatically), so there is no third-party
// example in the retrieval pack that hand-rolls a small-buffer-optimized
// callable the way the original C++ does with a byte array and a
// dispatcher function pointer. Buffer keeps the emplace/reset/invoke
// vocabulary the spec calls for, as a thin holder of a Func (`func()`), the
// same representation the teacher already uses for TaskFunc
// (core/concurrency/executor.go).
package task

// Func is a zero-argument, type-erased invocable. Bound arguments are
// captured by the closure the caller supplies when building a Func.
type Func func()

// Buffer is a value-typed slot for a single Func, matching the
// one-byte-header-plus-dispatcher shape of spec.md's callable buffer:
// size acts as the header (0 == empty), fn is the payload.
type Buffer struct {
	fn   Func
	size int32
}

// Emplace stores fn, destroying any previous contents first.
func (b *Buffer) Emplace(fn Func) {
	b.Reset()
	b.fn = fn
	b.size = 1
}

// Reset destroys the stored callable and marks the buffer empty.
func (b *Buffer) Reset() {
	b.fn = nil
	b.size = 0
}

// Empty reports whether the buffer currently holds no callable.
func (b *Buffer) Empty() bool {
	return b.size == 0
}

// Invoke runs the stored invocable. Undefined (panics) if empty, per
// spec.md §4.1.
func (b *Buffer) Invoke() {
	if b.size == 0 {
		panic("task: invoke on empty buffer")
	}
	b.fn()
}
