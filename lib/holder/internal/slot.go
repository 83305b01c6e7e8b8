package internal

import "sync/atomic"

// --------------------------------------------------------------------------
// Waiter (one-shot notification channel)
// --------------------------------------------------------------------------

// Waiter states. Every waiter makes exactly one transition away from
// stateRegistered; the CAS on the state word decides races between a
// notifying writer, a cancelling receiver and a slot teardown.
const (
	stateRegistered uint32 = iota // waiting for a value
	stateFulfilled                // a value was delivered (terminal)
	stateAbandoned                // the receiver gave up, no value will be taken (terminal)
	stateClosed                   // the slot released the waiter without a value (terminal)
)

// Waiter is a one-shot, single-value notification channel between a writer
// and one blocked caller. The send half is held by the Slot until the waiter
// is notified or released; the receive half is owned exclusively by the
// caller blocked in a wait operation.
//
// The channel is buffered with capacity one and receives at most one send
// ever, so Notify can never block the writer, not even on a waiter whose
// receiver has stopped listening.
type Waiter[T any] struct {
	ch    chan T
	state atomic.Uint32
}

// NewWaiter creates a fresh waiter in the registered state.
func NewWaiter[T any]() *Waiter[T] {
	return &Waiter[T]{ch: make(chan T, 1)}
}

// Notify delivers a value and moves the waiter to the fulfilled state.
// It returns false if the waiter already left the registered state (it was
// abandoned or closed); in that case nothing is sent.
//
// Thread-safety: This method is thread-safe and never blocks.
func (w *Waiter[T]) Notify(value T) bool {
	if !w.state.CompareAndSwap(stateRegistered, stateFulfilled) {
		return false
	}
	w.ch <- value
	close(w.ch)
	return true
}

// Release closes the waiter without delivering a value. The blocked receiver
// observes a closed channel. Releasing an already terminal waiter is a no-op.
//
// Thread-safety: This method is thread-safe.
func (w *Waiter[T]) Release() {
	if w.state.CompareAndSwap(stateRegistered, stateClosed) {
		close(w.ch)
	}
}

// Abandon marks the waiter as given up from the receiver side. A writer that
// loses the registered-state CAS to an abandoned waiter skips it and reports
// the delivery failure. Returns false if the waiter already left the
// registered state (e.g. a value arrived concurrently).
//
// Thread-safety: This method is thread-safe.
func (w *Waiter[T]) Abandon() bool {
	return w.state.CompareAndSwap(stateRegistered, stateAbandoned)
}

// Recv blocks until a value is delivered or the waiter is released.
// The boolean return value indicates whether a value arrived.
func (w *Waiter[T]) Recv() (T, bool) {
	value, ok := <-w.ch
	return value, ok
}

// C exposes the receive half for select based waits. A value sent before the
// channel was closed is still received after the close, so the one-shot
// semantics hold for select users as well.
func (w *Waiter[T]) C() <-chan T {
	return w.ch
}

// --------------------------------------------------------------------------
// Slot (per-symbol state)
// --------------------------------------------------------------------------

// Slot is the per-symbol state of a holder: the latest value (if any was
// ever written) and the ordered sequence of waiters registered for the next
// write.
//
// Thread-safety: Slot itself is not synchronized; it is owned by a single
// goroutine or guarded by the lock of a wrapping holder. Only the waiters it
// hands out are internally safe for cross-goroutine handoff.
type Slot[T any] struct {
	value   T
	loaded  bool
	waiters []*Waiter[T]
}

// NewSlot creates an empty slot with no value and no waiters.
// This state occurs when a wait is registered before any write.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{}
}

// NewSlotWithValue creates a slot holding only the given value.
func NewSlotWithValue[T any](value T) *Slot[T] {
	return &Slot[T]{value: value, loaded: true}
}

// Value returns the latest value and whether one was ever written.
func (s *Slot[T]) Value() (T, bool) {
	return s.value, s.loaded
}

// AddWaiter registers a fresh waiter for the next write and returns it.
func (s *Slot[T]) AddWaiter() *Waiter[T] {
	w := NewWaiter[T]()
	s.waiters = append(s.waiters, w)
	return w
}

// WaiterCount returns the number of currently registered waiters.
func (s *Slot[T]) WaiterCount() int {
	return len(s.waiters)
}

// Update overwrites the slot value and notifies every registered waiter with
// it, in registration order. Each waiter is terminally fulfilled the moment
// its notification succeeds; a waiter that already left the registered state
// is counted as failed and skipped, never aborting delivery to the rest.
// Afterwards the waiter sequence is cleared as a unit.
//
// The returned count is the number of waiters the value could not be
// delivered to (zero on full delivery).
func (s *Slot[T]) Update(value T) (failed int) {
	s.value = value
	s.loaded = true

	for _, w := range s.waiters {
		if !w.Notify(value) {
			failed++
		}
	}
	s.waiters = nil
	return failed
}

// ReleaseWaiters releases every registered waiter without a value and clears
// the sequence. Blocked receivers observe the closed condition.
func (s *Slot[T]) ReleaseWaiters() {
	for _, w := range s.waiters {
		w.Release()
	}
	s.waiters = nil
}
