// Package sholder implements the shared, synchronized price holder based on
// the holder.IPriceHolder interface. It wraps an lholder.Holder behind a
// mutex and exposes it through a cheaply cloneable handle, so any number of
// goroutines can read, write and wait on one logical holder.
//
// Key Features:
//   - Handle semantics: Clone copies the handle, never the state
//   - Two-phase blocking wait (locked registration, unlocked receive)
//   - Context-cancellable wait variant (NextPriceCtx)
//   - Per-instance operation metrics in Prometheus exposition format
//
// Implementation Details:
//
//   - Locking Discipline: PutPrice, GetPrice, Delete and GetHolderInfo are
//     short critical sections around the wrapped holder. NextPrice acquires
//     the lock only for the registration half (create/find the slot, push a
//     fresh waiter) and releases it before blocking on the waiter. This
//     split is the essential correctness property of the package: a waiter
//     blocking under the lock would keep every other handle's PutPrice from
//     ever acquiring it, deadlocking writer and waiter alike.
//
//   - Cancellation: NextPriceCtx selects on the waiter and the context. On
//     cancellation the waiter is atomically marked abandoned; a later write
//     skips it and reports the delivery failure to the writer, so abandoned
//     waiters can neither block a writer nor leak. If the cancellation races
//     with a concurrent delivery, the already-decided outcome wins and the
//     value (or closed condition) is returned.
//
//   - Metrics: Each logical holder carries its own metrics set with counters
//     for puts, gets, waits and their failure modes plus a pending-waiter
//     gauge; WritePrometheus exposes it for scraping by the host
//     application.
//
// Usage Example:
//
//	ph := sholder.New[uint64]()
//
//	go func(ph *sholder.Holder[uint64]) {
//		_ = ph.PutPrice("NVDA", 875)
//	}(ph.Clone())
//
//	next, err := ph.NextPrice("NVDA") // returns 875 once the write lands
//
// The wrapper adds no error kinds of its own; the failure surface is exactly
// that of the holder contract.
package sholder
