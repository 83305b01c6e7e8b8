// Package lholder implements the local, unsynchronized price holder based on
// the holder.IPriceHolder interface. It owns a plain map from symbol to slot
// and performs no locking of its own; correctness under concurrency is the
// responsibility of the owner.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Lazy slot creation on first write or first wait per symbol
//   - One-shot, per-call waiter channels with broadcast delivery on write
//   - Atomic put counter surfaced through HolderInfo
//
// Implementation Details:
//
//   - Single-Owner Discipline: Every method except the atomic put counter
//     touches the symbol map without synchronization. The holder is intended
//     either for truly single-goroutine use or as the core of a wrapper that
//     provides the locking (see the sholder package). Because of this the
//     feature flags deliberately omit holder.FeatureConcurrent.
//
//   - Registration Seam: NextPrice is split internally into registration
//     (NextReceiver) and the blocking receive. NextReceiver is exported so a
//     synchronized wrapper can perform the registration under its lock and
//     the receive outside of it - registering and then blocking while still
//     holding a lock would deadlock every writer.
//
//   - Notification Policy: On a write, every registered waiter is notified
//     with the new value in registration order and is considered removed the
//     moment its notification succeeds. A waiter that was abandoned by its
//     receiver is skipped and counted; the write still reaches all live
//     waiters and then clears the registration sequence as a unit. The
//     writer sees a single RetCWaiterAbandoned error summarizing the failed
//     deliveries.
//
// Usage Example:
//
//	ph := lholder.New[uint64]()
//
//	_ = ph.PutPrice("NVDA", 875)
//	price, loaded, _ := ph.GetPrice("NVDA")
//
//	// Blocks until a future PutPrice("NVDA", ...) from the owner of this
//	// holder's external synchronization.
//	next, err := ph.NextPrice("NVDA")
//
// For concurrent use by multiple goroutines, wrap the holder via the sholder
// package instead of adding ad-hoc locking around it.
package lholder
