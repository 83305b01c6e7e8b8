// Package holder provides a high-level interface for an in-memory "latest
// value with blocking wait" store keyed by a ticker symbol. For every symbol
// it tracks the most recently written value and lets any number of callers
// either read the current value instantly or block until the next write for
// that symbol occurs.
//
// The package focuses on:
//   - A unified interface (IPriceHolder) shared by all implementations
//   - A typed error system with stable return codes
//   - Feature discovery through capability flags
//   - Standardized metadata reporting via HolderInfo
//
// Key Components:
//
//   - IPriceHolder Interface: The core abstraction defining the write
//     (PutPrice), read (GetPrice) and blocking wait (NextPrice) operations,
//     plus symbol removal and introspection. The interface is generic over
//     any unsigned value type; the holder treats values as opaque copyable
//     scalars.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages. The two caller-visible failure kinds
//     are delivery failure (RetCWaiterAbandoned, reported to a writer whose
//     value could not reach every registered waiter) and the channel-closed
//     condition (RetCChannelClosed, returned to a waiter whose registration
//     was invalidated without a value). Both are recoverable and neither
//     corrupts holder state for other symbols or waiters.
//
//   - Feature Flags: Implementations advertise their capabilities through
//     SupportsFeature, allowing shared tooling (such as the conformance test
//     suite) to adapt to what an implementation can do - most importantly
//     whether it may be used concurrently without external locking.
//
// Implementations:
//
//	The package includes two implementations of the IPriceHolder interface:
//
//	- Local Holder (lholder): The unsynchronized core. It owns a plain map
//	  from symbol to slot and is designed for exclusive ownership by one
//	  goroutine at a time, or for use behind an external lock. Available in
//	  the "github.com/tickerhub/pricehold/lib/holder/lholder" package.
//
//	- Shared Holder (sholder): A synchronized wrapper around the local
//	  holder, exposed through a cheaply cloneable handle so many goroutines
//	  can hold independent handles to one logical holder. Its blocking wait
//	  is split into a locked registration phase and an unlocked receive
//	  phase. Available in the
//	  "github.com/tickerhub/pricehold/lib/holder/sholder" package.
//
// Both implementations honor the same delivery contract: a write delivers
// its value to every waiter whose registration completed before the write,
// all such waiters receive that same value (broadcast, not a queue), and a
// waiter never receives a value written before its registration completed.
package holder
