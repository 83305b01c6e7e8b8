package sholder

import (
	"context"
	"fmt"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/tickerhub/pricehold/lib/holder"
	"github.com/tickerhub/pricehold/lib/holder/lholder"
	"golang.org/x/exp/constraints"
)

var Logger = logger.GetLogger("holder")

// Holder is the shared price holder implementation: a cheaply copyable
// handle to one logical holder. All handles created by Clone refer to the
// same underlying state; the map of symbols is guarded by a single mutex
// shared between them.
//
// Thread-safety: All methods are safe to call concurrently from any number
// of goroutines holding any number of handles.
type Holder[T constraints.Unsigned] struct {
	mu      *sync.Mutex
	inner   *lholder.Holder[T]
	metrics *holderMetrics
}

// New creates a new empty shared holder and returns the first handle to it.
func New[T constraints.Unsigned]() *Holder[T] {
	h := &Holder[T]{
		mu:    &sync.Mutex{},
		inner: lholder.New[T](),
	}
	h.metrics = newHolderMetrics(func() float64 {
		h.mu.Lock()
		defer h.mu.Unlock()
		info, _ := h.inner.GetHolderInfo()
		return float64(info.PendingWaiters)
	})
	return h
}

var _ holder.IPriceHolder[uint64] = (*Holder[uint64])(nil)

// Clone returns a new handle to the same logical holder. Cloning never
// duplicates the symbol map or its slots; it only copies the handle.
func (h *Holder[T]) Clone() *Holder[T] {
	return &Holder[T]{
		mu:      h.mu,
		inner:   h.inner,
		metrics: h.metrics,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see holder/interface.go)
// --------------------------------------------------------------------------

func (h *Holder[T]) PutPrice(symbol string, value T) error {
	h.mu.Lock()
	err := h.inner.PutPrice(symbol, value)
	h.mu.Unlock()

	h.metrics.puts.Inc()
	if err != nil {
		h.metrics.notifyFailures.Inc()
		Logger.Warningf("put for symbol %q: %v", symbol, err)
	}
	return err
}

func (h *Holder[T]) GetPrice(symbol string) (T, bool, error) {
	h.mu.Lock()
	value, loaded, err := h.inner.GetPrice(symbol)
	h.mu.Unlock()

	h.metrics.gets.Inc()
	return value, loaded, err
}

// NextPrice blocks until the next PutPrice for the symbol. The registration
// happens under the lock, the blocking receive strictly outside of it:
// holding the lock across the receive would keep every other handle's
// PutPrice from ever delivering the awaited value.
func (h *Holder[T]) NextPrice(symbol string) (T, error) {
	h.mu.Lock()
	w := h.inner.NextReceiver(symbol)
	h.mu.Unlock()

	h.metrics.waits.Inc()

	value, ok := w.Recv()
	if !ok {
		h.metrics.closedWaits.Inc()
		return value, holder.NewError(holder.RetCChannelClosed,
			fmt.Sprintf("waiter for symbol %q was released without a value", symbol))
	}
	return value, nil
}

// NextPriceCtx behaves like NextPrice but gives up when the context is
// cancelled. An abandoned waiter is skipped by the next write; that write
// reports the delivery failure instead of blocking or leaking the waiter.
func (h *Holder[T]) NextPriceCtx(ctx context.Context, symbol string) (T, error) {
	h.mu.Lock()
	w := h.inner.NextReceiver(symbol)
	h.mu.Unlock()

	h.metrics.waits.Inc()

	select {
	case value, ok := <-w.C():
		if !ok {
			h.metrics.closedWaits.Inc()
			return value, holder.NewError(holder.RetCChannelClosed,
				fmt.Sprintf("waiter for symbol %q was released without a value", symbol))
		}
		return value, nil
	case <-ctx.Done():
		if w.Abandon() {
			h.metrics.abandonedWaits.Inc()
			var zero T
			return zero, ctx.Err()
		}
		// Lost the race against a writer or a delete: the terminal outcome
		// is already on the channel, take it.
		value, ok := <-w.C()
		if !ok {
			h.metrics.closedWaits.Inc()
			return value, holder.NewError(holder.RetCChannelClosed,
				fmt.Sprintf("waiter for symbol %q was released without a value", symbol))
		}
		return value, nil
	}
}

func (h *Holder[T]) Delete(symbol string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.Delete(symbol)
}

func (h *Holder[T]) GetHolderInfo() (holder.HolderInfo, error) {
	h.mu.Lock()
	info, err := h.inner.GetHolderInfo()
	h.mu.Unlock()
	if err != nil {
		return info, err
	}

	info.HolderType = holder.ImplShared
	info.SupportedFeatures = []holder.Feature{
		holder.FeaturePut, holder.FeatureGet,
		holder.FeatureNext, holder.FeatureDelete,
		holder.FeatureConcurrent, holder.FeatureContextNext,
	}
	return info, nil
}

// SupportsFeature checks if this implementation supports a specific feature.
func (h *Holder[T]) SupportsFeature(feature holder.Feature) bool {
	supported := holder.FeaturePut |
		holder.FeatureGet |
		holder.FeatureNext |
		holder.FeatureDelete |
		holder.FeatureConcurrent |
		holder.FeatureContextNext
	return supported&feature == feature
}
