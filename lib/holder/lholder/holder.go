package lholder

import (
	"fmt"
	"sync/atomic"

	"github.com/tickerhub/pricehold/lib/holder"
	"github.com/tickerhub/pricehold/lib/holder/internal"
	"github.com/tickerhub/pricehold/lib/holder/util"
	"golang.org/x/exp/constraints"
)

// Holder is the single-owner price holder implementation. It keeps a plain
// map from symbol to slot and performs no locking of its own.
//
// Thread-safety: The methods of Holder are NOT safe to call concurrently
// from multiple goroutines. Use it from one goroutine at a time, or behind
// an external lock - the sholder package provides exactly that wrapper.
// The only exception is the put counter, which is atomic so that a wrapping
// holder can expose it without extra coordination.
type Holder[T constraints.Unsigned] struct {
	slots map[string]*internal.Slot[T]
	puts  atomic.Uint64
}

// New creates a new empty local holder instance.
func New[T constraints.Unsigned]() *Holder[T] {
	return &Holder[T]{
		slots: make(map[string]*internal.Slot[T]),
	}
}

var _ holder.IPriceHolder[uint64] = (*Holder[uint64])(nil)

// --------------------------------------------------------------------------
// Interface Methods (docu see holder/interface.go)
// --------------------------------------------------------------------------

func (h *Holder[T]) PutPrice(symbol string, value T) error {
	h.puts.Add(1)

	slot, ok := h.slots[symbol]
	if !ok {
		h.slots[symbol] = internal.NewSlotWithValue(value)
		return nil
	}

	if failed := slot.Update(value); failed > 0 {
		return holder.NewError(holder.RetCWaiterAbandoned,
			fmt.Sprintf("value for symbol %q not delivered to %d abandoned waiter(s)", symbol, failed))
	}
	return nil
}

func (h *Holder[T]) GetPrice(symbol string) (T, bool, error) {
	slot, ok := h.slots[symbol]
	if !ok {
		var zero T
		return zero, false, nil
	}
	value, loaded := slot.Value()
	return value, loaded, nil
}

func (h *Holder[T]) NextPrice(symbol string) (T, error) {
	value, ok := h.NextReceiver(symbol).Recv()
	if !ok {
		return value, holder.NewError(holder.RetCChannelClosed,
			fmt.Sprintf("waiter for symbol %q was released without a value", symbol))
	}
	return value, nil
}

func (h *Holder[T]) Delete(symbol string) error {
	if slot, ok := h.slots[symbol]; ok {
		slot.ReleaseWaiters()
		delete(h.slots, symbol)
	}
	return nil
}

func (h *Holder[T]) GetHolderInfo() (holder.HolderInfo, error) {
	waiters := 0
	counts := make([]float64, 0, len(h.slots))
	for _, slot := range h.slots {
		waiters += slot.WaiterCount()
		counts = append(counts, float64(slot.WaiterCount()))
	}

	return holder.HolderInfo{
		Symbols:            len(h.slots),
		PendingWaiters:     waiters,
		WaiterDistribution: util.NewDistribution(counts),
		HolderType:         holder.ImplLocal,
		SupportedFeatures: []holder.Feature{
			holder.FeaturePut, holder.FeatureGet,
			holder.FeatureNext, holder.FeatureDelete,
		},
		Metadata: &struct {
			PutCount uint64 `json:"put_count"`
		}{
			PutCount: h.puts.Load(),
		},
	}, nil
}

// SupportsFeature checks if this implementation supports a specific feature.
// Note that FeatureConcurrent is not advertised: this holder relies on
// external synchronization.
func (h *Holder[T]) SupportsFeature(feature holder.Feature) bool {
	supported := holder.FeaturePut |
		holder.FeatureGet |
		holder.FeatureNext |
		holder.FeatureDelete
	return supported&feature == feature
}

// --------------------------------------------------------------------------
// Registration Half
// --------------------------------------------------------------------------

// NextReceiver performs only the registration half of NextPrice: it finds or
// creates the slot for the symbol, registers a fresh waiter on it and
// returns the waiter without blocking. Receiving on the waiter outside any
// lock is what makes the two-phase wait of a wrapping holder deadlock-free.
func (h *Holder[T]) NextReceiver(symbol string) *internal.Waiter[T] {
	slot, ok := h.slots[symbol]
	if !ok {
		slot = internal.NewSlot[T]()
		h.slots[symbol] = slot
	}
	return slot.AddWaiter()
}
