package sholder

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// holderMetrics carries the per-instance instrumentation of a shared holder.
// A dedicated metrics.Set per logical holder keeps independent holders from
// clashing in the default global set; all handles of one holder share it.
type holderMetrics struct {
	set *metrics.Set

	puts           *metrics.Counter // completed PutPrice calls
	gets           *metrics.Counter // completed GetPrice calls
	waits          *metrics.Counter // registered waiters (NextPrice/NextPriceCtx calls)
	closedWaits    *metrics.Counter // waits that ended with the channel-closed error
	abandonedWaits *metrics.Counter // waits given up via context cancellation
	notifyFailures *metrics.Counter // puts that could not reach every waiter
}

func newHolderMetrics(pendingWaiters func() float64) *holderMetrics {
	set := metrics.NewSet()
	set.NewGauge("pricehold_pending_waiters", pendingWaiters)

	return &holderMetrics{
		set:            set,
		puts:           set.NewCounter("pricehold_puts_total"),
		gets:           set.NewCounter("pricehold_gets_total"),
		waits:          set.NewCounter("pricehold_waits_total"),
		closedWaits:    set.NewCounter("pricehold_waits_closed_total"),
		abandonedWaits: set.NewCounter("pricehold_waits_abandoned_total"),
		notifyFailures: set.NewCounter("pricehold_notify_failures_total"),
	}
}

// WritePrometheus writes the holder's metrics to w in Prometheus text
// exposition format. All handles of one logical holder report the same set.
func (h *Holder[T]) WritePrometheus(w io.Writer) {
	h.metrics.set.WritePrometheus(w)
}
