package testing

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/tickerhub/pricehold/lib/holder"
)

// RunPriceHolderBenchmarks runs all benchmarks for an IPriceHolder
// implementation. Benchmarks that require concurrent use are skipped for
// implementations that do not advertise holder.FeatureConcurrent.
func RunPriceHolderBenchmarks(b *testing.B, name string, factory HolderFactory) {

	b.Run("Put", func(b *testing.B) {
		benchmarkPut(b, factory())
	})

	b.Run("PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("Get(miss)", func(b *testing.B) {
		benchmarkGetMiss(b, factory())
	})

	b.Run("Rendezvous", func(b *testing.B) {
		benchmarkRendezvous(b, factory())
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory())
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for PutPrice with fresh symbols
func benchmarkPut(b *testing.B, ph holder.IPriceHolder[uint64]) {
	requireFeature(b, ph, holder.FeaturePut)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ph.PutPrice(fmt.Sprintf("symbol-%d", i), uint64(i))
	}
}

// Benchmark for PutPrice overwriting one symbol
func benchmarkPutExisting(b *testing.B, ph holder.IPriceHolder[uint64]) {
	requireFeature(b, ph, holder.FeaturePut)

	_ = ph.PutPrice("symbol", 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ph.PutPrice("symbol", uint64(i))
	}
}

// Benchmark for GetPrice on an existing symbol
func benchmarkGet(b *testing.B, ph holder.IPriceHolder[uint64]) {
	requireFeature(b, ph, holder.FeaturePut)
	requireFeature(b, ph, holder.FeatureGet)

	_ = ph.PutPrice("symbol", 42)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = ph.GetPrice("symbol")
	}
}

// Benchmark for GetPrice on an unknown symbol
func benchmarkGetMiss(b *testing.B, ph holder.IPriceHolder[uint64]) {
	requireFeature(b, ph, holder.FeatureGet)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = ph.GetPrice("not-a-symbol")
	}
}

// Benchmark for one full wait/notify cycle
func benchmarkRendezvous(b *testing.B, ph holder.IPriceHolder[uint64]) {
	requireFeature(b, ph, holder.FeatureNext)
	requireFeature(b, ph, holder.FeatureConcurrent)

	results := make(chan uint64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		go func() {
			value, _ := ph.NextPrice("symbol")
			results <- value
		}()

		// spin until the waiter is registered, then deliver
		for {
			info, _ := ph.GetHolderInfo()
			if info.PendingWaiters > 0 {
				break
			}
			runtime.Gosched()
		}
		_ = ph.PutPrice("symbol", uint64(i))
		<-results
	}
}

// Benchmark for a parallel put/get mix on a small symbol set
func benchmarkMixedUsage(b *testing.B, ph holder.IPriceHolder[uint64]) {
	requireFeature(b, ph, holder.FeaturePut)
	requireFeature(b, ph, holder.FeatureGet)
	requireFeature(b, ph, holder.FeatureConcurrent)

	symbols := make([]string, 16)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("symbol-%d", i)
		_ = ph.PutPrice(symbols[i], uint64(i))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			symbol := symbols[counter%len(symbols)]
			if counter%4 == 0 {
				_ = ph.PutPrice(symbol, uint64(counter))
			} else {
				_, _, _ = ph.GetPrice(symbol)
			}
			counter++
		}
	})
}

// --------------------------------------------------------------------------
// Soak helper
// --------------------------------------------------------------------------

// MeasureRendezvousLatency drives the given holder through rounds of
// register-wait-put cycles and logs the observed wait-to-delivery latency
// distribution. It is a diagnostic helper, not an assertion: it fails only
// if a cycle misbehaves, the latencies are just reported.
func MeasureRendezvousLatency(t *testing.T, ph holder.IPriceHolder[uint64], rounds int) {
	requireFeature(t, ph, holder.FeatureNext)
	requireFeature(t, ph, holder.FeatureConcurrent)

	timer := gometrics.NewTimer()
	results := make(chan nextResult)

	for i := 0; i < rounds; i++ {
		go func() {
			value, err := ph.NextPrice("latency-probe")
			results <- nextResult{value, err}
		}()

		waitForWaiters(t, ph, 1)

		start := time.Now()
		if err := ph.PutPrice("latency-probe", uint64(i)); err != nil {
			t.Fatalf("PutPrice failed: %v", err)
		}
		res := <-results
		timer.UpdateSince(start)

		if res.err != nil {
			t.Fatalf("NextPrice failed: %v", res.err)
		}
		if res.value != uint64(i) {
			t.Fatalf("expected delivery of %d, got %d", i, res.value)
		}
	}

	t.Logf("rendezvous latency over %d rounds: mean=%v p95=%v p99=%v max=%v",
		rounds,
		time.Duration(timer.Mean()),
		time.Duration(timer.Percentile(0.95)),
		time.Duration(timer.Percentile(0.99)),
		time.Duration(timer.Max()))
}
