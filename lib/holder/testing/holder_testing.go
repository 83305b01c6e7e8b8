package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/tickerhub/pricehold/lib/holder"
)

// HolderFactory is a function that creates a new instance of an IPriceHolder
// implementation under test.
type HolderFactory func() holder.IPriceHolder[uint64]

// RunPriceHolderTests runs a comprehensive test suite for an IPriceHolder
// implementation. Tests that require concurrent use are skipped for
// implementations that do not advertise holder.FeatureConcurrent.
func RunPriceHolderTests(t *testing.T, name string, factory HolderFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("NextDeliversFutureValue", func(t *testing.T) {
			testNextDeliversFutureValue(t, factory())
		})

		t.Run("NextOnUnknownSymbol", func(t *testing.T) {
			testNextOnUnknownSymbol(t, factory())
		})

		t.Run("Broadcast", func(t *testing.T) {
			testBroadcast(t, factory())
		})

		t.Run("SequentialRendezvous", func(t *testing.T) {
			testSequentialRendezvous(t, factory())
		})

		t.Run("GetDuringPendingWait", func(t *testing.T) {
			testGetDuringPendingWait(t, factory())
		})

		t.Run("DeleteReleasesWaiters", func(t *testing.T) {
			testDeleteReleasesWaiters(t, factory())
		})

		t.Run("HolderInfo", func(t *testing.T) {
			testHolderInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the holder supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, ph holder.IPriceHolder[uint64], feature holder.Feature) {
	if !ph.SupportsFeature(feature) {
		t.Skip()
	}
}

// pollWaiters blocks until the holder reports at least n pending waiters.
// Polling the waiter count makes the registration/write ordering in the
// concurrent tests deterministic instead of sleep-based.
func pollWaiters(ph holder.IPriceHolder[uint64], n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		info, err := ph.GetHolderInfo()
		if err == nil && info.PendingWaiters >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// waitForWaiters is the main-goroutine variant of pollWaiters.
func waitForWaiters(t *testing.T, ph holder.IPriceHolder[uint64], n int) {
	if !pollWaiters(ph, n, 5*time.Second) {
		t.Fatalf("timed out waiting for %d pending waiter(s)", n)
	}
}

// putWhenWaiting writes value once n waiters are pending on the symbol. It
// is meant to run in a helper goroutine; on a poll timeout it deletes the
// symbol so blocked waiters fail fast instead of hanging the test.
func putWhenWaiting(t *testing.T, ph holder.IPriceHolder[uint64], symbol string, n int, value uint64) {
	if !pollWaiters(ph, n, 5*time.Second) {
		t.Errorf("timed out waiting for %d pending waiter(s) on %q", n, symbol)
		_ = ph.Delete(symbol)
		return
	}
	if err := ph.PutPrice(symbol, value); err != nil {
		t.Errorf("PutPrice failed: %v", err)
	}
}

// nextResult carries the outcome of a NextPrice call made in a goroutine
// back to the main test goroutine.
type nextResult struct {
	value uint64
	err   error
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeaturePut)
	requireFeature(t, ph, holder.FeatureGet)

	// read-after-write
	if err := ph.PutPrice("symbol", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if value, loaded, _ := ph.GetPrice("symbol"); !loaded || value != 1 {
		t.Errorf("expected (1, true), got (%d, %t)", value, loaded)
	}

	// overwrite
	if err := ph.PutPrice("symbol", 2); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if value, loaded, _ := ph.GetPrice("symbol"); !loaded || value != 2 {
		t.Errorf("expected (2, true), got (%d, %t)", value, loaded)
	}

	// independent symbols
	if err := ph.PutPrice("another_symbol", 3); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if value, _, _ := ph.GetPrice("another_symbol"); value != 3 {
		t.Errorf("expected 3, got %d", value)
	}
	if value, _, _ := ph.GetPrice("symbol"); value != 2 {
		t.Errorf("expected symbol to be unaffected, got %d", value)
	}

	// unknown symbol
	if _, loaded, _ := ph.GetPrice("not_a_symbol"); loaded {
		t.Errorf("expected unknown symbol to return loaded=false")
	}
}

func testDelete(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeaturePut)
	requireFeature(t, ph, holder.FeatureDelete)

	if err := ph.PutPrice("symbol", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if err := ph.Delete("symbol"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, loaded, _ := ph.GetPrice("symbol"); loaded {
		t.Errorf("expected deleted symbol to return loaded=false")
	}

	// deleting an unknown symbol is not an error
	if err := ph.Delete("not_a_symbol"); err != nil {
		t.Errorf("expected Delete of unknown symbol to succeed, got %v", err)
	}
}

func testNextDeliversFutureValue(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeatureNext)
	requireFeature(t, ph, holder.FeatureConcurrent)

	// a stored value must never satisfy a wait
	if err := ph.PutPrice("symbol", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}

	go putWhenWaiting(t, ph, "symbol", 1, 2)

	value, err := ph.NextPrice("symbol")
	if err != nil {
		t.Fatalf("NextPrice failed: %v", err)
	}
	if value != 2 {
		t.Errorf("expected next value 2, got %d", value)
	}
}

func testNextOnUnknownSymbol(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeatureNext)
	requireFeature(t, ph, holder.FeatureConcurrent)

	go putWhenWaiting(t, ph, "symbol", 1, 2)

	// waiting on a never-written symbol creates its slot transiently
	value, err := ph.NextPrice("symbol")
	if err != nil {
		t.Fatalf("NextPrice failed: %v", err)
	}
	if value != 2 {
		t.Errorf("expected next value 2, got %d", value)
	}
}

func testBroadcast(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeatureNext)
	requireFeature(t, ph, holder.FeatureConcurrent)

	const numWaiters = 4

	results := make(chan nextResult, numWaiters)
	var wg sync.WaitGroup
	wg.Add(numWaiters)
	for i := 0; i < numWaiters; i++ {
		go func() {
			defer wg.Done()
			value, err := ph.NextPrice("symbol")
			results <- nextResult{value, err}
		}()
	}

	waitForWaiters(t, ph, numWaiters)
	if err := ph.PutPrice("symbol", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}

	wg.Wait()
	close(results)
	for res := range results {
		if res.err != nil {
			t.Errorf("NextPrice failed: %v", res.err)
		} else if res.value != 1 {
			t.Errorf("expected broadcast value 1, got %d", res.value)
		}
	}
}

func testSequentialRendezvous(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeatureNext)
	requireFeature(t, ph, holder.FeatureConcurrent)

	// repeated wait/write cycles must neither miss nor duplicate deliveries
	for p := uint64(1); p <= 4; p++ {
		go putWhenWaiting(t, ph, "symbol", 1, p)

		value, err := ph.NextPrice("symbol")
		if err != nil {
			t.Fatalf("NextPrice failed: %v", err)
		}
		if value != p {
			t.Errorf("expected next value %d, got %d", p, value)
		}
	}
}

func testGetDuringPendingWait(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeatureNext)
	requireFeature(t, ph, holder.FeatureConcurrent)

	if err := ph.PutPrice("symbol", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}

	results := make(chan nextResult, 1)
	go func() {
		value, err := ph.NextPrice("symbol")
		results <- nextResult{value, err}
	}()

	// while the wait is pending, reads keep returning the prior value
	waitForWaiters(t, ph, 1)
	for i := 0; i < 10; i++ {
		if value, loaded, _ := ph.GetPrice("symbol"); !loaded || value != 1 {
			t.Errorf("expected (1, true) during pending wait, got (%d, %t)", value, loaded)
		}
	}

	if err := ph.PutPrice("symbol", 2); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}

	res := <-results
	if res.err != nil {
		t.Fatalf("NextPrice failed: %v", res.err)
	}
	if res.value != 2 {
		t.Errorf("expected next value 2, got %d", res.value)
	}
	if value, _, _ := ph.GetPrice("symbol"); value != 2 {
		t.Errorf("expected read to reflect new value 2, got %d", value)
	}
}

func testDeleteReleasesWaiters(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeatureNext)
	requireFeature(t, ph, holder.FeatureDelete)
	requireFeature(t, ph, holder.FeatureConcurrent)

	results := make(chan nextResult, 1)
	go func() {
		value, err := ph.NextPrice("symbol")
		results <- nextResult{value, err}
	}()

	waitForWaiters(t, ph, 1)
	if err := ph.Delete("symbol"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	res := <-results
	if res.err == nil {
		t.Fatalf("expected channel-closed error, got value %d", res.value)
	}
	if code := holder.ErrCode(res.err); code != holder.RetCChannelClosed {
		t.Errorf("expected RetCChannelClosed, got code %d (%v)", code, res.err)
	}
}

func testHolderInfo(t *testing.T, ph holder.IPriceHolder[uint64]) {
	requireFeature(t, ph, holder.FeaturePut)

	info, err := ph.GetHolderInfo()
	if err != nil {
		t.Fatalf("GetHolderInfo failed: %v", err)
	}
	if info.Symbols != 0 || info.PendingWaiters != 0 {
		t.Errorf("expected empty holder, got %d symbols and %d waiters", info.Symbols, info.PendingWaiters)
	}

	if err := ph.PutPrice("a", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if err := ph.PutPrice("b", 2); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}

	info, err = ph.GetHolderInfo()
	if err != nil {
		t.Fatalf("GetHolderInfo failed: %v", err)
	}
	if info.Symbols != 2 {
		t.Errorf("expected 2 symbols, got %d", info.Symbols)
	}
	if info.HolderType == "" {
		t.Errorf("expected a holder type to be reported")
	}
	if len(info.SupportedFeatures) == 0 {
		t.Errorf("expected supported features to be reported")
	}
}
