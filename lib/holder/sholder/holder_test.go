package sholder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tickerhub/pricehold/lib/holder"
	holdertesting "github.com/tickerhub/pricehold/lib/holder/testing"
)

func Test(t *testing.T) {
	holdertesting.RunPriceHolderTests(t, "SharedHolder", func() holder.IPriceHolder[uint64] {
		return New[uint64]()
	})
}

func Benchmark(b *testing.B) {
	holdertesting.RunPriceHolderBenchmarks(b, "SharedHolder", func() holder.IPriceHolder[uint64] {
		return New[uint64]()
	})
}

func TestRendezvousLatency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping soak in short mode")
	}
	holdertesting.MeasureRendezvousLatency(t, New[uint64](), 200)
}

// All clones must observe one logical holder.
func TestCloneSharesState(t *testing.T) {
	ph := New[uint64]()
	clone := ph.Clone()

	if err := ph.PutPrice("symbol", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if value, loaded, _ := clone.GetPrice("symbol"); !loaded || value != 1 {
		t.Errorf("expected clone to observe (1, true), got (%d, %t)", value, loaded)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		value, err := clone.NextPrice("symbol")
		if err != nil {
			t.Errorf("NextPrice failed: %v", err)
		} else if value != 2 {
			t.Errorf("expected next value 2, got %d", value)
		}
	}()

	waitForPendingWaiters(t, ph, 1)
	if err := ph.PutPrice("symbol", 2); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	<-done
}

func TestNextPriceCtxDelivers(t *testing.T) {
	ph := New[uint64]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		value, err := ph.Clone().NextPriceCtx(context.Background(), "symbol")
		if err != nil {
			t.Errorf("NextPriceCtx failed: %v", err)
		} else if value != 3 {
			t.Errorf("expected next value 3, got %d", value)
		}
	}()

	waitForPendingWaiters(t, ph, 1)
	if err := ph.PutPrice("symbol", 3); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	<-done
}

// A cancelled wait returns the context error, and the write that later
// skips the abandoned waiter reports the delivery failure without harming
// other callers.
func TestNextPriceCtxCancel(t *testing.T) {
	ph := New[uint64]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ph.NextPriceCtx(ctx, "symbol"); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	err := ph.PutPrice("symbol", 1)
	if code := holder.ErrCode(err); code != holder.RetCWaiterAbandoned {
		t.Fatalf("expected RetCWaiterAbandoned, got code %d (%v)", code, err)
	}

	// the value landed despite the reported delivery failure
	if value, loaded, _ := ph.GetPrice("symbol"); !loaded || value != 1 {
		t.Errorf("expected (1, true), got (%d, %t)", value, loaded)
	}
	// and the holder is clean for the next write
	if err := ph.PutPrice("symbol", 2); err != nil {
		t.Errorf("expected clean PutPrice after abandoned waiter, got %v", err)
	}
}

func TestNextPriceCtxTimeout(t *testing.T) {
	ph := New[uint64]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := ph.NextPriceCtx(ctx, "symbol")
	if err != context.DeadlineExceeded {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancelled wait took too long: %v", elapsed)
	}
}

func TestWritePrometheus(t *testing.T) {
	ph := New[uint64]()

	_ = ph.PutPrice("symbol", 1)
	_, _, _ = ph.GetPrice("symbol")

	var sb strings.Builder
	ph.WritePrometheus(&sb)
	out := sb.String()

	for _, metric := range []string{
		"pricehold_puts_total 1",
		"pricehold_gets_total 1",
		"pricehold_pending_waiters 0",
	} {
		if !strings.Contains(out, metric) {
			t.Errorf("expected metrics output to contain %q, got:\n%s", metric, out)
		}
	}
}

func TestFeatures(t *testing.T) {
	ph := New[uint64]()

	all := holder.FeaturePut | holder.FeatureGet | holder.FeatureNext |
		holder.FeatureDelete | holder.FeatureConcurrent | holder.FeatureContextNext
	if !ph.SupportsFeature(all) {
		t.Errorf("expected all features to be supported")
	}

	info, err := ph.GetHolderInfo()
	if err != nil {
		t.Fatalf("GetHolderInfo failed: %v", err)
	}
	if info.HolderType != holder.ImplShared {
		t.Errorf("expected holder type %q, got %q", holder.ImplShared, info.HolderType)
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func waitForPendingWaiters(t *testing.T, ph *Holder[uint64], n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		info, err := ph.GetHolderInfo()
		if err != nil {
			t.Fatalf("GetHolderInfo failed: %v", err)
		}
		if info.PendingWaiters >= n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d pending waiter(s)", n)
		}
		time.Sleep(time.Millisecond)
	}
}
