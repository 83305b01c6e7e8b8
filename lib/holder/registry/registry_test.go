package registry

import (
	"os"
	"sort"
	"testing"
	"time"

	"github.com/tickerhub/pricehold/lib/holder/common"
)

func TestMain(m *testing.M) {
	// keep holder creation logs out of the test output
	common.InitLoggers("error")
	os.Exit(m.Run())
}

func TestGetCreatesOnce(t *testing.T) {
	r := New[uint64]()

	first := r.Get("nasdaq")
	second := r.Get("nasdaq")
	if first != second {
		t.Errorf("expected repeated Get to return handles to the same holder")
	}
	if r.Size() != 1 {
		t.Errorf("expected 1 registered holder, got %d", r.Size())
	}
}

func TestHoldersAreIndependent(t *testing.T) {
	r := New[uint64]()

	if err := r.Get("nasdaq").PutPrice("symbol", 1); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if err := r.Get("xetra").PutPrice("symbol", 2); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}

	if value, _, _ := r.Get("nasdaq").GetPrice("symbol"); value != 1 {
		t.Errorf("expected 1 on nasdaq, got %d", value)
	}
	if value, _, _ := r.Get("xetra").GetPrice("symbol"); value != 2 {
		t.Errorf("expected 2 on xetra, got %d", value)
	}
}

func TestLookupAndRemove(t *testing.T) {
	r := New[uint64]()

	if _, ok := r.Lookup("nasdaq"); ok {
		t.Errorf("expected Lookup to miss before creation")
	}

	h := r.Get("nasdaq")
	if got, ok := r.Lookup("nasdaq"); !ok || got != h {
		t.Errorf("expected Lookup to return the registered holder")
	}

	if !r.Remove("nasdaq") {
		t.Errorf("expected Remove to report a removed holder")
	}
	if r.Remove("nasdaq") {
		t.Errorf("expected second Remove to report a miss")
	}

	// existing handles keep working after removal
	if err := h.PutPrice("symbol", 3); err != nil {
		t.Errorf("PutPrice on a removed holder's handle failed: %v", err)
	}
}

func TestNames(t *testing.T) {
	r := New[uint64]()
	r.Get("a")
	r.Get("b")
	r.Get("c")

	names := r.Names()
	sort.Strings(names)
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("expected [a b c], got %v", names)
	}
}

// Handles obtained through the registry behave like any other clone of the
// same logical holder.
func TestHandlesShareWaiters(t *testing.T) {
	r := New[uint64]()

	done := make(chan uint64, 1)
	go func() {
		value, err := r.Get("nasdaq").NextPrice("symbol")
		if err != nil {
			t.Errorf("NextPrice failed: %v", err)
		}
		done <- value
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		info, _ := r.Get("nasdaq").GetHolderInfo()
		if info.PendingWaiters >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the waiter to register")
		}
		time.Sleep(time.Millisecond)
	}

	if err := r.Get("nasdaq").PutPrice("symbol", 9); err != nil {
		t.Fatalf("PutPrice failed: %v", err)
	}
	if value := <-done; value != 9 {
		t.Errorf("expected delivery of 9, got %d", value)
	}
}
