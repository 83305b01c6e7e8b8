package internal

import (
	"sync"
	"testing"
)

func TestWaiterNotify(t *testing.T) {
	w := NewWaiter[uint64]()

	if !w.Notify(42) {
		t.Fatalf("expected first Notify to succeed")
	}
	if w.Notify(43) {
		t.Errorf("expected second Notify to fail on a fulfilled waiter")
	}

	value, ok := w.Recv()
	if !ok || value != 42 {
		t.Errorf("expected (42, true), got (%d, %t)", value, ok)
	}
}

func TestWaiterRelease(t *testing.T) {
	w := NewWaiter[uint64]()
	w.Release()
	w.Release() // releasing twice must be a no-op, not a double close

	if _, ok := w.Recv(); ok {
		t.Errorf("expected released waiter to receive no value")
	}
	if w.Notify(1) {
		t.Errorf("expected Notify to fail on a released waiter")
	}
}

func TestWaiterAbandon(t *testing.T) {
	w := NewWaiter[uint64]()

	if !w.Abandon() {
		t.Fatalf("expected Abandon of a registered waiter to succeed")
	}
	if w.Abandon() {
		t.Errorf("expected second Abandon to fail")
	}
	if w.Notify(1) {
		t.Errorf("expected Notify to fail on an abandoned waiter")
	}
}

// A racing writer and canceller must agree on exactly one outcome.
func TestWaiterNotifyAbandonRace(t *testing.T) {
	for i := 0; i < 1000; i++ {
		w := NewWaiter[uint64]()

		var wg sync.WaitGroup
		var notified, abandoned bool
		wg.Add(2)
		go func() {
			defer wg.Done()
			notified = w.Notify(1)
		}()
		go func() {
			defer wg.Done()
			abandoned = w.Abandon()
		}()
		wg.Wait()

		if notified == abandoned {
			t.Fatalf("expected exactly one winner, got notified=%t abandoned=%t", notified, abandoned)
		}
		if notified {
			if value, ok := w.Recv(); !ok || value != 1 {
				t.Fatalf("expected (1, true) after won notify, got (%d, %t)", value, ok)
			}
		}
	}
}

func TestSlotValue(t *testing.T) {
	s := NewSlot[uint64]()
	if _, loaded := s.Value(); loaded {
		t.Errorf("expected empty slot to report no value")
	}

	s.Update(7)
	if value, loaded := s.Value(); !loaded || value != 7 {
		t.Errorf("expected (7, true), got (%d, %t)", value, loaded)
	}

	s = NewSlotWithValue[uint64](3)
	if value, loaded := s.Value(); !loaded || value != 3 {
		t.Errorf("expected (3, true), got (%d, %t)", value, loaded)
	}
}

func TestSlotUpdateNotifiesAllWaiters(t *testing.T) {
	s := NewSlot[uint64]()

	waiters := make([]*Waiter[uint64], 4)
	for i := range waiters {
		waiters[i] = s.AddWaiter()
	}
	if s.WaiterCount() != 4 {
		t.Fatalf("expected 4 registered waiters, got %d", s.WaiterCount())
	}

	if failed := s.Update(9); failed != 0 {
		t.Fatalf("expected full delivery, got %d failures", failed)
	}
	if s.WaiterCount() != 0 {
		t.Errorf("expected waiters to be cleared after update, got %d", s.WaiterCount())
	}

	for _, w := range waiters {
		if value, ok := w.Recv(); !ok || value != 9 {
			t.Errorf("expected (9, true), got (%d, %t)", value, ok)
		}
	}
}

// An abandoned waiter must not starve its siblings of the value.
func TestSlotUpdateSkipsAbandonedWaiters(t *testing.T) {
	s := NewSlot[uint64]()

	first := s.AddWaiter()
	second := s.AddWaiter()
	third := s.AddWaiter()
	first.Abandon()

	if failed := s.Update(5); failed != 1 {
		t.Fatalf("expected 1 failed delivery, got %d", failed)
	}

	if value, ok := second.Recv(); !ok || value != 5 {
		t.Errorf("expected (5, true) for live waiter, got (%d, %t)", value, ok)
	}
	if value, ok := third.Recv(); !ok || value != 5 {
		t.Errorf("expected (5, true) for live waiter, got (%d, %t)", value, ok)
	}
}

func TestSlotReleaseWaiters(t *testing.T) {
	s := NewSlot[uint64]()
	first := s.AddWaiter()
	second := s.AddWaiter()

	s.ReleaseWaiters()
	if s.WaiterCount() != 0 {
		t.Errorf("expected waiters to be cleared, got %d", s.WaiterCount())
	}

	if _, ok := first.Recv(); ok {
		t.Errorf("expected released waiter to receive no value")
	}
	if _, ok := second.Recv(); ok {
		t.Errorf("expected released waiter to receive no value")
	}

	// a release must not affect waiters registered afterwards
	fresh := s.AddWaiter()
	s.Update(1)
	if value, ok := fresh.Recv(); !ok || value != 1 {
		t.Errorf("expected (1, true) for fresh waiter, got (%d, %t)", value, ok)
	}
}
