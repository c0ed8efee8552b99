package voice

import "testing"

func TestTakeAvailableAssignsLowestFreeSlot(t *testing.T) {
	l := New(4)
	idx, ok := l.TakeAvailable(60)
	if !ok || idx != 0 {
		t.Fatalf("first TakeAvailable = (%d,%v), want (0,true)", idx, ok)
	}
	idx, ok = l.TakeAvailable(64)
	if !ok || idx != 1 {
		t.Fatalf("second TakeAvailable = (%d,%v), want (1,true)", idx, ok)
	}
	l.ReleaseComplete(0)
	idx, ok = l.TakeAvailable(67)
	if !ok || idx != 0 {
		t.Fatalf("TakeAvailable after freeing slot 0 = (%d,%v), want (0,true)", idx, ok)
	}
}

func TestTakeAvailableDropsOnExhaustion(t *testing.T) {
	l := New(2)
	l.TakeAvailable(1)
	l.TakeAvailable(2)
	_, ok := l.TakeAvailable(3)
	if ok {
		t.Fatalf("TakeAvailable should drop the note when the pool is exhausted")
	}
	if l.ActiveCount() != 2 {
		t.Fatalf("ActiveCount = %d, want 2 (drop must not steal a slot)", l.ActiveCount())
	}
}

func TestRetriggerReclaimsOwnSlot(t *testing.T) {
	l := New(2)
	idx0, _ := l.TakeAvailable(60)
	l.BeginRelease(60)
	idx1, ok := l.TakeAvailable(60)
	if !ok || idx1 != idx0 {
		t.Fatalf("retriggering note 60 mid-release should reclaim slot %d, got %d", idx0, idx1)
	}
	if l.State(idx0) != SlotActive {
		t.Fatalf("retriggered slot state = %v, want SlotActive", l.State(idx0))
	}
}

func TestBeginReleaseThenReleaseComplete(t *testing.T) {
	l := New(1)
	l.TakeAvailable(5)
	l.BeginRelease(5)
	if l.State(0) != SlotReleasing {
		t.Fatalf("state after BeginRelease = %v, want SlotReleasing", l.State(0))
	}
	l.ReleaseComplete(0)
	if l.State(0) != SlotFree {
		t.Fatalf("state after ReleaseComplete = %v, want SlotFree", l.State(0))
	}
	if l.ActiveCount() != 0 {
		t.Fatalf("ActiveCount after release = %d, want 0", l.ActiveCount())
	}
}
