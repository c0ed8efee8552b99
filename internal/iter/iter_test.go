package iter

import (
	"testing"
	"time"
)

func TestCyclicWraps(t *testing.T) {
	c := NewCyclic([]int{1, 2, 3})
	got := []int{c.Next(), c.Next(), c.Next(), c.Next()}
	want := []int{1, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Next()#%d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestShuffledVisitsEveryValueOncePerLap(t *testing.T) {
	values := []int{10, 20, 30, 40}
	s := NewShuffled(values, 42)
	seen := map[int]int{}
	for i := 0; i < len(values); i++ {
		seen[s.Next()]++
	}
	for _, v := range values {
		if seen[v] != 1 {
			t.Fatalf("value %d seen %d times in one lap, want 1", v, seen[v])
		}
	}
}

func TestRandomIsDeterministicForASeed(t *testing.T) {
	r1 := NewRandom([]int{1, 2, 3, 4, 5}, 7)
	r2 := NewRandom([]int{1, 2, 3, 4, 5}, 7)
	for i := 0; i < 20; i++ {
		if r1.Next() != r2.Next() {
			t.Fatalf("same-seed Random streams diverged at call %d", i)
		}
	}
}

func TestFloatSamplerStaysInRange(t *testing.T) {
	f := NewFloatSampler(-1, 1, 99)
	for i := 0; i < 100; i++ {
		v := f.Next()
		if v < -1 || v >= 1 {
			t.Fatalf("FloatSampler produced %v outside [-1,1)", v)
		}
	}
}

func TestWaitingHoldsValueWithinIntervalThenAdvances(t *testing.T) {
	inner := NewCyclic([]int{1, 2, 3})
	clock := time.Unix(0, 0)
	now := func() time.Time { return clock }
	w := NewWaiting(inner, 2*time.Second, now)

	first := w.Next()
	if first != 1 {
		t.Fatalf("first Next() = %d, want 1", first)
	}
	clock = clock.Add(1 * time.Second)
	if v := w.Next(); v != first {
		t.Fatalf("Next() within the interval = %d, want held value %d", v, first)
	}
	clock = clock.Add(1500 * time.Millisecond)
	if v := w.Next(); v != 2 {
		t.Fatalf("Next() past the interval = %d, want 2 (inner advanced once)", v)
	}
	clock = clock.Add(500 * time.Millisecond)
	if v := w.Next(); v != 2 {
		t.Fatalf("Next() still within the new interval = %d, want held value 2", v)
	}
}
