package schedule

import (
	"sort"
	"testing"

	"github.com/gabemgem/citytwin/core"
)

func TestWakeQueuePushAndDrain(t *testing.T) {
	q := NewWakeQueue()
	q.Push(5, 3)
	q.Push(5, 1)
	q.Push(5, 2)
	q.Push(9, 0)

	if q.Len() != 4 {
		t.Fatalf("Len = %d, want 4", q.Len())
	}
	if q.TickCount() != 2 {
		t.Fatalf("TickCount = %d, want 2", q.TickCount())
	}

	got := q.DrainTick(5)
	want := []core.AgentID{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("DrainTick(5) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DrainTick(5) = %v, want %v", got, want)
		}
	}
	if q.Len() != 1 || q.TickCount() != 1 {
		t.Fatalf("after drain: Len=%d TickCount=%d, want 1/1", q.Len(), q.TickCount())
	}
}

func TestWakeQueueDrainMissingTick(t *testing.T) {
	q := NewWakeQueue()
	q.Push(3, 0)
	if got := q.DrainTick(2); got != nil {
		t.Fatalf("DrainTick(2) = %v, want nil", got)
	}
	if q.Len() != 1 {
		t.Fatalf("drain of absent tick changed Len to %d", q.Len())
	}
}

func TestWakeQueueSuppressesDuplicates(t *testing.T) {
	q := NewWakeQueue()
	q.Push(7, 4)
	q.Push(7, 4)
	q.Push(7, 4)
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (duplicates suppressed at insertion)", q.Len())
	}
	got := q.DrainTick(7)
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("DrainTick(7) = %v, want [4]", got)
	}
}

func TestWakeQueueSameAgentAtDifferentTicks(t *testing.T) {
	q := NewWakeQueue()
	q.Push(1, 9)
	q.Push(2, 9)
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (same agent may appear at multiple ticks)", q.Len())
	}
}

func TestWakeQueueDrainAlwaysAscending(t *testing.T) {
	// Insert a scrambled batch and check the drain result is strictly
	// ascending and duplicate-free.
	q := NewWakeQueue()
	rng := core.NewSimRng(42)
	for range 500 {
		q.Push(10, core.AgentID(rng.IntN(100)))
	}
	got := q.DrainTick(10)
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatalf("drain result not sorted: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] == got[i-1] {
			t.Fatalf("duplicate agent %v in drain result", got[i])
		}
	}
}

func TestWakeQueueNextTick(t *testing.T) {
	q := NewWakeQueue()
	if _, ok := q.NextTick(); ok {
		t.Fatal("empty queue should have no next tick")
	}
	q.Push(9, 0)
	q.Push(4, 1)
	if tick, ok := q.NextTick(); !ok || tick != 4 {
		t.Fatalf("NextTick = %v (ok=%v), want 4", tick, ok)
	}
	q.DrainTick(4)
	if tick, ok := q.NextTick(); !ok || tick != 9 {
		t.Fatalf("NextTick after drain = %v (ok=%v), want 9", tick, ok)
	}
}

func TestBuildFromPlans(t *testing.T) {
	daily, err := NewPlan([]ScheduledActivity{act(0, 8, 0), act(8, 16, 1)}, 24)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	plans := []*ActivityPlan{daily, EmptyPlan(), daily}

	q := BuildFromPlans(plans, 0)
	// Agents 0 and 2 wake when activity 1 starts at tick 8; agent 1 has an
	// empty plan and is never queued.
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}
	got := q.DrainTick(8)
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("DrainTick(8) = %v, want [0 2]", got)
	}
}
