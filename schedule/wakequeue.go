package schedule

import (
	"sort"

	"github.com/gabemgem/citytwin/core"
)

// WakeQueue is a sparse mapping from future tick to the sorted agents that
// must be processed at that tick.
//
// Most agents are idle most ticks; iterating all N agents every tick would
// cost O(N) regardless of activity. The queue inverts the problem: each tick
// the sim drains only the agents scheduled for it, O(active) work instead of
// O(N).
//
// Representation: a sorted slice of distinct ticks plus a map from tick to
// its ascending, duplicate-free agent list. Enqueue is O(log T) to locate the
// tick (plus O(k) list insertion), drain is O(log T + k).
type WakeQueue struct {
	ticks  []core.Tick
	byTick map[core.Tick][]core.AgentID
	total  int
}

// NewWakeQueue creates an empty queue.
func NewWakeQueue() *WakeQueue {
	return &WakeQueue{byTick: make(map[core.Tick][]core.AgentID)}
}

// BuildFromPlans seeds a queue from per-agent plans (indexed by AgentID) and
// the simulation start tick. Each agent is scheduled at its plan's
// NextWakeTick(start); agents with empty plans are not inserted.
func BuildFromPlans(plans []*ActivityPlan, start core.Tick) *WakeQueue {
	q := NewWakeQueue()
	for i, plan := range plans {
		if wake, ok := plan.NextWakeTick(start); ok {
			q.Push(wake, core.AgentID(i))
		}
	}
	return q
}

// Push schedules agent at tick, keeping the tick's list ascending. A
// duplicate (tick, agent) pair is suppressed; the same agent may still be
// queued at several different ticks.
func (q *WakeQueue) Push(tick core.Tick, agent core.AgentID) {
	list, ok := q.byTick[tick]
	if !ok {
		q.insertTick(tick)
		q.byTick[tick] = []core.AgentID{agent}
		q.total++
		return
	}

	i := sort.Search(len(list), func(i int) bool { return list[i] >= agent })
	if i < len(list) && list[i] == agent {
		return
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = agent
	q.byTick[tick] = list
	q.total++
}

// DrainTick removes and returns the ascending agent list for tick, or nil if
// no agents are queued there (the common case for most ticks).
func (q *WakeQueue) DrainTick(tick core.Tick) []core.AgentID {
	list, ok := q.byTick[tick]
	if !ok {
		return nil
	}
	delete(q.byTick, tick)
	i := sort.Search(len(q.ticks), func(i int) bool { return q.ticks[i] >= tick })
	q.ticks = append(q.ticks[:i], q.ticks[i+1:]...)
	q.total -= len(list)
	return list
}

// NextTick is the earliest tick with at least one queued agent. The second
// return is false if the queue is empty.
func (q *WakeQueue) NextTick() (core.Tick, bool) {
	if len(q.ticks) == 0 {
		return 0, false
	}
	return q.ticks[0], true
}

// Len is the total number of (tick, agent) entries across all future ticks.
func (q *WakeQueue) Len() int { return q.total }

// IsEmpty reports whether no agents are queued.
func (q *WakeQueue) IsEmpty() bool { return q.total == 0 }

// TickCount is the number of distinct future ticks with queued agents.
func (q *WakeQueue) TickCount() int { return len(q.ticks) }

func (q *WakeQueue) insertTick(tick core.Tick) {
	i := sort.Search(len(q.ticks), func(i int) bool { return q.ticks[i] >= tick })
	q.ticks = append(q.ticks, 0)
	copy(q.ticks[i+1:], q.ticks[i:])
	q.ticks[i] = tick
}
