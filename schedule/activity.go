// Package schedule holds the cyclic activity plans agents follow and the
// sparse wake queue that activates them.
//
// Each agent carries an ActivityPlan: an ordered list of activities plus a
// cycle length in ticks (e.g. 168 for one week at 1-hour ticks). At any tick
// t the agent's position within its cycle is t mod cycle_ticks; the active
// activity is the one with the largest start offset not after that position.
// If the position falls before the first activity (possible mid-cycle at sim
// start), the last activity of the previous cycle is still active.
package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gabemgem/citytwin/core"
)

var (
	ErrZeroCycle        = errors.New("cycle_ticks must be > 0")
	ErrOffsetOutOfRange = errors.New("start_offset_ticks must be < cycle_ticks")
)

// DestinationKind discriminates the Destination sum.
type DestinationKind uint8

const (
	// DestNode is a specific road-network node (fully resolved).
	DestNode DestinationKind = iota
	// DestHome resolves per-agent to the agent's registered home node.
	DestHome
	// DestWork resolves per-agent to the agent's registered work node.
	DestWork
)

// Destination is where an agent is headed for a given activity. Home and
// Work are sentinels that the application resolves against agent components
// before the agent begins moving.
type Destination struct {
	Kind DestinationKind
	Node core.NodeID
}

// NodeDest returns a fully resolved destination.
func NodeDest(n core.NodeID) Destination { return Destination{Kind: DestNode, Node: n} }

// HomeDest returns the home sentinel.
func HomeDest() Destination { return Destination{Kind: DestHome, Node: core.InvalidNode} }

// WorkDest returns the work sentinel.
func WorkDest() Destination { return Destination{Kind: DestWork, Node: core.InvalidNode} }

// IsResolved reports whether the destination is a concrete node.
func (d Destination) IsResolved() bool { return d.Kind == DestNode }

func (d Destination) String() string {
	switch d.Kind {
	case DestHome:
		return "home"
	case DestWork:
		return "work"
	default:
		return d.Node.String()
	}
}

// ScheduledActivity is one entry in an agent's activity plan.
//
// ActivityID is application-defined (e.g. 0 = sleep, 1 = work); the engine
// only cares about timing and destination.
type ScheduledActivity struct {
	// StartOffsetTicks is the offset from the start of the cycle at which
	// this activity begins.
	StartOffsetTicks uint32

	// DurationTicks is how long the activity is planned to last.
	// Informational: wake-up timing uses the next activity's start, not this.
	DurationTicks uint32

	// ActivityID is the application-defined activity type.
	ActivityID core.ActivityID

	// Destination is where the agent should be for this activity.
	Destination Destination
}

// ActivityPlan is a cyclic activity schedule for one agent.
//
// Plans are immutable after construction: share the same *ActivityPlan
// across any number of agents for O(1) duplication. Activities are stored
// sorted by start offset so lookups are binary searches.
type ActivityPlan struct {
	activities []ScheduledActivity
	cycleTicks uint32
}

// NewPlan constructs a plan, sorting activities by start offset. It fails if
// cycleTicks is zero or any offset falls outside [0, cycleTicks).
func NewPlan(activities []ScheduledActivity, cycleTicks uint32) (*ActivityPlan, error) {
	if cycleTicks == 0 {
		return nil, ErrZeroCycle
	}
	for _, a := range activities {
		if a.StartOffsetTicks >= cycleTicks {
			return nil, fmt.Errorf("%w: offset %d, cycle %d", ErrOffsetOutOfRange, a.StartOffsetTicks, cycleTicks)
		}
	}
	sorted := make([]ScheduledActivity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartOffsetTicks < sorted[j].StartOffsetTicks
	})
	return &ActivityPlan{activities: sorted, cycleTicks: cycleTicks}, nil
}

// EmptyPlan is a plan with no scheduled activities; its agent is never
// auto-woken by the schedule.
func EmptyPlan() *ActivityPlan {
	return &ActivityPlan{cycleTicks: 1}
}

// IsEmpty reports whether the plan has no activities.
func (p *ActivityPlan) IsEmpty() bool { return len(p.activities) == 0 }

// Len is the number of scheduled activities.
func (p *ActivityPlan) Len() int { return len(p.activities) }

// CycleTicks is the length of one schedule cycle.
func (p *ActivityPlan) CycleTicks() uint32 { return p.cycleTicks }

// Activities is a read-only view of all activities, sorted by start offset.
// Callers must not mutate the returned slice.
func (p *ActivityPlan) Activities() []ScheduledActivity { return p.activities }

// CyclePos is the tick offset within the current cycle for absolute tick t.
func (p *ActivityPlan) CyclePos(t core.Tick) uint32 {
	return uint32(uint64(t) % uint64(p.cycleTicks))
}

// CurrentActivity is the activity active at tick t. The second return is
// false if the plan is empty.
func (p *ActivityPlan) CurrentActivity(t core.Tick) (ScheduledActivity, bool) {
	if p.IsEmpty() {
		return ScheduledActivity{}, false
	}
	return p.activities[p.activityIdxAt(p.CyclePos(t))], true
}

// NextWakeTick is the absolute tick at which the agent should next wake and
// replan. The second return is false if the plan is empty.
//
// The agent wakes at the next start offset strictly after its cycle
// position; when none remains this cycle (including the single-activity
// case) it wakes at the first activity of the next cycle. The decision uses
// the raw search index, not the wrapped current-activity index: when the
// cycle position precedes the first start offset, the next start is still in
// the current cycle even though the current activity wrapped from the
// previous one.
func (p *ActivityPlan) NextWakeTick(t core.Tick) (core.Tick, bool) {
	if p.IsEmpty() {
		return 0, false
	}
	pos := p.CyclePos(t)
	idx := p.nextStartIdx(pos)

	var ticksUntil uint64
	if idx < len(p.activities) {
		ticksUntil = uint64(p.activities[idx].StartOffsetTicks) - uint64(pos)
	} else {
		ticksUntil = uint64(p.cycleTicks) - uint64(pos) + uint64(p.activities[0].StartOffsetTicks)
	}
	return t + core.Tick(ticksUntil), true
}

// nextStartIdx is the index of the first activity whose start offset is
// strictly greater than cyclePos, or len(activities) if none is.
func (p *ActivityPlan) nextStartIdx(cyclePos uint32) int {
	return sort.Search(len(p.activities), func(i int) bool {
		return p.activities[i].StartOffsetTicks > cyclePos
	})
}

// activityIdxAt is the index of the activity active at cyclePos.
func (p *ActivityPlan) activityIdxAt(cyclePos uint32) int {
	idx := p.nextStartIdx(cyclePos)
	if idx == 0 {
		// cyclePos precedes the first activity: the agent is still in the
		// last activity of the previous cycle.
		return len(p.activities) - 1
	}
	return idx - 1
}
