package schedule

import "github.com/gabemgem/citytwin/core"

// Modifier is a hook for stochastic schedule deviations, called when an agent
// finishes an activity and is about to execute the next planned one.
//
// Implementations must be deterministic given the same rng state, must not
// block or perform I/O, and must be safe for concurrent use from the intent
// phase's workers.
//
// Typical application modifiers: detour to a shop before work, skip an
// errand, insert an unplanned social visit, delay a departure by a few ticks.
type Modifier interface {
	// Modify optionally replaces planned with a deviated activity. The
	// second return is false to execute planned as-is.
	Modify(agent core.AgentID, planned ScheduledActivity, rng *core.AgentRng) (ScheduledActivity, bool)
}

// NoModification never alters the planned schedule.
type NoModification struct{}

func (NoModification) Modify(core.AgentID, ScheduledActivity, *core.AgentRng) (ScheduledActivity, bool) {
	return ScheduledActivity{}, false
}

// Chain applies modifiers in sequence; each sees the (possibly modified)
// output of the one before it.
type Chain []Modifier

func (c Chain) Modify(agent core.AgentID, planned ScheduledActivity, rng *core.AgentRng) (ScheduledActivity, bool) {
	current := planned
	modified := false
	for _, m := range c {
		if next, ok := m.Modify(agent, current, rng); ok {
			current = next
			modified = true
		}
	}
	return current, modified
}
