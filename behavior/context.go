package behavior

import (
	"github.com/gabemgem/citytwin/agent"
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/schedule"
)

// Context is the read-only simulation state passed to every behavior hook.
//
// It is built once per tick and shared immutably across all agent callbacks
// during the intent phase; hooks must not mutate anything reachable from it.
// All mutation happens via returned intents in the sequential apply phase.
type Context struct {
	// Tick is the current simulation tick.
	Tick core.Tick

	// TickDurationSecs is how many wall-clock seconds one tick represents.
	TickDurationSecs uint32

	// Agents is the read-only view of every agent's SoA state.
	Agents *agent.Store

	// Plans is the per-agent activity plans, indexed by AgentID.
	Plans []*schedule.ActivityPlan
}

// NewContext builds the context for a single tick.
func NewContext(tick core.Tick, tickDurationSecs uint32, agents *agent.Store, plans []*schedule.ActivityPlan) *Context {
	return &Context{
		Tick:             tick,
		TickDurationSecs: tickDurationSecs,
		Agents:           agents,
		Plans:            plans,
	}
}

// Plan is the activity plan for one agent.
func (c *Context) Plan(a core.AgentID) *schedule.ActivityPlan {
	return c.Plans[a.Index()]
}
