package behavior

import "github.com/gabemgem/citytwin/core"

// Model is pluggable agent behavior: how agents decide what to do each tick.
//
// Every hook receives the read-only Context and the agent's own mutable
// AgentRng, so decisions are deterministic regardless of worker scheduling.
// The tick loop may call Replan for many agents concurrently, so
// implementations must be safe for concurrent use; state that varies per
// agent belongs in the agent store's components, not in the model itself.
//
// Embed BaseModel to pick up no-op OnContacts and OnMessage, implementing
// only Replan:
//
//	type Commuter struct{ behavior.BaseModel }
//
//	func (Commuter) Replan(a core.AgentID, ctx *behavior.Context, rng *core.AgentRng) []behavior.Intent {
//		act, ok := ctx.Plan(a).CurrentActivity(ctx.Tick)
//		...
//	}
type Model interface {
	// Replan is called once per woken agent per tick. An empty result means
	// "do nothing": the agent stays put until it is next woken.
	Replan(agent core.AgentID, ctx *Context, rng *core.AgentRng) []Intent

	// OnContacts is called after Replan when the agent is stationary and
	// co-located with at least one other agent. atNode is the full list of
	// stationary agents at node, including the agent itself; filter it out
	// to get only neighbours. Do not mutate or retain the slice.
	OnContacts(agent core.AgentID, node core.NodeID, atNode []core.AgentID, ctx *Context, rng *core.AgentRng) []Intent

	// OnMessage is called once per pending message when the agent wakes,
	// before Replan's intents are applied.
	OnMessage(agent core.AgentID, from core.AgentID, payload []byte, ctx *Context, rng *core.AgentRng) []Intent
}

// BaseModel provides no-op contact and message hooks so simple models only
// implement Replan.
type BaseModel struct{}

func (BaseModel) OnContacts(core.AgentID, core.NodeID, []core.AgentID, *Context, *core.AgentRng) []Intent {
	return nil
}

func (BaseModel) OnMessage(core.AgentID, core.AgentID, []byte, *Context, *core.AgentRng) []Intent {
	return nil
}

// Noop is a Model that never produces intents. Useful as a placeholder in
// tests or for passive populations that occupy space without acting.
type Noop struct{ BaseModel }

func (Noop) Replan(core.AgentID, *Context, *core.AgentRng) []Intent { return nil }
