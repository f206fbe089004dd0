package main

import (
	"github.com/gabemgem/citytwin/agent"
	"github.com/gabemgem/citytwin/behavior"
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/schedule"
)

// HomeNode and WorkNode are the per-agent anchor nodes the schedule's
// home/work destination sentinels resolve against.
type HomeNode core.NodeID

type WorkNode core.NodeID

// CommuteBehavior follows each agent's activity plan: on wake it travels to
// the current activity's destination, or just schedules its next wake when
// it is already there. A small fraction of trips go on foot instead of by
// car, drawn from the agent's own stream so runs stay reproducible.
type CommuteBehavior struct {
	behavior.BaseModel

	// WalkProbability is the chance a trip is walked rather than driven.
	WalkProbability float64
}

func (b CommuteBehavior) Replan(a core.AgentID, ctx *behavior.Context, rng *core.AgentRng) []behavior.Intent {
	plan := ctx.Plan(a)
	act, ok := plan.CurrentActivity(ctx.Tick)
	if !ok {
		return nil
	}

	dest := resolveDestination(act.Destination, a, ctx.Agents)
	current := ctx.Agents.NodeID[a.Index()]
	if dest != core.InvalidNode && current != dest {
		mode := core.ModeCar
		if rng.Bool(b.WalkProbability) {
			mode = core.ModeWalk
		}
		return []behavior.Intent{behavior.TravelTo(dest, mode)}
	}

	// Already in place for this activity: sleep until the next one starts.
	if wake, ok := plan.NextWakeTick(ctx.Tick); ok {
		return []behavior.Intent{behavior.WakeAt(wake)}
	}
	return nil
}

func resolveDestination(d schedule.Destination, a core.AgentID, store *agent.Store) core.NodeID {
	switch d.Kind {
	case schedule.DestHome:
		if homes, ok := agent.Component[HomeNode](store.Components()); ok {
			return core.NodeID(homes[a.Index()])
		}
		return core.InvalidNode
	case schedule.DestWork:
		if works, ok := agent.Component[WorkNode](store.Components()); ok {
			return core.NodeID(works[a.Index()])
		}
		return core.InvalidNode
	default:
		return d.Node
	}
}

// dailyPlan is the three-activity commuter day: home, work, home again.
// shift staggers the whole day by the given number of ticks.
func dailyPlan(shift uint32) (*schedule.ActivityPlan, error) {
	const cycle = 24
	return schedule.NewPlan([]schedule.ScheduledActivity{
		{StartOffsetTicks: shift % cycle, DurationTicks: 8, ActivityID: 0, Destination: schedule.HomeDest()},
		{StartOffsetTicks: (shift + 8) % cycle, DurationTicks: 9, ActivityID: 1, Destination: schedule.WorkDest()},
		{StartOffsetTicks: (shift + 17) % cycle, DurationTicks: 7, ActivityID: 0, Destination: schedule.HomeDest()},
	}, cycle)
}
