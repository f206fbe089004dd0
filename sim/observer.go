// Package sim contains the tick orchestrator: the four-phase loop that
// advances the agent population, plus its builder and observer contract.
package sim

import (
	"github.com/gabemgem/citytwin/agent"
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/mobility"
)

// Observer receives callbacks at key points of the tick loop. Embed
// BaseObserver to only implement the hooks you care about.
type Observer interface {
	// OnTickStart fires at the very start of each tick, before any
	// processing.
	OnTickStart(tick core.Tick)

	// OnTickEnd fires at the end of each tick; woken is how many agents had
	// behavior hooks invoked this tick.
	OnTickEnd(tick core.Tick, woken int)

	// OnSnapshot fires every OutputIntervalTicks ticks with read-only views
	// of the mobility and agent state, so output writers can record a
	// position snapshot without the engine knowing any format.
	OnSnapshot(tick core.Tick, mob *mobility.Store, agents *agent.Store)

	// OnSimEnd fires once after the final tick completes.
	OnSimEnd(finalTick core.Tick)
}

// BaseObserver provides no-op implementations of every hook.
type BaseObserver struct{}

func (BaseObserver) OnTickStart(core.Tick)                               {}
func (BaseObserver) OnTickEnd(core.Tick, int)                            {}
func (BaseObserver) OnSnapshot(core.Tick, *mobility.Store, *agent.Store) {}
func (BaseObserver) OnSimEnd(core.Tick)                                  {}

// NoopObserver does nothing. Use when you need to call Run but don't want
// progress callbacks.
type NoopObserver struct{ BaseObserver }
