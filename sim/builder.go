package sim

import (
	"errors"
	"fmt"

	"github.com/gabemgem/citytwin/agent"
	"github.com/gabemgem/citytwin/behavior"
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/internal/logging"
	"github.com/gabemgem/citytwin/internal/observability"
	"github.com/gabemgem/citytwin/mobility"
	"github.com/gabemgem/citytwin/schedule"
	"github.com/gabemgem/citytwin/spatial"
)

var ErrAgentCountMismatch = errors.New("input length does not match agent count")

// Builder assembles a ready-to-run Sim.
//
// Required inputs are passed to NewBuilder: the config, the agent store and
// RNG pool (from agent.StoreBuilder), the behavior model, and the router.
// Optional inputs default to all-empty plans, an empty network, and all
// agents unplaced.
type Builder struct {
	config    core.SimConfig
	agents    *agent.Store
	rngs      *agent.Rngs
	behavior  behavior.Model
	router    spatial.Router
	plans     []*schedule.ActivityPlan
	network   *spatial.RoadNetwork
	positions []core.NodeID
	log       logging.Logger
	metrics   *observability.EngineCollector
}

// NewBuilder creates a builder with all required inputs.
func NewBuilder(
	config core.SimConfig,
	agents *agent.Store,
	rngs *agent.Rngs,
	model behavior.Model,
	router spatial.Router,
) *Builder {
	return &Builder{
		config:   config,
		agents:   agents,
		rngs:     rngs,
		behavior: model,
		router:   router,
	}
}

// Plans supplies per-agent activity plans; must be length agent_count. If
// unset, all agents get empty plans and are never auto-woken by the
// schedule — use WakeAt intents instead.
func (b *Builder) Plans(plans []*schedule.ActivityPlan) *Builder {
	b.plans = plans
	return b
}

// Network supplies the road network used to route TravelTo intents. If
// unset, an empty network is used and every TravelTo fails with a routing
// error (non-fatal: the agent stays put).
func (b *Builder) Network(n *spatial.RoadNetwork) *Builder {
	b.network = n
	return b
}

// InitialPositions supplies each agent's starting node; must be length
// agent_count. Agents at InvalidNode are not placed and fail TravelTo until
// something places them.
func (b *Builder) InitialPositions(positions []core.NodeID) *Builder {
	b.positions = positions
	return b
}

// Logger attaches a structured logger. Defaults to a noop logger.
func (b *Builder) Logger(log logging.Logger) *Builder {
	b.log = log
	return b
}

// Metrics attaches an engine metrics collector. Defaults to none.
func (b *Builder) Metrics(c *observability.EngineCollector) *Builder {
	b.metrics = c
	return b
}

// Build validates the inputs, seeds the wake queue from the plans, places
// agents, and returns a ready-to-run Sim.
func (b *Builder) Build() (*Sim, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	count := b.agents.Count
	if b.rngs.Len() != count {
		return nil, fmt.Errorf("%w: rng pool has %d streams, want %d", ErrAgentCountMismatch, b.rngs.Len(), count)
	}

	plans := b.plans
	if plans == nil {
		plans = make([]*schedule.ActivityPlan, count)
	}
	if len(plans) != count {
		return nil, fmt.Errorf("%w: %d activity plans, want %d", ErrAgentCountMismatch, len(plans), count)
	}
	for i, p := range plans {
		if p == nil {
			plans[i] = schedule.EmptyPlan()
		}
	}

	positions := b.positions
	if positions == nil {
		positions = make([]core.NodeID, count)
		for i := range positions {
			positions[i] = core.InvalidNode
		}
	}
	if len(positions) != count {
		return nil, fmt.Errorf("%w: %d initial positions, want %d", ErrAgentCountMismatch, len(positions), count)
	}

	network := b.network
	if network == nil {
		network = spatial.EmptyNetwork()
	}

	log := b.log
	if log == nil {
		log = logging.Noop()
	}

	mob := mobility.NewEngine(b.router, count)
	for i, node := range positions {
		if node != core.InvalidNode {
			mob.Place(core.AgentID(i), node, 0)
			b.agents.NodeID[i] = node
		}
	}

	return &Sim{
		Config:    b.config,
		Clock:     b.config.MakeClock(),
		Agents:    b.agents,
		Rngs:      b.rngs,
		Plans:     plans,
		WakeQueue: schedule.BuildFromPlans(plans, 0),
		Mobility:  mob,
		Behavior:  b.behavior,
		Network:   network,
		messages:  make(map[core.AgentID][]Message),
		workers:   b.config.Workers(),
		log:       log,
		metrics:   b.metrics,
	}, nil
}
