package mobility

import (
	"errors"
	"fmt"

	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/spatial"
)

var (
	ErrAlreadyInTransit = errors.New("agent is already in transit")
	ErrNotPlaced        = errors.New("agent has not been placed on the network")
)

// Engine wraps a Router and a Store to provide the intent-driven mobility
// API the tick loop consumes.
type Engine struct {
	// Router is the routing algorithm used for TravelTo intents.
	Router spatial.Router

	// Store is all per-agent movement state and the active-route table.
	Store *Store
}

// NewEngine creates an engine with all agents stationary at InvalidNode.
func NewEngine(router spatial.Router, agentCount int) *Engine {
	return &Engine{Router: router, Store: NewStore(agentCount)}
}

// Place teleports agent to node without routing (initial placement).
func (e *Engine) Place(agent core.AgentID, node core.NodeID, tick core.Tick) {
	e.Store.States[agent.Index()] = Stationary(node, tick)
}

// BeginTravel starts agent travelling to destination. It looks up the
// agent's current node, computes a route, and records the movement,
// returning the arrival tick to be inserted into the wake queue. Fails
// without modifying state if the agent is mid-journey, unplaced, or
// unroutable.
func (e *Engine) BeginTravel(
	agent core.AgentID,
	destination core.NodeID,
	mode core.TransportMode,
	now core.Tick,
	tickDurationSecs uint32,
	network *spatial.RoadNetwork,
) (core.Tick, error) {
	state := &e.Store.States[agent.Index()]
	if state.InTransit {
		return 0, fmt.Errorf("%w: %v", ErrAlreadyInTransit, agent)
	}
	from := state.DepartureNode
	if from == core.InvalidNode {
		return 0, fmt.Errorf("%w: %v", ErrNotPlaced, agent)
	}
	return e.Store.BeginTravel(agent, from, destination, mode, now, tickDurationSecs, e.Router, network)
}

// Arrival pairs an arriving agent with its destination node.
type Arrival struct {
	Agent core.AgentID
	Node  core.NodeID
}

// TickArrivals flips every agent whose journey completes at now back to
// stationary and returns the arrivals in ascending AgentID order so the
// caller can update positions and re-insert wakes deterministically.
func (e *Engine) TickArrivals(now core.Tick) []Arrival {
	var arrivals []Arrival
	for i := range e.Store.States {
		s := &e.Store.States[i]
		if s.InTransit && s.ArrivalTick <= now {
			agent := core.AgentID(i)
			arrivals = append(arrivals, Arrival{Agent: agent, Node: e.Store.Arrive(agent, now)})
		}
	}
	return arrivals
}

// VisualPosition is the interpolated position for agent at now: the two
// endpoint nodes and the progress fraction in [0, 1]. Used only by
// observers.
func (e *Engine) VisualPosition(agent core.AgentID, now core.Tick) (departure, destination core.NodeID, progress float32) {
	s := e.Store.States[agent.Index()]
	return s.DepartureNode, s.DestinationNode, s.Progress(now)
}
