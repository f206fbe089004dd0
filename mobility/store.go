package mobility

import (
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/spatial"
)

// Store holds movement state for every agent plus sparse routes for agents
// currently in transit.
//
// States is indexed by AgentID and always has length agent_count. Routes is
// sparse: only in-transit agents have an entry, and the entry is removed on
// arrival.
type Store struct {
	// States is the per-agent movement state.
	States []MovementState

	// Routes caches the active route for each in-transit agent, for
	// visual interpolation only; the scheduler needs only ArrivalTick.
	Routes map[core.AgentID]spatial.Route
}

// NewStore creates a store with every agent stationary at InvalidNode.
func NewStore(agentCount int) *Store {
	states := make([]MovementState, agentCount)
	for i := range states {
		states[i] = Stationary(core.InvalidNode, 0)
	}
	return &Store{
		States: states,
		Routes: make(map[core.AgentID]spatial.Route),
	}
}

// BeginTravel routes agent from from to to and records the movement,
// returning the arrival tick for the wake queue. State is untouched when the
// router fails.
func (s *Store) BeginTravel(
	agent core.AgentID,
	from, to core.NodeID,
	mode core.TransportMode,
	now core.Tick,
	tickDurationSecs uint32,
	router spatial.Router,
	network *spatial.RoadNetwork,
) (core.Tick, error) {
	route, err := router.Route(network, from, to, mode)
	if err != nil {
		return 0, err
	}

	// Even a trivially short trip consumes at least one tick.
	travelTicks := route.TravelTicks(tickDurationSecs)
	if travelTicks == 0 {
		travelTicks = 1
	}
	arrival := now + core.Tick(travelTicks)

	s.States[agent.Index()] = MovementState{
		InTransit:       true,
		DepartureNode:   from,
		DestinationNode: to,
		DepartureTick:   now,
		ArrivalTick:     arrival,
	}
	s.Routes[agent] = route
	return arrival, nil
}

// Arrive completes travel for agent: marks it stationary at its destination,
// drops the cached route, and returns the destination node.
func (s *Store) Arrive(agent core.AgentID, now core.Tick) core.NodeID {
	dest := s.States[agent.Index()].DestinationNode
	s.States[agent.Index()] = Stationary(dest, now)
	delete(s.Routes, agent)
	return dest
}

// InTransit reports whether agent is currently travelling.
func (s *Store) InTransit(agent core.AgentID) bool {
	return s.States[agent.Index()].InTransit
}

// Progress is the journey fraction for agent at now.
func (s *Store) Progress(agent core.AgentID, now core.Tick) float32 {
	return s.States[agent.Index()].Progress(now)
}
