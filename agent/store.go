package agent

import (
	"fmt"

	"github.com/gabemgem/citytwin/core"
)

// Store is Structure-of-Arrays storage for all engine-owned agent state.
//
// Every slice field has exactly Count elements; the AgentID value is the
// index into all of them:
//
//	pos := store.NodeID[agent.Index()] // O(1), cache-friendly
//
// Application-defined state lives in the ComponentMap and is accessed via
// the generic Component / ComponentMut helpers.
type Store struct {
	// Count is the number of agents; equals the length of every SoA slice.
	Count int

	// NodeID is the current road-network node. InvalidNode while mid-edge.
	NodeID []core.NodeID

	// EdgeID is the edge currently being traversed. InvalidEdge when
	// stationary at a node. The tick loop never writes it: travel is
	// teleport-at-arrival, so in-transit agents also keep InvalidEdge.
	EdgeID []core.EdgeID

	// EdgeProgress is the fraction of EdgeID traversed, in [0, 1).
	// Meaningless when EdgeID == InvalidEdge. Not written by the tick loop.
	EdgeProgress []float32

	// NextEventTick is the tick at which the agent must wake and replan.
	NextEventTick []core.Tick

	// CurrentActivity is what the agent is doing now. InvalidActivity means
	// unassigned / pre-simulation.
	CurrentActivity []core.ActivityID

	// TransportMode is how the agent is currently travelling. ModeNone when
	// stationary.
	TransportMode []core.TransportMode

	components *ComponentMap
}

func newStore(count int, components *ComponentMap) *Store {
	s := &Store{
		Count:           count,
		NodeID:          make([]core.NodeID, count),
		EdgeID:          make([]core.EdgeID, count),
		EdgeProgress:    make([]float32, count),
		NextEventTick:   make([]core.Tick, count),
		CurrentActivity: make([]core.ActivityID, count),
		TransportMode:   make([]core.TransportMode, count),
		components:      components,
	}
	for i := range count {
		s.NodeID[i] = core.InvalidNode
		s.EdgeID[i] = core.InvalidEdge
		s.CurrentActivity[i] = core.InvalidActivity
	}
	return s
}

// IsEmpty reports whether there are no agents.
func (s *Store) IsEmpty() bool { return s.Count == 0 }

// AgentIDs iterates all AgentIDs in ascending index order.
func (s *Store) AgentIDs(yield func(core.AgentID) bool) {
	for i := range s.Count {
		if !yield(core.AgentID(i)) {
			return
		}
	}
}

// IsAtNode reports whether the agent is at a road node (not mid-edge).
func (s *Store) IsAtNode(agent core.AgentID) bool {
	return s.NodeID[agent.Index()] != core.InvalidNode && s.EdgeID[agent.Index()] == core.InvalidEdge
}

// Components exposes the component registry, e.g. for output writers.
func (s *Store) Components() *ComponentMap { return s.components }

// Rngs is the per-agent deterministic RNG pool, kept separate from Store so
// the intent phase can hold the store read-only while workers mutate disjoint
// streams.
type Rngs struct {
	streams []*core.AgentRng
}

func newRngs(count int, globalSeed uint64) *Rngs {
	streams := make([]*core.AgentRng, count)
	for i := range streams {
		streams[i] = core.NewAgentRng(globalSeed, core.AgentID(i))
	}
	return &Rngs{streams: streams}
}

// Len is the number of streams.
func (r *Rngs) Len() int { return len(r.streams) }

// Get returns the stream for one agent. The caller must hold exclusive
// access to that agent.
func (r *Rngs) Get(agent core.AgentID) *core.AgentRng {
	return r.streams[agent.Index()]
}

// Borrow returns the streams for a batch of distinct agents, enabling a
// parallel caller to hand disjoint exclusive streams to its workers.
//
// The agent list must be strictly ascending (which also guarantees
// distinctness); the wake queue's drain output satisfies this by
// construction. Borrow panics on a violation because overlapping streams
// would silently break determinism.
func (r *Rngs) Borrow(agents []core.AgentID) []*core.AgentRng {
	out := make([]*core.AgentRng, len(agents))
	for i, a := range agents {
		if i > 0 && agents[i-1] >= a {
			panic(fmt.Sprintf("agent: Borrow requires strictly ascending ids, got %v after %v", a, agents[i-1]))
		}
		out[i] = r.streams[a.Index()]
	}
	return out
}
