// Package mobility owns per-agent movement state and the teleport-at-arrival
// travel model: an agent logically stays at its departure node until the
// computed arrival tick, then instantly appears at the destination. The
// stored route exists only so observers can interpolate a visual position.
package mobility

import "github.com/gabemgem/citytwin/core"

// MovementState is the movement state for a single agent: either stationary
// at a node (InTransit false) or travelling between two nodes.
type MovementState struct {
	// InTransit is true while the agent is travelling to DestinationNode.
	InTransit bool

	// DepartureNode is the node the agent departed from, or is currently at
	// when stationary.
	DepartureNode core.NodeID

	// DestinationNode is the node the agent is heading to. Equals
	// DepartureNode when stationary.
	DestinationNode core.NodeID

	// DepartureTick is when the journey began. Equals ArrivalTick when
	// stationary.
	DepartureTick core.Tick

	// ArrivalTick is when the agent will arrive at DestinationNode. Equals
	// DepartureTick when stationary.
	ArrivalTick core.Tick
}

// Stationary constructs a stationary state at node at time tick.
func Stationary(node core.NodeID, tick core.Tick) MovementState {
	return MovementState{
		DepartureNode:   node,
		DestinationNode: node,
		DepartureTick:   tick,
		ArrivalTick:     tick,
	}
}

// Progress is the fraction of the journey completed at now, in [0, 1].
// Returns 1 for stationary agents or once now reaches ArrivalTick.
func (s MovementState) Progress(now core.Tick) float32 {
	if !s.InTransit || s.ArrivalTick <= s.DepartureTick {
		return 1
	}
	if now <= s.DepartureTick {
		return 0
	}
	elapsed := float32(now - s.DepartureTick)
	total := float32(s.ArrivalTick - s.DepartureTick)
	if elapsed >= total {
		return 1
	}
	return elapsed / total
}
