package spatial

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/gabemgem/citytwin/core"
)

var (
	ErrNoRoute     = errors.New("no route between nodes")
	ErrUnknownNode = errors.New("node not found in network")
)

// Route is the result of a routing query: the edges to traverse in order and
// the cumulative travel time.
type Route struct {
	Edges           []core.EdgeID
	TotalTravelSecs float32
}

// TravelTicks converts the route's travel time to simulation ticks, rounding
// up so agents never arrive before the correct tick.
func (r Route) TravelTicks(tickDurationSecs uint32) uint64 {
	return uint64(math.Ceil(float64(r.TotalTravelSecs) / float64(tickDurationSecs)))
}

// IsTrivial reports whether source and destination are the same node.
func (r Route) IsTrivial() bool { return len(r.Edges) == 0 }

// Router is the pluggable routing engine. Implementations must be safe to
// share across goroutines; the engine only calls Route from the sequential
// apply phase, but observers may query concurrently.
type Router interface {
	// Route computes a route from from to to for the given transport mode.
	Route(network *RoadNetwork, from, to core.NodeID, mode core.TransportMode) (Route, error)
}

// Per-mode assumed speeds for cost derivation from edge length. Car uses the
// network's own travel times.
const (
	walkSpeedMps    = 1.4
	bikeSpeedMps    = 4.2
	transitSpeedMps = 8.3
)

// DijkstraRouter runs standard Dijkstra over the CSR graph, using
// EdgeTravelMs as the cost for car trips and length-derived costs for the
// other modes. Applications needing mode-specific graphs (cycling paths,
// transit timetables) plug in their own Router.
type DijkstraRouter struct{}

func (DijkstraRouter) Route(network *RoadNetwork, from, to core.NodeID, mode core.TransportMode) (Route, error) {
	if !network.ContainsNode(from) {
		return Route{}, fmt.Errorf("%w: %v", ErrUnknownNode, from)
	}
	if !network.ContainsNode(to) {
		return Route{}, fmt.Errorf("%w: %v", ErrUnknownNode, to)
	}
	if from == to {
		return Route{}, nil
	}

	n := network.NodeCount()
	const unreached = math.MaxUint32
	dist := make([]uint32, n)
	for i := range dist {
		dist[i] = unreached
	}
	prevEdge := make([]core.EdgeID, n)
	for i := range prevEdge {
		prevEdge[i] = core.InvalidEdge
	}
	dist[from.Index()] = 0

	pq := &nodeHeap{{cost: 0, node: from}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(heapItem)
		if item.node == to {
			return reconstruct(network, prevEdge, to, item.cost), nil
		}
		// Skip stale heap entries.
		if item.cost > dist[item.node.Index()] {
			continue
		}
		lo, hi := network.OutEdges(item.node)
		for e := lo; e < hi; e++ {
			neighbor := network.EdgeTo[e.Index()]
			cost := satAdd(item.cost, edgeCostMs(network, e, mode))
			if cost < dist[neighbor.Index()] {
				dist[neighbor.Index()] = cost
				prevEdge[neighbor.Index()] = e
				heap.Push(pq, heapItem{cost: cost, node: neighbor})
			}
		}
	}
	return Route{}, fmt.Errorf("%w: %v -> %v", ErrNoRoute, from, to)
}

// edgeCostMs is the edge cost in milliseconds for the given mode.
func edgeCostMs(network *RoadNetwork, edge core.EdgeID, mode core.TransportMode) uint32 {
	switch mode {
	case core.ModeWalk:
		return uint32(network.EdgeLengthM[edge.Index()] / walkSpeedMps * 1000)
	case core.ModeBike:
		return uint32(network.EdgeLengthM[edge.Index()] / bikeSpeedMps * 1000)
	case core.ModeTransit:
		return uint32(network.EdgeLengthM[edge.Index()] / transitSpeedMps * 1000)
	default:
		return network.EdgeTravelMs[edge.Index()]
	}
}

func satAdd(a, b uint32) uint32 {
	if sum := a + b; sum >= a {
		return sum
	}
	return math.MaxUint32
}

func reconstruct(network *RoadNetwork, prevEdge []core.EdgeID, to core.NodeID, totalMs uint32) Route {
	var edges []core.EdgeID
	cur := to
	for {
		e := prevEdge[cur.Index()]
		if e == core.InvalidEdge {
			break
		}
		edges = append(edges, e)
		cur = network.EdgeFrom[e.Index()]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return Route{Edges: edges, TotalTravelSecs: float32(totalMs) / 1000}
}

// heapItem orders the frontier by cost, breaking ties by NodeID so the
// search order (and therefore the chosen route among equal-cost paths) is
// deterministic.
type heapItem struct {
	cost uint32
	node core.NodeID
}

type nodeHeap []heapItem

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].node < h[j].node
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(heapItem)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
