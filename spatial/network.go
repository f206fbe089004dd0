// Package spatial holds the road-network representation consumed by the
// engine and the pluggable router that computes routes over it.
//
// The graph uses compressed-sparse-row (CSR) adjacency for outgoing edges:
// the outgoing edges of node n occupy the EdgeID range
//
//	NodeOutStart[n] .. NodeOutStart[n+1]
//
// All edge arrays are sorted by source node and indexed by EdgeID, so
// iterating a node's outgoing edges is a contiguous memory scan.
package spatial

import "github.com/gabemgem/citytwin/core"

// RoadNetwork is a directed road graph in CSR form. Fields are exported for
// direct indexed access on hot paths; construct via NetworkBuilder.
type RoadNetwork struct {
	// NodePos is the geographic position of each node, indexed by NodeID.
	NodePos []core.GeoPoint

	// NodeOutStart is the CSR row pointer; length node_count + 1.
	NodeOutStart []uint32

	// EdgeFrom is the source node of each edge. Redundant with the CSR rows
	// but needed for efficient route reconstruction.
	EdgeFrom []core.NodeID

	// EdgeTo is the destination node of each edge.
	EdgeTo []core.NodeID

	// EdgeLengthM is each edge's physical length in metres.
	EdgeLengthM []float32

	// EdgeTravelMs is the car travel time in milliseconds, used as the
	// Dijkstra edge cost. Other modes derive costs from EdgeLengthM.
	EdgeTravelMs []uint32
}

// EmptyNetwork is a network with no nodes or edges. Useful as a placeholder
// when no routing is needed; any routing request against it fails with
// ErrUnknownNode, since it contains no nodes.
func EmptyNetwork() *RoadNetwork {
	return NewNetworkBuilder().Build()
}

// NodeCount is the number of nodes.
func (n *RoadNetwork) NodeCount() int { return len(n.NodePos) }

// EdgeCount is the number of directed edges.
func (n *RoadNetwork) EdgeCount() int { return len(n.EdgeTo) }

// IsEmpty reports whether the network has no nodes.
func (n *RoadNetwork) IsEmpty() bool { return len(n.NodePos) == 0 }

// ContainsNode reports whether id is a valid node of this network.
func (n *RoadNetwork) ContainsNode(id core.NodeID) bool {
	return id != core.InvalidNode && id.Index() < len(n.NodePos)
}

// OutEdges returns the contiguous EdgeID range [lo, hi) of node's outgoing
// edges.
func (n *RoadNetwork) OutEdges(node core.NodeID) (lo, hi core.EdgeID) {
	return core.EdgeID(n.NodeOutStart[node.Index()]), core.EdgeID(n.NodeOutStart[node.Index()+1])
}

// OutDegree is the number of outgoing edges of node.
func (n *RoadNetwork) OutDegree(node core.NodeID) int {
	lo, hi := n.OutEdges(node)
	return int(hi - lo)
}

// NetworkBuilder accepts nodes and directed edges in any order; Build sorts
// edges by source node and constructs the CSR arrays.
type NetworkBuilder struct {
	nodes    []core.GeoPoint
	rawEdges []rawEdge
}

type rawEdge struct {
	from     core.NodeID
	to       core.NodeID
	lengthM  float32
	travelMs uint32
}

// NewNetworkBuilder creates an empty builder.
func NewNetworkBuilder() *NetworkBuilder {
	return &NetworkBuilder{}
}

// WithCapacity pre-allocates for the expected node and edge counts to reduce
// reallocations when bulk-loading.
func WithCapacity(nodes, edges int) *NetworkBuilder {
	return &NetworkBuilder{
		nodes:    make([]core.GeoPoint, 0, nodes),
		rawEdges: make([]rawEdge, 0, edges),
	}
}

// AddNode adds a road node and returns its NodeID (sequential from 0).
func (b *NetworkBuilder) AddNode(pos core.GeoPoint) core.NodeID {
	id := core.NodeID(len(b.nodes))
	b.nodes = append(b.nodes, pos)
	return id
}

// AddDirectedEdge adds a one-way edge: lengthM in metres, travelMs the car
// travel time in milliseconds.
func (b *NetworkBuilder) AddDirectedEdge(from, to core.NodeID, lengthM float32, travelMs uint32) {
	b.rawEdges = append(b.rawEdges, rawEdge{from: from, to: to, lengthM: lengthM, travelMs: travelMs})
}

// AddRoad adds edges in both directions for an undirected road segment (the
// common case for most road types).
func (b *NetworkBuilder) AddRoad(a, c core.NodeID, lengthM float32, travelMs uint32) {
	b.AddDirectedEdge(a, c, lengthM, travelMs)
	b.AddDirectedEdge(c, a, lengthM, travelMs)
}

// NodePos looks up the position of a node added earlier.
func (b *NetworkBuilder) NodePos(id core.NodeID) core.GeoPoint { return b.nodes[id.Index()] }

// NodeCount is the number of nodes added so far.
func (b *NetworkBuilder) NodeCount() int { return len(b.nodes) }

// EdgeCount is the number of directed edges added so far.
func (b *NetworkBuilder) EdgeCount() int { return len(b.rawEdges) }

// Build produces the CSR RoadNetwork. O(E) counting sort by source node plus
// O(N) row-pointer accumulation.
func (b *NetworkBuilder) Build() *RoadNetwork {
	nodeCount := len(b.nodes)
	edgeCount := len(b.rawEdges)

	// CSR row pointer: count per-source edges, then prefix-sum.
	nodeOutStart := make([]uint32, nodeCount+1)
	for _, e := range b.rawEdges {
		nodeOutStart[e.from.Index()+1]++
	}
	for i := 1; i <= nodeCount; i++ {
		nodeOutStart[i] += nodeOutStart[i-1]
	}

	// Place edges into source-sorted positions. A stable counting sort keeps
	// insertion order within each source node, so rebuilt networks are
	// byte-identical across runs.
	edgeFrom := make([]core.NodeID, edgeCount)
	edgeTo := make([]core.NodeID, edgeCount)
	edgeLengthM := make([]float32, edgeCount)
	edgeTravelMs := make([]uint32, edgeCount)

	next := make([]uint32, nodeCount)
	copy(next, nodeOutStart[:nodeCount])
	for _, e := range b.rawEdges {
		i := next[e.from.Index()]
		next[e.from.Index()]++
		edgeFrom[i] = e.from
		edgeTo[i] = e.to
		edgeLengthM[i] = e.lengthM
		edgeTravelMs[i] = e.travelMs
	}

	return &RoadNetwork{
		NodePos:      b.nodes,
		NodeOutStart: nodeOutStart,
		EdgeFrom:     edgeFrom,
		EdgeTo:       edgeTo,
		EdgeLengthM:  edgeLengthM,
		EdgeTravelMs: edgeTravelMs,
	}
}
