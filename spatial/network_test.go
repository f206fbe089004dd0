package spatial

import (
	"testing"

	"github.com/gabemgem/citytwin/core"
)

func TestNetworkBuilderCSR(t *testing.T) {
	b := NewNetworkBuilder()
	n0 := b.AddNode(core.GeoPoint{Lat: 0, Lon: 0})
	n1 := b.AddNode(core.GeoPoint{Lat: 0.005, Lon: 0})
	n2 := b.AddNode(core.GeoPoint{Lat: 0.01, Lon: 0})

	// Out of source order on purpose: build must sort by source node.
	b.AddDirectedEdge(n2, n1, 500, 60_000)
	b.AddDirectedEdge(n0, n1, 500, 60_000)
	b.AddDirectedEdge(n1, n2, 500, 60_000)
	b.AddDirectedEdge(n1, n0, 500, 60_000)

	net := b.Build()
	if net.NodeCount() != 3 || net.EdgeCount() != 4 {
		t.Fatalf("dimensions = (%d nodes, %d edges), want (3, 4)", net.NodeCount(), net.EdgeCount())
	}

	// Row pointer: node 0 has 1 out edge, node 1 has 2, node 2 has 1.
	wantStarts := []uint32{0, 1, 3, 4}
	for i, want := range wantStarts {
		if net.NodeOutStart[i] != want {
			t.Fatalf("NodeOutStart = %v, want %v", net.NodeOutStart, wantStarts)
		}
	}

	if net.OutDegree(n1) != 2 {
		t.Fatalf("OutDegree(n1) = %d, want 2", net.OutDegree(n1))
	}
	lo, hi := net.OutEdges(n1)
	for e := lo; e < hi; e++ {
		if net.EdgeFrom[e.Index()] != n1 {
			t.Fatalf("edge %v in n1's range has source %v", e, net.EdgeFrom[e.Index()])
		}
	}
}

func TestAddRoadIsBidirectional(t *testing.T) {
	b := NewNetworkBuilder()
	a := b.AddNode(core.GeoPoint{Lat: 30.69, Lon: -88.04})
	c := b.AddNode(core.GeoPoint{Lat: 30.70, Lon: -88.03})
	b.AddRoad(a, c, 1200, 90_000)
	net := b.Build()
	if net.EdgeCount() != 2 {
		t.Fatalf("EdgeCount = %d, want 2", net.EdgeCount())
	}
}

func TestEmptyNetwork(t *testing.T) {
	net := EmptyNetwork()
	if !net.IsEmpty() {
		t.Fatal("EmptyNetwork should be empty")
	}
	if net.ContainsNode(0) {
		t.Fatal("empty network should contain no nodes")
	}
	if net.ContainsNode(core.InvalidNode) {
		t.Fatal("InvalidNode is never contained")
	}
}
