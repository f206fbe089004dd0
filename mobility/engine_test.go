package mobility

import (
	"errors"
	"testing"

	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/spatial"
)

// Line network: 0 <-> 1 <-> 2, each segment 500 m / 60 s by car.
func lineNetwork() *spatial.RoadNetwork {
	b := spatial.NewNetworkBuilder()
	n0 := b.AddNode(core.GeoPoint{Lat: 0, Lon: 0})
	n1 := b.AddNode(core.GeoPoint{Lat: 0.005, Lon: 0})
	n2 := b.AddNode(core.GeoPoint{Lat: 0.01, Lon: 0})
	b.AddRoad(n0, n1, 500, 60_000)
	b.AddRoad(n1, n2, 500, 60_000)
	return b.Build()
}

func TestPlaceAndBeginTravel(t *testing.T) {
	net := lineNetwork()
	eng := NewEngine(spatial.DijkstraRouter{}, 2)
	eng.Place(0, 0, 0)

	arrival, err := eng.BeginTravel(0, 2, core.ModeCar, 5, 3600, net)
	if err != nil {
		t.Fatalf("BeginTravel: %v", err)
	}
	// 120 s at 3600 s/tick rounds up to 1 tick; never less than 1.
	if arrival != 6 {
		t.Fatalf("arrival = %v, want 6", arrival)
	}

	state := eng.Store.States[0]
	if !state.InTransit || state.DepartureNode != 0 || state.DestinationNode != 2 {
		t.Fatalf("unexpected state after BeginTravel: %+v", state)
	}
	if _, ok := eng.Store.Routes[0]; !ok {
		t.Fatal("active route should be cached while in transit")
	}
}

func TestBeginTravelAlreadyInTransit(t *testing.T) {
	net := lineNetwork()
	eng := NewEngine(spatial.DijkstraRouter{}, 1)
	eng.Place(0, 0, 0)
	if _, err := eng.BeginTravel(0, 2, core.ModeCar, 0, 3600, net); err != nil {
		t.Fatalf("first BeginTravel: %v", err)
	}

	_, err := eng.BeginTravel(0, 1, core.ModeCar, 0, 3600, net)
	if !errors.Is(err, ErrAlreadyInTransit) {
		t.Fatalf("err = %v, want ErrAlreadyInTransit", err)
	}
}

func TestBeginTravelUnplacedAgent(t *testing.T) {
	net := lineNetwork()
	eng := NewEngine(spatial.DijkstraRouter{}, 1)
	_, err := eng.BeginTravel(0, 1, core.ModeCar, 0, 3600, net)
	if !errors.Is(err, ErrNotPlaced) {
		t.Fatalf("err = %v, want ErrNotPlaced", err)
	}
}

func TestRoutingFailureLeavesStateUntouched(t *testing.T) {
	net := lineNetwork()
	eng := NewEngine(spatial.DijkstraRouter{}, 1)
	eng.Place(0, 0, 0)

	if _, err := eng.BeginTravel(0, 99, core.ModeCar, 0, 3600, net); err == nil {
		t.Fatal("expected routing error for unknown destination")
	}
	state := eng.Store.States[0]
	if state.InTransit || state.DepartureNode != 0 {
		t.Fatalf("state modified by failed BeginTravel: %+v", state)
	}
	if len(eng.Store.Routes) != 0 {
		t.Fatal("route table should stay empty after failed BeginTravel")
	}
}

func TestTickArrivals(t *testing.T) {
	net := lineNetwork()
	eng := NewEngine(spatial.DijkstraRouter{}, 3)
	eng.Place(0, 0, 0)
	eng.Place(1, 0, 0)
	eng.Place(2, 2, 0)

	if _, err := eng.BeginTravel(0, 2, core.ModeCar, 0, 3600, net); err != nil {
		t.Fatalf("BeginTravel agent 0: %v", err)
	}
	if _, err := eng.BeginTravel(1, 1, core.ModeCar, 0, 3600, net); err != nil {
		t.Fatalf("BeginTravel agent 1: %v", err)
	}

	if got := eng.TickArrivals(0); len(got) != 0 {
		t.Fatalf("no arrivals expected at departure tick, got %v", got)
	}

	arrivals := eng.TickArrivals(1)
	if len(arrivals) != 2 {
		t.Fatalf("got %d arrivals, want 2", len(arrivals))
	}
	// Ascending AgentID order.
	if arrivals[0].Agent != 0 || arrivals[0].Node != 2 {
		t.Fatalf("arrival[0] = %+v, want agent 0 at node 2", arrivals[0])
	}
	if arrivals[1].Agent != 1 || arrivals[1].Node != 1 {
		t.Fatalf("arrival[1] = %+v, want agent 1 at node 1", arrivals[1])
	}
	for _, arr := range arrivals {
		if eng.Store.InTransit(arr.Agent) {
			t.Fatalf("agent %v still in transit after arrival", arr.Agent)
		}
	}
	if len(eng.Store.Routes) != 0 {
		t.Fatal("routes should be dropped on arrival")
	}
}

func TestProgressInterpolation(t *testing.T) {
	state := MovementState{
		InTransit:       true,
		DepartureNode:   0,
		DestinationNode: 1,
		DepartureTick:   10,
		ArrivalTick:     14,
	}
	cases := []struct {
		now  core.Tick
		want float32
	}{
		{9, 0},
		{10, 0},
		{11, 0.25},
		{12, 0.5},
		{14, 1},
		{20, 1},
	}
	for _, tc := range cases {
		if got := state.Progress(tc.now); got != tc.want {
			t.Errorf("Progress(%v) = %v, want %v", tc.now, got, tc.want)
		}
	}

	stationary := Stationary(3, 5)
	if got := stationary.Progress(5); got != 1 {
		t.Errorf("stationary Progress = %v, want 1", got)
	}
}

func TestVisualPosition(t *testing.T) {
	net := lineNetwork()
	eng := NewEngine(spatial.DijkstraRouter{}, 1)
	eng.Place(0, 0, 0)
	if _, err := eng.BeginTravel(0, 2, core.ModeCar, 0, 3600, net); err != nil {
		t.Fatalf("BeginTravel: %v", err)
	}

	dep, dest, progress := eng.VisualPosition(0, 0)
	if dep != 0 || dest != 2 || progress != 0 {
		t.Fatalf("VisualPosition = (%v, %v, %v), want (0, 2, 0)", dep, dest, progress)
	}
}
