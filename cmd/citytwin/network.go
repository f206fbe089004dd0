package main

import (
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/spatial"
)

// buildGridNetwork builds a width x height street grid. Adjacent nodes are
// connected by bidirectional 500 m segments driven in 45 s, roughly a dense
// urban block pattern.
func buildGridNetwork(width, height int) *spatial.RoadNetwork {
	const (
		segmentLengthM  = 500.0
		segmentTravelMs = 45_000
		nodeSpacingDeg  = 0.005
	)

	b := spatial.WithCapacity(width*height, 4*width*height)
	for y := range height {
		for x := range width {
			b.AddNode(core.GeoPoint{
				Lat: float32(y) * nodeSpacingDeg,
				Lon: float32(x) * nodeSpacingDeg,
			})
		}
	}

	node := func(x, y int) core.NodeID { return core.NodeID(y*width + x) }
	for y := range height {
		for x := range width {
			if x+1 < width {
				b.AddRoad(node(x, y), node(x+1, y), segmentLengthM, segmentTravelMs)
			}
			if y+1 < height {
				b.AddRoad(node(x, y), node(x, y+1), segmentLengthM, segmentTravelMs)
			}
		}
	}
	return b.Build()
}
