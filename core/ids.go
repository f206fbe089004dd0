// Package core holds the identifier, time, and randomness primitives shared
// by every other package in the engine.
package core

import "fmt"

// Identifiers are thin integer wrappers so SoA arrays can be indexed directly
// (`arr[id.Index()]`) while keeping call sites type-safe. Each type reserves
// the all-bits-set value as an "unassigned" sentinel.

// AgentID indexes an agent in SoA storage. Max ~4.3 billion agents.
type AgentID uint32

// NodeID indexes a road-network node.
type NodeID uint32

// EdgeID indexes a directed road-network edge.
type EdgeID uint32

// ActivityID indexes an activity type in the application's activity registry.
// Using uint16 keeps schedule arrays compact.
type ActivityID uint16

const (
	InvalidAgent    AgentID    = ^AgentID(0)
	InvalidNode     NodeID     = ^NodeID(0)
	InvalidEdge     EdgeID     = ^EdgeID(0)
	InvalidActivity ActivityID = ^ActivityID(0)
)

// Index casts the ID to a slice index.
func (id AgentID) Index() int    { return int(id) }
func (id NodeID) Index() int     { return int(id) }
func (id EdgeID) Index() int     { return int(id) }
func (id ActivityID) Index() int { return int(id) }

func (id AgentID) String() string    { return fmt.Sprintf("agent(%d)", uint32(id)) }
func (id NodeID) String() string     { return fmt.Sprintf("node(%d)", uint32(id)) }
func (id EdgeID) String() string     { return fmt.Sprintf("edge(%d)", uint32(id)) }
func (id ActivityID) String() string { return fmt.Sprintf("activity(%d)", uint16(id)) }
