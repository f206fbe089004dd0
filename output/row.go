// Package output turns simulation observer callbacks into tabular rows and
// writes them through pluggable backends (CSV files, SQLite).
package output

// AgentSnapshotRow is one agent's mobility state at a given tick.
type AgentSnapshotRow struct {
	AgentID uint32
	Tick    uint64

	// DepartureNode is the node the agent is at, or departed from while in
	// transit. 0xFFFFFFFF means the agent was never placed on the network.
	DepartureNode uint32

	InTransit bool

	// DestinationNode is the node the agent is heading to while in transit;
	// 0xFFFFFFFF when stationary.
	DestinationNode uint32
}

// TickSummaryRow is the summary statistics for one simulation tick.
type TickSummaryRow struct {
	Tick         uint64
	UnixTimeSecs int64
	WokenAgents  uint64
}
