package output

import (
	"github.com/gabemgem/citytwin/agent"
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/mobility"
	"github.com/gabemgem/citytwin/sim"
)

// Observer bridges sim.Observer to a Writer backend.
//
// Observer hooks have no return value, so write errors are stored in a
// buffered slot; after the run completes, check with TakeError. Only the
// first error is kept.
type Observer struct {
	sim.BaseObserver

	writer    Writer
	clock     core.SimClock
	lastError error
}

// NewObserver creates an observer backed by writer, using config for
// wall-clock conversion.
func NewObserver(writer Writer, config core.SimConfig) *Observer {
	return &Observer{
		writer: writer,
		clock:  config.MakeClock(),
	}
}

// TakeError returns and clears the stored write error, if any.
func (o *Observer) TakeError() error {
	err := o.lastError
	o.lastError = nil
	return err
}

// OnTickEnd writes one tick summary row.
func (o *Observer) OnTickEnd(tick core.Tick, woken int) {
	o.storeErr(o.writer.WriteTickSummary(TickSummaryRow{
		Tick:         uint64(tick),
		UnixTimeSecs: o.clock.UnixSecsAt(tick),
		WokenAgents:  uint64(woken),
	}))
}

// OnSnapshot writes one snapshot row per agent.
func (o *Observer) OnSnapshot(tick core.Tick, mob *mobility.Store, agents *agent.Store) {
	if agents.Count == 0 {
		return
	}
	rows := make([]AgentSnapshotRow, agents.Count)
	for i := range agents.Count {
		state := mob.States[i]
		dest := uint32(core.InvalidNode)
		if state.InTransit {
			dest = uint32(state.DestinationNode)
		}
		rows[i] = AgentSnapshotRow{
			AgentID:         uint32(i),
			Tick:            uint64(tick),
			DepartureNode:   uint32(state.DepartureNode),
			InTransit:       state.InTransit,
			DestinationNode: dest,
		}
	}
	o.storeErr(o.writer.WriteSnapshots(rows))
}

// OnSimEnd flushes and closes the backend.
func (o *Observer) OnSimEnd(core.Tick) {
	o.storeErr(o.writer.Finish())
}

func (o *Observer) storeErr(err error) {
	if err != nil && o.lastError == nil {
		o.lastError = err
	}
}
