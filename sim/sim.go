package sim

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gabemgem/citytwin/agent"
	"github.com/gabemgem/citytwin/behavior"
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/internal/logging"
	"github.com/gabemgem/citytwin/internal/observability"
	"github.com/gabemgem/citytwin/mobility"
	"github.com/gabemgem/citytwin/schedule"
	"github.com/gabemgem/citytwin/spatial"
)

const tracerName = "github.com/gabemgem/citytwin/sim"

// Below this many woken agents the intent phase runs inline; goroutine
// fan-out costs more than it saves.
const minParallelWoken = 64

// Message is one pending inter-agent message.
type Message struct {
	From    core.AgentID
	Payload []byte
}

// Sim is the tick orchestrator. It owns all simulation state and drives the
// phase loop each tick:
//
//  1. Arrivals — agents reaching their destination flip to stationary and
//     re-enter the wake queue via their activity plan.
//  2. Drain — remove this tick's ascending agent list from the wake queue.
//  3. Message delivery — pending messages for woken agents are handed to
//     OnMessage (sequential).
//  4. Intent collection — Replan (and OnContacts for stationary co-located
//     agents) for every woken agent; the only parallel phase. Workers share
//     the store and plans read-only and hold exclusive RNG streams.
//  5. Apply — walk the intents in ascending AgentID order and mutate the
//     wake queue, mobility state, and message buffer sequentially, which
//     makes results identical at any worker count.
//
// Create via Builder.
type Sim struct {
	// Config is the global run configuration.
	Config core.SimConfig

	// Clock tracks the current tick and maps ticks to wall time.
	Clock core.SimClock

	// Agents is the SoA agent state, read-only during the intent phase.
	Agents *agent.Store

	// Rngs is the per-agent deterministic RNG pool, separate from Agents so
	// workers can mutate disjoint streams while the store is shared.
	Rngs *agent.Rngs

	// Plans is the per-agent activity plans, indexed by AgentID.
	Plans []*schedule.ActivityPlan

	// WakeQueue maps future ticks to the agents to process then.
	WakeQueue *schedule.WakeQueue

	// Mobility routes TravelTo intents and tracks movement state.
	Mobility *mobility.Engine

	// Behavior is the application decision model.
	Behavior behavior.Model

	// Network is the road graph TravelTo intents are routed over.
	Network *spatial.RoadNetwork

	// messages holds pending messages keyed by recipient. Sends enqueue here
	// during the apply phase; entries are drained the next time the
	// recipient wakes.
	messages map[core.AgentID][]Message

	workers int
	log     logging.Logger
	metrics *observability.EngineCollector
}

// agentInputs is the data pre-collected for one woken agent before the
// (potentially parallel) intent phase, so that phase only reads immutable
// state.
type agentInputs struct {
	messages []Message
	node     core.NodeID
	contacts []core.AgentID
}

// Run processes every tick from the current tick up to (but not including)
// the configured end tick, invoking observer hooks at each boundary.
func (s *Sim) Run(ctx context.Context, observer Observer) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sim.run")
	span.SetAttributes(
		attribute.Int("agents", s.Agents.Count),
		attribute.Int64("total_ticks", int64(s.Config.TotalTicks)),
		attribute.Int64("seed", int64(s.Config.Seed)),
		attribute.Int("workers", s.workers),
	)
	defer span.End()

	s.log.Info(ctx, "simulation starting",
		logging.Int("agents", s.Agents.Count),
		logging.Any("total_ticks", s.Config.TotalTicks),
		logging.Int("workers", s.workers),
	)

	for s.Clock.CurrentTick < s.Config.EndTick() {
		s.step(ctx, observer)
	}
	observer.OnSimEnd(s.Clock.CurrentTick)

	s.log.Info(ctx, "simulation complete", logging.Any("final_tick", s.Clock.CurrentTick))
	return nil
}

// RunTicks processes exactly n ticks from the current position, ignoring the
// configured end tick. Useful for tests and incremental stepping.
func (s *Sim) RunTicks(ctx context.Context, n uint64, observer Observer) error {
	for range n {
		s.step(ctx, observer)
	}
	return nil
}

// PendingMessages is the undelivered message list for one agent. The
// returned slice is live engine state; do not mutate it.
func (s *Sim) PendingMessages(agent core.AgentID) []Message {
	return s.messages[agent]
}

// step runs one full tick, including observer dispatch, and advances the
// clock.
func (s *Sim) step(ctx context.Context, observer Observer) {
	now := s.Clock.CurrentTick
	start := time.Now()

	observer.OnTickStart(now)
	woken := s.processTick(ctx, now)
	observer.OnTickEnd(now, woken)

	if s.Config.OutputIntervalTicks > 0 && uint64(now)%s.Config.OutputIntervalTicks == 0 {
		observer.OnSnapshot(now, s.Mobility.Store, s.Agents)
	}

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start), woken, s.WakeQueue.Len())
	}
	s.Clock.Advance()
}

func (s *Sim) processTick(ctx context.Context, now core.Tick) int {
	// Phase 1: arrivals. Arriving agents teleport to their destination and
	// re-enter the wake queue at their plan's next wake tick.
	for _, arr := range s.Mobility.TickArrivals(now) {
		i := arr.Agent.Index()
		s.Agents.NodeID[i] = arr.Node
		s.Agents.TransportMode[i] = core.ModeNone
		if wake, ok := s.Plans[i].NextWakeTick(now); ok && wake > now {
			s.WakeQueue.Push(wake, arr.Agent)
			s.Agents.NextEventTick[i] = wake
		}
	}

	// Phase 2: drain. The list is ascending and duplicate-free by queue
	// construction, and stays untouched through phases 3-5.
	woken := s.WakeQueue.DrainTick(now)
	if len(woken) == 0 {
		return 0
	}

	// Record each woken agent's current activity before any hook runs, so
	// behaviors observe a consistent schedule state for this tick.
	for _, a := range woken {
		if act, ok := s.Plans[a.Index()].CurrentActivity(now); ok {
			s.Agents.CurrentActivity[a.Index()] = act.ActivityID
		}
	}

	// Rebuild the contact index at the tick boundary, then pre-collect each
	// woken agent's messages and contacts so the intent phase reads only
	// immutable data.
	contactIndex := s.buildContactIndex()
	inputs := make([]agentInputs, len(woken))
	for i, a := range woken {
		inputs[i].messages = s.messages[a]
		delete(s.messages, a)
		state := s.Mobility.Store.States[a.Index()]
		if !state.InTransit && state.DepartureNode != core.InvalidNode {
			atNode := contactIndex[state.DepartureNode]
			if len(atNode) > 1 {
				inputs[i].node = state.DepartureNode
				inputs[i].contacts = atNode
			}
		}
	}

	// Phase 3: message delivery (sequential). Messages were enqueued in
	// ascending sender order by the previous apply phases, so delivery order
	// is already stable by sender.
	msgIntents := make([][]behavior.Intent, len(woken))
	bctx := behavior.NewContext(now, s.Config.TickDurationSecs, s.Agents, s.Plans)
	for i, a := range woken {
		if len(inputs[i].messages) == 0 {
			continue
		}
		rng := s.Rngs.Get(a)
		for _, m := range inputs[i].messages {
			msgIntents[i] = append(msgIntents[i], s.Behavior.OnMessage(a, m.From, m.Payload, bctx, rng)...)
		}
	}

	// Phase 4: intent collection (parallelizable, read-only).
	intents := s.computeIntents(bctx, woken, inputs, msgIntents)

	// Phase 5: apply (sequential, ascending AgentID).
	for i, a := range woken {
		s.applyIntents(ctx, a, intents[i], now)
	}

	return len(woken)
}

// computeIntents runs Replan and OnContacts for every woken agent and
// returns the per-agent intent lists in drained (ascending) order, message
// intents first, each hook's own return order preserved.
//
// With more than one worker the woken list is split into contiguous chunks;
// each worker writes only its own output slots and touches only its own
// agents' RNG streams, yielded by the pool's batched exclusive borrow.
func (s *Sim) computeIntents(
	bctx *behavior.Context,
	woken []core.AgentID,
	inputs []agentInputs,
	msgIntents [][]behavior.Intent,
) [][]behavior.Intent {
	out := make([][]behavior.Intent, len(woken))

	collect := func(i int, a core.AgentID, rng *core.AgentRng) {
		list := msgIntents[i]
		list = append(list, s.Behavior.Replan(a, bctx, rng)...)
		if inputs[i].contacts != nil {
			list = append(list, s.Behavior.OnContacts(a, inputs[i].node, inputs[i].contacts, bctx, rng)...)
		}
		out[i] = list
	}

	workers := s.workers
	if workers <= 1 || len(woken) < minParallelWoken {
		for i, a := range woken {
			collect(i, a, s.Rngs.Get(a))
		}
		return out
	}
	if workers > len(woken) {
		workers = len(woken)
	}

	rngs := s.Rngs.Borrow(woken)
	chunk := (len(woken) + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < len(woken); lo += chunk {
		hi := min(lo+chunk, len(woken))
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				collect(i, woken[i], rngs[i])
			}
		}(lo, hi)
	}
	wg.Wait()
	return out
}

// applyIntents applies one agent's intents in the order the behavior
// returned them.
func (s *Sim) applyIntents(ctx context.Context, a core.AgentID, intents []behavior.Intent, now core.Tick) {
	for _, intent := range intents {
		switch intent.Kind {
		case behavior.IntentWakeAt:
			// Wakes at or before the current tick are dropped: an agent
			// cannot wake in the past, and same-tick wakes would loop.
			if intent.Tick > now {
				s.WakeQueue.Push(intent.Tick, a)
				s.Agents.NextEventTick[a.Index()] = intent.Tick
			}

		case behavior.IntentTravelTo:
			arrival, err := s.Mobility.BeginTravel(a, intent.Destination, intent.Mode, now, s.Config.TickDurationSecs, s.Network)
			if err != nil {
				// Routing and mobility failures are per-intent: drop the
				// intent, leave the agent where it is, keep the tick alive.
				s.log.Warn(ctx, "travel intent dropped",
					logging.String("agent", a.String()),
					logging.String("destination", intent.Destination.String()),
					logging.String("tick", now.String()),
					logging.String("error", err.Error()),
				)
				if s.metrics != nil {
					s.metrics.RoutingFailures.Inc()
				}
				continue
			}
			s.WakeQueue.Push(arrival, a)
			s.Agents.NodeID[a.Index()] = core.InvalidNode
			s.Agents.TransportMode[a.Index()] = intent.Mode
			s.Agents.NextEventTick[a.Index()] = arrival

		case behavior.IntentSendMessage:
			// Buffered for the recipient's next wake; the recipient is not
			// auto-woken.
			s.messages[intent.To] = append(s.messages[intent.To], Message{From: a, Payload: intent.Payload})
		}
	}
}

// buildContactIndex maps each node to the stationary, placed agents at it,
// each list ascending by construction of the scan. In-transit and unplaced
// agents are excluded. O(agent_count).
func (s *Sim) buildContactIndex() map[core.NodeID][]core.AgentID {
	index := make(map[core.NodeID][]core.AgentID)
	for i := range s.Mobility.Store.States {
		st := &s.Mobility.Store.States[i]
		if !st.InTransit && st.DepartureNode != core.InvalidNode {
			index[st.DepartureNode] = append(index[st.DepartureNode], core.AgentID(i))
		}
	}
	return index
}
