// Command citytwin runs a synthetic commuter scenario: a street grid, a
// population of agents with shift-staggered daily plans, and tabular output.
// It is the reference wiring of the engine; real deployments swap in their
// own network, plans, and behavior model.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gabemgem/citytwin/agent"
	"github.com/gabemgem/citytwin/core"
	"github.com/gabemgem/citytwin/internal/logging"
	"github.com/gabemgem/citytwin/internal/observability"
	"github.com/gabemgem/citytwin/output"
	"github.com/gabemgem/citytwin/schedule"
	"github.com/gabemgem/citytwin/sim"
	"github.com/gabemgem/citytwin/spatial"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file (overrides the timing flags)")
	agents := flag.Int("agents", 1024, "number of agents")
	days := flag.Uint64("days", 7, "simulated days (at 1-hour ticks)")
	seed := flag.Uint64("seed", 42, "master RNG seed")
	threads := flag.Int("threads", 0, "intent-phase worker count (0 = all cores)")
	gridSize := flag.Int("grid", 10, "street grid side length")
	outDir := flag.String("out", ".", "output directory")
	format := flag.String("format", "csv", "output format: csv or sqlite")
	snapshotInterval := flag.Uint64("snapshot-interval", 1, "snapshot every N ticks (0 disables)")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, log := logging.WithRunLogger(context.Background(), log)

	if err := run(ctx, log, runOptions{
		configPath:       *configPath,
		agents:           *agents,
		days:             *days,
		seed:             *seed,
		threads:          *threads,
		gridSize:         *gridSize,
		outDir:           *outDir,
		format:           *format,
		snapshotInterval: *snapshotInterval,
		metricsAddr:      *metricsAddr,
	}); err != nil {
		log.Error(ctx, "run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

type runOptions struct {
	configPath       string
	agents           int
	days             uint64
	seed             uint64
	threads          int
	gridSize         int
	outDir           string
	format           string
	snapshotInterval uint64
	metricsAddr      string
}

func run(ctx context.Context, log logging.Logger, opts runOptions) error {
	// ==== Configuration ====

	var cfg core.SimConfig
	if opts.configPath != "" {
		loaded, err := core.LoadConfigFile(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = core.DefaultConfig()
		cfg.TotalTicks = opts.days * 24
		cfg.Seed = opts.seed
		cfg.NumThreads = opts.threads
		cfg.OutputIntervalTicks = opts.snapshotInterval
	}

	// ==== Observability ====

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(opts.metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", opts.metricsAddr))
	}

	// ==== Scenario: grid network + commuter population ====

	network := buildGridNetwork(opts.gridSize, opts.gridSize)

	builder := agent.NewStoreBuilder(opts.agents, cfg.Seed)
	agent.WithComponent[HomeNode](builder)
	agent.WithComponent[WorkNode](builder)
	store, rngs := builder.Build()

	homes, _ := agent.ComponentMut[HomeNode](store.Components())
	works, _ := agent.ComponentMut[WorkNode](store.Components())

	// Scenario generation draws from a sim-level stream so the population
	// layout is part of the seeded, reproducible state.
	scenarioRng := core.NewSimRng(cfg.Seed)
	plans := make([]*schedule.ActivityPlan, opts.agents)
	positions := make([]core.NodeID, opts.agents)
	for i := range opts.agents {
		home := core.NodeID(scenarioRng.IntN(network.NodeCount()))
		work := core.NodeID(scenarioRng.IntN(network.NodeCount()))
		(*homes)[i] = HomeNode(home)
		(*works)[i] = WorkNode(work)
		positions[i] = home

		// Three shift groups: day, evening, night.
		plan, err := dailyPlan(uint32(i%3) * 8)
		if err != nil {
			return err
		}
		plans[i] = plan
	}

	// ==== Output ====

	var writer output.Writer
	switch opts.format {
	case "csv":
		writer, err = output.NewCSVWriter(opts.outDir)
	case "sqlite":
		writer, err = output.NewSQLiteWriter(opts.outDir, cfg.Seed)
	default:
		return fmt.Errorf("unknown output format %q (want csv or sqlite)", opts.format)
	}
	if err != nil {
		return fmt.Errorf("open %s writer: %w", opts.format, err)
	}
	observer := output.NewObserver(writer, cfg)

	// ==== Build and run ====

	s, err := sim.NewBuilder(cfg, store, rngs, CommuteBehavior{WalkProbability: 0.05}, spatial.DijkstraRouter{}).
		Plans(plans).
		Network(network).
		InitialPositions(positions).
		Logger(log).
		Metrics(collector).
		Build()
	if err != nil {
		return fmt.Errorf("build sim: %w", err)
	}

	if err := s.Run(ctx, observer); err != nil {
		return err
	}
	if err := observer.TakeError(); err != nil {
		return fmt.Errorf("output writer: %w", err)
	}
	return nil
}
