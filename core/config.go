package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

var (
	ErrZeroTickDuration = errors.New("tick_duration_secs must be > 0")
	ErrZeroTotalTicks   = errors.New("total_ticks must be > 0")
)

// SimConfig is the top-level simulation configuration, typically loaded from
// a YAML file by the application and passed to the sim builder.
type SimConfig struct {
	// Unix timestamp for tick 0 (e.g. a Monday 00:00 local time).
	StartUnixSecs int64 `yaml:"start_unix_secs"`

	// Seconds per tick. Default: 3600 (1 simulated hour).
	TickDurationSecs uint32 `yaml:"tick_duration_secs"`

	// Total ticks to simulate. For 365 days at 1 tick/hour: 365 * 24 = 8760.
	TotalTicks uint64 `yaml:"total_ticks"`

	// Master RNG seed. The same seed always produces identical results.
	Seed uint64 `yaml:"seed"`

	// Worker count for the parallel intent phase. 0 means all logical cores.
	NumThreads int `yaml:"num_threads"`

	// Write a snapshot every N ticks. 0 disables snapshots.
	OutputIntervalTicks uint64 `yaml:"output_interval_ticks"`
}

// DefaultConfig returns a config with 1-hour ticks and snapshots disabled.
// Callers fill in TotalTicks and Seed.
func DefaultConfig() SimConfig {
	return SimConfig{TickDurationSecs: 3600}
}

// EndTick is the tick at which the simulation ends (exclusive upper bound).
func (c SimConfig) EndTick() Tick { return Tick(c.TotalTicks) }

// MakeClock constructs a SimClock pre-configured for this run.
func (c SimConfig) MakeClock() SimClock {
	return NewSimClock(c.StartUnixSecs, c.TickDurationSecs)
}

// Workers resolves NumThreads to a concrete worker count.
func (c SimConfig) Workers() int {
	if c.NumThreads > 0 {
		return c.NumThreads
	}
	return runtime.NumCPU()
}

// Validate reports the first configuration error, or nil.
func (c SimConfig) Validate() error {
	if c.TickDurationSecs == 0 {
		return ErrZeroTickDuration
	}
	if c.TotalTicks == 0 {
		return ErrZeroTotalTicks
	}
	return nil
}

// LoadConfig reads a YAML SimConfig and validates it.
func LoadConfig(r io.Reader) (SimConfig, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return SimConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return SimConfig{}, err
	}
	return cfg, nil
}

// LoadConfigFile is LoadConfig over a file path.
func LoadConfigFile(path string) (SimConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return SimConfig{}, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()
	return LoadConfig(f)
}
