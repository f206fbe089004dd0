package core

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	yml := `
start_unix_secs: 1700000000
tick_duration_secs: 1800
total_ticks: 96
seed: 42
num_threads: 4
output_interval_ticks: 24
`
	cfg, err := LoadConfig(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TickDurationSecs != 1800 || cfg.TotalTicks != 96 || cfg.Seed != 42 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Workers() != 4 {
		t.Fatalf("Workers() = %d, want 4", cfg.Workers())
	}
	if cfg.EndTick() != Tick(96) {
		t.Fatalf("EndTick() = %v, want T96", cfg.EndTick())
	}
}

func TestLoadConfigDefaultsTickDuration(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("total_ticks: 10\nseed: 1\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TickDurationSecs != 3600 {
		t.Fatalf("TickDurationSecs = %d, want default 3600", cfg.TickDurationSecs)
	}
}

func TestLoadConfigRejectsZeroTickDuration(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("tick_duration_secs: 0\ntotal_ticks: 10\n"))
	if !errors.Is(err, ErrZeroTickDuration) {
		t.Fatalf("err = %v, want ErrZeroTickDuration", err)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("total_ticks: 10\nbogus_field: 1\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateRejectsZeroTotalTicks(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrZeroTotalTicks) {
		t.Fatalf("err = %v, want ErrZeroTotalTicks", err)
	}
}
