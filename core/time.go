package core

import "fmt"

// Tick is an absolute simulation tick counter, starting at 0.
//
// Time is canonically integer ticks so all schedule arithmetic is exact; the
// mapping to wall-clock seconds lives in SimClock:
//
//	wall_time = start_unix_secs + tick * tick_duration_secs
type Tick uint64

func (t Tick) String() string { return fmt.Sprintf("T%d", uint64(t)) }

// SimClock converts between tick counts and Unix wall-clock seconds.
//
// It is cheap to copy and intentionally holds no heap data. The tick loop
// advances CurrentTick once per iteration; components that need wall time
// derive it on demand.
type SimClock struct {
	// Unix timestamp (seconds since epoch) of tick 0.
	StartUnixSecs int64
	// How many real seconds one tick represents.
	TickDurationSecs uint32
	// The current tick, advanced by Advance each iteration.
	CurrentTick Tick
}

// NewSimClock creates a clock at tick 0.
func NewSimClock(startUnixSecs int64, tickDurationSecs uint32) SimClock {
	return SimClock{
		StartUnixSecs:    startUnixSecs,
		TickDurationSecs: tickDurationSecs,
	}
}

// Advance moves the clock forward by one tick.
func (c *SimClock) Advance() { c.CurrentTick++ }

// ElapsedSecs is the simulated seconds since tick 0.
func (c SimClock) ElapsedSecs() int64 {
	return int64(c.CurrentTick) * int64(c.TickDurationSecs)
}

// CurrentUnixSecs is the Unix timestamp corresponding to CurrentTick.
func (c SimClock) CurrentUnixSecs() int64 {
	return c.StartUnixSecs + c.ElapsedSecs()
}

// UnixSecsAt is the Unix timestamp corresponding to an arbitrary tick.
func (c SimClock) UnixSecsAt(t Tick) int64 {
	return c.StartUnixSecs + int64(t)*int64(c.TickDurationSecs)
}

// TicksForSecs is the number of ticks spanning secs seconds, rounded up so an
// agent is never early.
func (c SimClock) TicksForSecs(secs uint64) uint64 {
	d := uint64(c.TickDurationSecs)
	return (secs + d - 1) / d
}

// ElapsedDHM breaks the elapsed time into (day, hour, minute) components from
// sim start. Useful for human-readable logging without a datetime library.
func (c SimClock) ElapsedDHM() (days uint64, hours, minutes uint32) {
	total := uint64(c.ElapsedSecs())
	days = total / 86_400
	hours = uint32((total % 86_400) / 3_600)
	minutes = uint32((total % 3_600) / 60)
	return days, hours, minutes
}

func (c SimClock) String() string {
	d, h, m := c.ElapsedDHM()
	return fmt.Sprintf("%s (day %d %02d:%02d)", c.CurrentTick, d, h, m)
}
