package core

import "math/rand/v2"

// mixingConstant is the 64-bit fractional part of the golden ratio. It spreads
// consecutive agent IDs uniformly across the seed space, so:
//
//   - agents never share RNG state (no contention, no ordering dependency);
//   - appending agents does not disturb the seeds of existing ones, keeping
//     runs reproducible as populations grow.
const mixingConstant uint64 = 0x9e3779b97f4a7c15

// AgentRng is a deterministic per-agent random stream backed by a PCG
// generator (128 bits of state).
//
// Create one per agent at simulation init and store them in a pool parallel
// to the SoA arrays. A stream must only ever be used by the goroutine that
// currently holds exclusive access to its agent.
type AgentRng struct {
	rnd *rand.Rand
}

// NewAgentRng seeds a stream deterministically from the run's global seed and
// an agent ID.
func NewAgentRng(globalSeed uint64, agent AgentID) *AgentRng {
	seed := globalSeed ^ uint64(agent)*mixingConstant
	return &AgentRng{rnd: rand.New(rand.NewPCG(seed, seed^mixingConstant))}
}

// Uint64 returns the next raw 64-bit value.
func (r *AgentRng) Uint64() uint64 { return r.rnd.Uint64() }

// IntN returns a uniform int in [0, n). Panics if n <= 0.
func (r *AgentRng) IntN(n int) int { return r.rnd.IntN(n) }

// Float64 returns a uniform float64 in [0, 1).
func (r *AgentRng) Float64() float64 { return r.rnd.Float64() }

// Bool returns true with probability p (clamped to [0, 1]).
func (r *AgentRng) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rnd.Float64() < p
}

// Shuffle performs an in-place Fisher-Yates shuffle of n elements via swap.
func (r *AgentRng) Shuffle(n int, swap func(i, j int)) {
	r.rnd.Shuffle(n, swap)
}

// Choose returns a uniformly chosen element of s. The second return is false
// if s is empty.
func Choose[T any](r *AgentRng, s []T) (T, bool) {
	if len(s) == 0 {
		var zero T
		return zero, false
	}
	return s[r.IntN(len(s))], true
}

// SimRng is a simulation-level stream for global operations (exogenous
// events, scenario generation). Use only in single-threaded contexts; for
// parallel randomness derive one Child per worker.
type SimRng struct {
	rnd *rand.Rand
}

// NewSimRng seeds a simulation-level stream.
func NewSimRng(seed uint64) *SimRng {
	return &SimRng{rnd: rand.New(rand.NewPCG(seed, seed^mixingConstant))}
}

// Child derives a deterministic child stream with a different seed offset.
func (r *SimRng) Child(offset uint64) *SimRng {
	return NewSimRng(r.rnd.Uint64() ^ offset*mixingConstant)
}

func (r *SimRng) Uint64() uint64   { return r.rnd.Uint64() }
func (r *SimRng) IntN(n int) int   { return r.rnd.IntN(n) }
func (r *SimRng) Float64() float64 { return r.rnd.Float64() }

// Bool returns true with probability p (clamped to [0, 1]).
func (r *SimRng) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rnd.Float64() < p
}
