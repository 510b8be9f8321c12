// Package prngstream derives independent, reproducible PRNG streams from a
// single master seed, so parallel population construction and breeding stay
// deterministic for a given seed.
package prngstream

import "math/rand"

// Master derives deterministic child streams from one seed.
type Master struct {
	seed int64
}

// NewMaster creates a Master from a seed.
func NewMaster(seed int64) *Master {
	return &Master{seed: seed}
}

// Child returns a *rand.Rand seeded deterministically from the master seed
// and streamID, so concurrent callers (e.g. one goroutine per candidate
// being built or evaluated) never share or race on a single source, yet the
// same (seed, streamID) pair always reproduces the same stream.
func (m *Master) Child(streamID uint64) *rand.Rand {
	return rand.New(rand.NewSource(splitmix(uint64(m.seed), streamID)))
}

// splitmix combines a seed and a stream id into a single well-distributed
// int64 seed using the SplitMix64 finalizer, avoiding the correlation that
// plain addition of nearby stream IDs would introduce.
func splitmix(seed, streamID uint64) int64 {
	z := seed + streamID*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return int64(z)
}
