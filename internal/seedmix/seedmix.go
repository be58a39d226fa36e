// Package seedmix derives per-stream seeds from a small set of integer
// inputs using a fixed SplitMix64-style mixing function. It underlies every
// place this generator needs deterministic, non-overlapping RNG streams:
// the per-field subscriber bootstrap streams and the per-subscriber event
// streams. Mixing never touches wall-clock time or goroutine/thread
// identity.
package seedmix

// Mix combines a base seed with zero or more integer labels into a single
// derived int64 seed, suitable for math/rand.NewSource. The same inputs
// always produce the same output.
func Mix(base int64, labels ...int64) int64 {
	h := uint64(base) + 0x9E3779B97F4A7C15
	for _, l := range labels {
		h ^= uint64(l) + 0x9E3779B97F4A7C15 + (h << 6) + (h >> 2)
		h = splitmix64(h)
	}
	return int64(h)
}

// splitmix64 is the standard SplitMix64 finalizer: fast, well-mixed, and
// fully deterministic.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x ^= x >> 31
	return x
}
