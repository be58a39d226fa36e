// Package distributions implements the pure sampling primitives used by the
// temporal shaper and event generators: Poisson, log-normal, truncated
// normal, Zipf-like contact weights, and a precomputed alias table for
// weighted categorical draws. Every sampler is a deterministic function of
// the supplied *rand.Rand — reseeding with the same value reproduces the
// same sequence bit-for-bit.
package distributions

import (
	"math"
	"math/rand"
)

// Poisson draws a Poisson(lambda)-distributed integer. It sums exponential
// interarrival times in log-space (the log-domain form of Knuth's method),
// which stays exact for small lambda and numerically stable — no
// underflow from multiplying many small probabilities — for lambda up to a
// few hundred.
func Poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := -lambda
	k := 0
	p := 0.0
	for {
		k++
		p += math.Log(rng.Float64())
		if p <= l {
			return k - 1
		}
	}
}

// LogNormal draws exp(N(mu, sigma)).
func LogNormal(rng *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(rng.NormFloat64()*sigma + mu)
}

// Normal draws a Normal(mu, sigma) value truncated to [min, max] by
// rejection sampling. A bounded attempt count guards against pathological
// configurations (min >= max returns min; after 64 rejected draws mu is
// returned, clamped to the range) without ever allocating.
func Normal(rng *rand.Rand, mu, sigma, min, max float64) float64 {
	if min >= max {
		return min
	}
	for i := 0; i < 64; i++ {
		v := rng.NormFloat64()*sigma + mu
		if v >= min && v <= max {
			return v
		}
	}
	return math.Min(math.Max(mu, min), max)
}

// ZipfWeights returns k weights proportional to 1/(i+1)^s, normalized to
// sum to 1 — used to build contact-pool weight vectors.
func ZipfWeights(k int, s float64) []float64 {
	if k <= 0 {
		return nil
	}
	w := make([]float64, k)
	var total float64
	for i := 0; i < k; i++ {
		w[i] = 1.0 / math.Pow(float64(i+1), s)
		total += w[i]
	}
	for i := range w {
		w[i] /= total
	}
	return w
}
