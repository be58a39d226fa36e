package distributions

import "math/rand"

// AliasTable is a precomputed weighted-categorical sampler (Vose's alias
// method): O(1) per draw after O(n) construction. Every event generator
// builds its tables once at construction and reuses them for every event,
// rather than rebuilding one inside the hot loop.
type AliasTable struct {
	prob  []float64
	alias []int
}

// NewAliasTable builds an AliasTable from non-negative weights. Weights
// need not already sum to 1; NewAliasTable normalizes them internally.
func NewAliasTable(weights []float64) *AliasTable {
	n := len(weights)
	t := &AliasTable{
		prob:  make([]float64, n),
		alias: make([]int, n),
	}
	if n == 0 {
		return t
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		// Degenerate input: fall back to a uniform table rather than
		// dividing by zero.
		for i := range t.prob {
			t.prob[i] = 1
		}
		return t
	}

	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		scaled[i] = w / total * float64(n)
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		t.prob[s] = scaled[s]
		t.alias[s] = l

		scaled[l] = scaled[l] + scaled[s] - 1
		if scaled[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	for _, l := range large {
		t.prob[l] = 1
	}
	for _, s := range small {
		t.prob[s] = 1
	}

	return t
}

// Sample draws an index in [0, n) with probability proportional to the
// weight it was constructed with.
func (t *AliasTable) Sample(rng *rand.Rand) int {
	n := len(t.prob)
	if n == 0 {
		return -1
	}
	i := rng.Intn(n)
	if rng.Float64() < t.prob[i] {
		return i
	}
	return t.alias[i]
}
