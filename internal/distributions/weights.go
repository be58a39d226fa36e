package distributions

import "sort"

// SortedWeights turns a name->weight map into parallel, key-sorted slices
// so that building an AliasTable from it is deterministic regardless of Go's
// randomized map iteration order.
func SortedWeights(w map[string]float64) (names []string, weights []float64) {
	names = make([]string, 0, len(w))
	for k := range w {
		names = append(names, k)
	}
	sort.Strings(names)
	weights = make([]float64, len(names))
	for i, k := range names {
		weights[i] = w[k]
	}
	return names, weights
}
