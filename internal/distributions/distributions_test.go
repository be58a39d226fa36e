package distributions

import (
	"math"
	"math/rand"
	"testing"
)

func TestPoissonZeroLambda(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if got := Poisson(rng, 0); got != 0 {
			t.Fatalf("Poisson(0) = %d, want 0", got)
		}
	}
}

func TestPoissonDeterministic(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		if x, y := Poisson(a, 12.5), Poisson(b, 12.5); x != y {
			t.Fatalf("same-seed draws diverged at %d: %d != %d", i, x, y)
		}
	}
}

func TestPoissonMeanNearLambda(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	const lambda = 40.0
	const n = 20000
	var sum int
	for i := 0; i < n; i++ {
		sum += Poisson(rng, lambda)
	}
	mean := float64(sum) / n
	if math.Abs(mean-lambda) > 1.0 {
		t.Fatalf("mean %.3f too far from lambda %.3f over %d draws", mean, lambda, n)
	}
}

func TestNormalTruncationRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5000; i++ {
		v := Normal(rng, 0, 1, -2, 2)
		if v < -2 || v > 2 {
			t.Fatalf("Normal escaped truncation range: %v", v)
		}
	}
}

func TestZipfWeightsSumToOne(t *testing.T) {
	w := ZipfWeights(10, 1.2)
	var sum float64
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("zipf weights sum to %v, want 1", sum)
	}
	for i := 1; i < len(w); i++ {
		if w[i] > w[i-1] {
			t.Fatalf("zipf weights not monotonically decreasing at %d", i)
		}
	}
}

func TestAliasTableDistribution(t *testing.T) {
	weights := []float64{0.1, 0.2, 0.7}
	table := NewAliasTable(weights)
	rng := rand.New(rand.NewSource(5))
	counts := make([]int, len(weights))
	const n = 100000
	for i := 0; i < n; i++ {
		counts[table.Sample(rng)]++
	}
	for i, w := range weights {
		got := float64(counts[i]) / n
		if math.Abs(got-w) > 0.02 {
			t.Fatalf("alias index %d: got frequency %.4f, want ~%.4f", i, got, w)
		}
	}
}

func TestAliasTableEmpty(t *testing.T) {
	table := NewAliasTable(nil)
	rng := rand.New(rand.NewSource(1))
	if got := table.Sample(rng); got != -1 {
		t.Fatalf("Sample on empty table = %d, want -1", got)
	}
}
