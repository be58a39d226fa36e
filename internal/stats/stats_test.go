package stats

import "testing"

func TestReduceSumsAcrossShards(t *testing.T) {
	a := NewShardStats(0, "2025-01-01")
	a.AddEvent("CALL", 0, 0, 30)
	a.AddEvent("DATA", 1000, 500, 5)

	b := NewShardStats(1, "2025-01-01")
	b.AddEvent("SMS", 0, 0, 0)
	b.Failed = true
	b.FailureReason = "disk full"

	sum := Reduce("2025-01-01", []*ShardStats{a, b})
	if sum.Shards != 2 {
		t.Fatalf("expected 2 shards, got %d", sum.Shards)
	}
	if sum.Events["CALL"] != 1 || sum.Events["DATA"] != 1 || sum.Events["SMS"] != 1 {
		t.Fatalf("unexpected event totals: %+v", sum.Events)
	}
	if sum.BytesInTotal != 1000 || sum.BytesOutTotal != 500 {
		t.Fatalf("unexpected byte totals: in=%d out=%d", sum.BytesInTotal, sum.BytesOutTotal)
	}
	if sum.DurationSecTotal != 35 {
		t.Fatalf("unexpected duration total: %d", sum.DurationSecTotal)
	}
	if len(sum.FailedShards) != 1 || sum.FailedShards[0] != 1 {
		t.Fatalf("expected failed shard [1], got %v", sum.FailedShards)
	}
}

func TestReduceEmpty(t *testing.T) {
	sum := Reduce("2025-01-01", nil)
	if sum.Shards != 0 || sum.Events["CALL"] != 0 {
		t.Fatalf("expected zeroed summary, got %+v", sum)
	}
}
