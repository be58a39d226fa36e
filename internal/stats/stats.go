// Package stats defines the per-shard counters accumulated during
// generation and the per-day summary they reduce into.
package stats

// ShardStats accumulates counters for one shard's run over one day. It is
// owned exclusively by its worker — no locking required.
type ShardStats struct {
	Shard            int            `json:"shard"`
	Day              string         `json:"day"`
	Events           map[string]int `json:"events"`
	BytesInTotal     int64          `json:"bytes_in_total"`
	BytesOutTotal    int64          `json:"bytes_out_total"`
	DurationSecTotal int64          `json:"duration_sec_total"`
	Failed           bool           `json:"failed"`
	FailureReason    string         `json:"failure_reason,omitempty"`
}

// NewShardStats returns a zeroed ShardStats ready to accumulate.
func NewShardStats(shard int, day string) *ShardStats {
	return &ShardStats{
		Shard: shard,
		Day:   day,
		Events: map[string]int{
			"CALL": 0,
			"SMS":  0,
			"DATA": 0,
		},
	}
}

// AddEvent records one emitted event of kind eventType with its byte and
// duration contributions (0 for fields that don't apply to eventType).
func (s *ShardStats) AddEvent(eventType string, bytesIn, bytesOut, durationSec int64) {
	s.Events[eventType]++
	s.BytesInTotal += bytesIn
	s.BytesOutTotal += bytesOut
	s.DurationSecTotal += durationSec
}

// DaySummary is the single-threaded reducer's output for one day.
type DaySummary struct {
	Day              string         `json:"day"`
	Shards           int            `json:"shards"`
	Events           map[string]int `json:"events"`
	BytesInTotal     int64          `json:"bytes_in_total"`
	BytesOutTotal    int64          `json:"bytes_out_total"`
	DurationSecTotal int64          `json:"duration_sec_total"`
	FailedShards     []int          `json:"failed_shards,omitempty"`
}

// Reduce merges a day's per-shard stats into one DaySummary. It is a pure
// function run single-threaded on already-finished shard results.
func Reduce(day string, shards []*ShardStats) DaySummary {
	sum := DaySummary{
		Day:    day,
		Shards: len(shards),
		Events: map[string]int{"CALL": 0, "SMS": 0, "DATA": 0},
	}
	for _, s := range shards {
		if s == nil {
			continue
		}
		for k, v := range s.Events {
			sum.Events[k] += v
		}
		sum.BytesInTotal += s.BytesInTotal
		sum.BytesOutTotal += s.BytesOutTotal
		sum.DurationSecTotal += s.DurationSecTotal
		if s.Failed {
			sum.FailedShards = append(sum.FailedShards, s.Shard)
		}
	}
	return sum
}
