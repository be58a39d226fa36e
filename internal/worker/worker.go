// Package worker implements the deterministic sharded orchestration loop:
// contiguous index ranges, one RNG per subscriber derived from (seed, day
// ordinal, subscriber index), and per-shard event synthesis into the
// rotating writer. Seeding by subscriber index rather than by shard keeps
// the per-subscriber event multiset invariant to shard boundaries.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jihwankim/cdrgen/internal/config"
	"github.com/jihwankim/cdrgen/internal/events"
	"github.com/jihwankim/cdrgen/internal/history"
	"github.com/jihwankim/cdrgen/internal/logging"
	"github.com/jihwankim/cdrgen/internal/population"
	"github.com/jihwankim/cdrgen/internal/seedmix"
	"github.com/jihwankim/cdrgen/internal/stats"
	"github.com/jihwankim/cdrgen/internal/temporal"
	"github.com/jihwankim/cdrgen/internal/writer"
)

// Run bundles every read-only collaborator a day's shards need.
type Run struct {
	Cfg      *config.Config
	Pop      *population.Population
	Gen      *events.Generator
	Shaper   *temporal.Shaper
	Loc      *time.Location
	Store    *history.Store   // nil when no subscriber-history store is supplied
	KeyIMSIs []string         // Store lookup keys, one per subscriber index, when Store != nil
	Log      *logging.Logger
	OutDir   string
}

// RunDay shards Pop.Subscribers across workers, synthesizes CALL, SMS, and
// DATA events for date, and writes the day's CSV parts, per-shard stats,
// and the reduced day summary.
func RunDay(ctx context.Context, run *Run, date time.Time, dayOrdinal int) (stats.DaySummary, error) {
	dateStr := date.Format("2006-01-02")
	dayDir := filepath.Join(run.OutDir, dateStr)
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return stats.DaySummary{}, fmt.Errorf("create day directory %s: %w", dayDir, err)
	}

	n := len(run.Pop.Subscribers)
	ranges := Plan(n, run.Cfg.Workload.Workers)
	shardStats := make([]*stats.ShardStats, len(ranges))

	var wg sync.WaitGroup
	for s, rng := range ranges {
		s, rng := s, rng
		wg.Add(1)
		go func() {
			defer wg.Done()
			shardStats[s] = runShard(ctx, run, dayDir, dateStr, date, dayOrdinal, s, rng)
		}()
	}
	wg.Wait()

	for _, ss := range shardStats {
		if ss == nil {
			continue
		}
		path := filepath.Join(dayDir, fmt.Sprintf("stats_shard%03d.json", ss.Shard))
		if err := writeJSON(path, ss); err != nil {
			run.Log.Warn("failed to write shard stats", "shard", ss.Shard, "error", err.Error())
		}
	}

	summary := stats.Reduce(dateStr, shardStats)
	summaryPath := filepath.Join(dayDir, "summary.json")
	if err := writeJSON(summaryPath, summary); err != nil {
		return summary, fmt.Errorf("write day summary %s: %w", summaryPath, err)
	}
	return summary, nil
}

// runShard synthesizes every event for one shard's subscriber range and
// never returns an error: an I/O failure is recorded in the shard's own
// stats and the shard stops, but its peers (run concurrently by RunDay)
// are unaffected.
func runShard(ctx context.Context, run *Run, dayDir, dateStr string, date time.Time, dayOrdinal, shard int, rng Range) *stats.ShardStats {
	ss := stats.NewShardStats(shard, dateStr)
	shardLog := run.Log.WithField("shard", shard).WithField("day", dateStr)

	w, err := writer.New(dayDir, dateStr, shard, run.Cfg.Workload.RotateBytes)
	if err != nil {
		ss.Failed = true
		ss.FailureReason = err.Error()
		shardLog.Error("failed to open writer", "error", err.Error())
		return ss
	}

	dc := run.Shaper.NewDayContext(date)
	var ev events.Event

	for idx := rng.Lo; idx < rng.Hi; idx++ {
		if ctx.Err() != nil {
			break
		}
		sub := &run.Pop.Subscribers[idx]
		lookupKey := ""
		if run.Store != nil && idx < len(run.KeyIMSIs) {
			lookupKey = run.KeyIMSIs[idx]
		}

		// Seeded per subscriber index, not sequentially within the shard's
		// stream: this keeps the per-subscriber event multiset invariant to
		// shard boundaries, so changing --workers only reassigns which part
		// file a subscriber's events land in, never what gets generated.
		src := rand.New(rand.NewSource(seedmix.Mix(run.Cfg.Workload.Seed, int64(dayOrdinal), int64(idx))))

		if err := emit(w, ss, src, &dc, run, sub, lookupKey, &ev, run.Cfg.Workload.Rates.Call, callKind); err != nil {
			ss.Failed = true
			ss.FailureReason = err.Error()
			shardLog.Error("write failed", "error", err.Error())
			break
		}
		if err := emit(w, ss, src, &dc, run, sub, lookupKey, &ev, run.Cfg.Workload.Rates.SMS, smsKind); err != nil {
			ss.Failed = true
			ss.FailureReason = err.Error()
			shardLog.Error("write failed", "error", err.Error())
			break
		}
		if err := emit(w, ss, src, &dc, run, sub, lookupKey, &ev, run.Cfg.Workload.Rates.Data, dataKind); err != nil {
			ss.Failed = true
			ss.FailureReason = err.Error()
			shardLog.Error("write failed", "error", err.Error())
			break
		}
	}

	if err := w.Finish(); err != nil && !ss.Failed {
		ss.Failed = true
		ss.FailureReason = err.Error()
		shardLog.Error("failed to finish writer", "error", err.Error())
	}
	return ss
}

// kind identifies which of the three generators emit should invoke.
type kind int

const (
	callKind kind = iota
	smsKind
	dataKind
)

// emit samples the Poisson event count for kind, synthesizes and writes
// each event, and updates ss. It returns only I/O errors (a generator
// declining an event due to a missing history snapshot is not an error).
func emit(w *writer.Writer, ss *stats.ShardStats, rng *rand.Rand, dc *temporal.DayContext, run *Run, sub *population.Subscriber, lookupKey string, ev *events.Event, lambda float64, k kind) error {
	count := dc.SampleEventCount(rng, lambda)
	for i := 0; i < count; i++ {
		var ok bool
		switch k {
		case callKind:
			ok = run.Gen.Call(rng, dc, run.Loc, run.Cfg.Workload.TZ, run.Pop, sub, lookupKey, run.Store, ev)
		case smsKind:
			ok = run.Gen.SMS(rng, dc, run.Loc, run.Cfg.Workload.TZ, run.Pop, sub, lookupKey, run.Store, ev)
		case dataKind:
			ok = run.Gen.Data(rng, dc, run.Loc, run.Cfg.Workload.TZ, run.Pop, sub, lookupKey, run.Store, ev)
		}
		if !ok {
			continue
		}
		if err := w.Write(ev); err != nil {
			return err
		}
		ss.AddEvent(ev.Type, ev.DataBytesIn, ev.DataBytesOut, ev.DurationSec)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
