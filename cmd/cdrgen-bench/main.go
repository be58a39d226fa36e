// Command cdrgen-bench measures event-synthesis and CSV-writer throughput
// against a small in-memory population, independent of the worker
// orchestrator and its sharding/I/O concerns. It is a benchmark/profiling
// harness, not part of the generator's correctness contract.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jihwankim/cdrgen/internal/config"
	"github.com/jihwankim/cdrgen/internal/events"
	"github.com/jihwankim/cdrgen/internal/population"
	"github.com/jihwankim/cdrgen/internal/seedmix"
	"github.com/jihwankim/cdrgen/internal/temporal"
	"github.com/jihwankim/cdrgen/internal/writer"
)

func main() {
	subs := flag.Int("subs", 5000, "synthetic population size")
	seconds := flag.Int("seconds", 3, "approximate run duration")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	cfg := config.Default()
	cfg.Population.Subscribers = *subs
	cfg.Cells.Count = 200

	fmt.Printf("bootstrapping %d subscribers...\n", *subs)
	pop := population.Bootstrap(cfg, *seed)

	loc, err := time.LoadLocation(cfg.Workload.TZ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load timezone: %v\n", err)
		os.Exit(1)
	}
	shaper := temporal.NewShaper(loc, cfg.Workload.Diurnal.Weekday, cfg.Workload.Diurnal.Weekend,
		cfg.Workload.Seasonality, cfg.Workload.SpecialDays)
	gen := events.NewGenerator(cfg)
	dc := shaper.NewDayContext(time.Now().In(loc).Truncate(24 * time.Hour))

	dir, err := os.MkdirTemp("", "cdrgen-bench-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkdir temp: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	w, err := writer.New(dir, "bench", 0, cfg.Workload.RotateBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open writer: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(seedmix.Mix(*seed, 0)))
	deadline := time.Now().Add(time.Duration(*seconds) * time.Second)

	var ev events.Event
	var count int
	var bytesWritten int64

	fmt.Printf("generating for ~%ds...\n", *seconds)
	for time.Now().Before(deadline) {
		for i := range pop.Subscribers {
			sub := &pop.Subscribers[i]
			if gen.Call(rng, &dc, loc, cfg.Workload.TZ, pop, sub, "", nil, &ev) {
				if err := w.Write(&ev); err == nil {
					count++
					bytesWritten += estimateRowBytes(&ev)
				}
			}
			if gen.SMS(rng, &dc, loc, cfg.Workload.TZ, pop, sub, "", nil, &ev) {
				if err := w.Write(&ev); err == nil {
					count++
					bytesWritten += estimateRowBytes(&ev)
				}
			}
			if gen.Data(rng, &dc, loc, cfg.Workload.TZ, pop, sub, "", nil, &ev) {
				if err := w.Write(&ev); err == nil {
					count++
					bytesWritten += estimateRowBytes(&ev)
				}
			}
			if time.Now().After(deadline) {
				break
			}
		}
	}
	if err := w.Finish(); err != nil {
		fmt.Fprintf(os.Stderr, "finish writer: %v\n", err)
	}

	elapsed := time.Since(deadline.Add(-time.Duration(*seconds) * time.Second)).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}
	fmt.Printf("%d events in %.2fs: %.0f events/sec, %.2f MB/sec\n",
		count, elapsed, float64(count)/elapsed, float64(bytesWritten)/elapsed/1e6)
}

// estimateRowBytes gives a rough CSV row size for the throughput report;
// it does not need writer's calibrated precision.
func estimateRowBytes(e *events.Event) int64 {
	return int64(len(e.Type) + len(e.MSISDNSrc) + len(e.MSISDNDst) + len(e.MCCMNC) + len(e.IMSI) + len(e.IMEI) + len(e.CellID) + 96)
}
