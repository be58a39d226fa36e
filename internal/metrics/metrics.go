// Package metrics exports each day's run as Prometheus text-exposition
// output. There is no HTTP listener: the exporter writes directly to a
// `metrics.prom` file, for textfile-collector style consumption without
// any network I/O.
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/jihwankim/cdrgen/internal/stats"
)

// Exporter owns one process-wide registry for the run's event, byte,
// duration, and shard-failure counters.
type Exporter struct {
	registry      *prometheus.Registry
	eventsTotal   *prometheus.CounterVec
	bytesInTotal  prometheus.Counter
	bytesOutTotal prometheus.Counter
	durationTotal prometheus.Counter
	shardFailures *prometheus.CounterVec
}

// NewExporter builds a fresh registry and registers every metric.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdrgen_events_total",
			Help: "Total synthesized events, by type and day.",
		}, []string{"type", "day"}),
		bytesInTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdrgen_bytes_in_total",
			Help: "Total DATA bytes_in synthesized.",
		}),
		bytesOutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdrgen_bytes_out_total",
			Help: "Total DATA bytes_out synthesized.",
		}),
		durationTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdrgen_duration_seconds_total",
			Help: "Total CALL/DATA duration synthesized, in seconds.",
		}),
		shardFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdrgen_shard_failures_total",
			Help: "Shard failures, by shard index.",
		}, []string{"shard"}),
	}
	e.registry.MustRegister(e.eventsTotal, e.bytesInTotal, e.bytesOutTotal, e.durationTotal, e.shardFailures)
	return e
}

// Observe sets the exporter's counters from one day's summary. Counters
// are cumulative for the process, so a multi-day run's metrics.prom
// reflects the run so far, not just one day.
func (e *Exporter) Observe(day string, summary stats.DaySummary) {
	for eventType, n := range summary.Events {
		e.eventsTotal.WithLabelValues(eventType, day).Add(float64(n))
	}
	e.bytesInTotal.Add(float64(summary.BytesInTotal))
	e.bytesOutTotal.Add(float64(summary.BytesOutTotal))
	e.durationTotal.Add(float64(summary.DurationSecTotal))
	for _, shard := range summary.FailedShards {
		e.shardFailures.WithLabelValues(fmt.Sprintf("%d", shard)).Inc()
	}
}

// WriteTextfile gathers the registry and writes it in Prometheus text
// exposition format to path (`<out>/<day>/metrics.prom`), for textfile-
// collector style consumption with no network listener involved.
func (e *Exporter) WriteTextfile(path string) error {
	mfs, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file %s: %w", path, err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
