package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jihwankim/cdrgen/internal/config"
)

// registerFlags declares the documented flag set. Every flag carries a
// placeholder default here (its zero value, or -1 for --workers and the
// --mo-share-* flags, where 0 is meaningful); applyFlags only overlays a flag onto
// cfg when the user actually set it, so an unset flag never clobbers a
// value loaded from --config.
func registerFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.String("config", "", "path to a YAML config file overlaid onto the compiled defaults")

	f.Int("subs", 0, "number of subscribers (population.subscribers)")
	f.String("start", "", "first day to generate, YYYY-MM-DD (workload.start_date)")
	f.Int("days", 0, "number of days to generate (workload.days)")
	f.String("out", "", "output root directory (output.root)")
	f.Int64("seed", 0, "base RNG seed (workload.seed)")
	f.Int("workers", -1, "shard count; 0 or unset uses the detected CPU count (workload.workers)")
	f.Int64("rotate-bytes", 0, "approximate per-part CSV size before rotation (workload.rotate_bytes)")
	f.String("tz", "", "IANA timezone for local-time shaping (workload.tz)")

	f.Int("cells", 0, "cell tower count (cells.count)")
	f.String("cell-center", "", "cell catalog disk center as LAT,LON (cells.center_lat/center_lon)")
	f.Float64("cell-radius-km", 0, "cell catalog radius in km (cells.radius_km)")

	f.Float64("mo-share-call", -1, "fraction of calls that are mobile-originated (workload.mo_share_call)")
	f.Float64("mo-share-sms", -1, "fraction of SMS that are mobile-originated (workload.mo_share_sms)")

	f.String("subscriber-db", "", "path to a subscriber-history CSV used to resolve live identities")
	f.String("generate-db", "", "write a synthetic subscriber-history CSV to this path and exit")
	f.Int("db-size", 0, "number of subscriber lines for --generate-db (database.db_size)")
	f.Int("db-history-days", 0, "history window in days for --generate-db (database.db_history_days)")
	f.String("validate-db", "", "validate the subscriber-history CSV at this path and exit")

	f.Bool("cleanup-after-archive", false, "delete per-day CSV/stats files once their archive is written")
	f.String("stop-file", "", "path polled for emergency cancellation (empty disables)")

	f.String("log-level", "", "debug, info, warn, or error")
	f.String("log-format", "", "text or json")
}

// parseCellCenter parses the "LAT,LON" form of --cell-center.
func parseCellCenter(s string) (lat, lon float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("--cell-center must be LAT,LON, got %q", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("--cell-center latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("--cell-center longitude: %w", err)
	}
	return lat, lon, nil
}

// applyFlags overlays every flag the user explicitly set onto cfg. Flags
// left at their defaults are ignored, so layering is: compiled defaults,
// then --config YAML, then explicit CLI flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := flags.Changed

	if changed("subs") {
		v, _ := flags.GetInt("subs")
		cfg.Population.Subscribers = v
	}
	if changed("start") {
		v, _ := flags.GetString("start")
		cfg.Workload.StartDate = v
	}
	if changed("days") {
		v, _ := flags.GetInt("days")
		cfg.Workload.Days = v
	}
	if changed("out") {
		v, _ := flags.GetString("out")
		cfg.Output.Root = v
	}
	if changed("seed") {
		v, _ := flags.GetInt64("seed")
		cfg.Workload.Seed = v
	}
	if changed("workers") {
		v, _ := flags.GetInt("workers")
		cfg.Workload.Workers = v
	}
	if changed("rotate-bytes") {
		v, _ := flags.GetInt64("rotate-bytes")
		cfg.Workload.RotateBytes = v
	}
	if changed("tz") {
		v, _ := flags.GetString("tz")
		cfg.Workload.TZ = v
	}
	if changed("cells") {
		v, _ := flags.GetInt("cells")
		cfg.Cells.Count = v
	}
	if changed("cell-center") {
		v, _ := flags.GetString("cell-center")
		lat, lon, err := parseCellCenter(v)
		if err != nil {
			return err
		}
		cfg.Cells.CenterLat = lat
		cfg.Cells.CenterLon = lon
	}
	if changed("cell-radius-km") {
		v, _ := flags.GetFloat64("cell-radius-km")
		cfg.Cells.RadiusKM = v
	}
	if changed("mo-share-call") {
		v, _ := flags.GetFloat64("mo-share-call")
		cfg.Workload.MOShareCall = v
	}
	if changed("mo-share-sms") {
		v, _ := flags.GetFloat64("mo-share-sms")
		cfg.Workload.MOShareSMS = v
	}
	if changed("subscriber-db") {
		v, _ := flags.GetString("subscriber-db")
		cfg.Database.SubscriberDBPath = v
	}
	if changed("generate-db") {
		v, _ := flags.GetString("generate-db")
		cfg.Database.GenerateDBPath = v
	}
	if changed("db-size") {
		v, _ := flags.GetInt("db-size")
		cfg.Database.DBSize = v
	}
	if changed("db-history-days") {
		v, _ := flags.GetInt("db-history-days")
		cfg.Database.DBHistoryDays = v
	}
	if changed("validate-db") {
		v, _ := flags.GetString("validate-db")
		cfg.Database.SubscriberDBPath = v
		cfg.Database.ValidateDB = true
	}
	if changed("cleanup-after-archive") {
		v, _ := flags.GetBool("cleanup-after-archive")
		cfg.Output.CleanupAfterArchive = v
	}
	if changed("log-level") {
		v, _ := flags.GetString("log-level")
		cfg.Framework.LogLevel = v
	}
	if changed("log-format") {
		v, _ := flags.GetString("log-format")
		cfg.Framework.LogFormat = v
	}
	return nil
}
