package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jihwankim/cdrgen/internal/archive"
	"github.com/jihwankim/cdrgen/internal/config"
	"github.com/jihwankim/cdrgen/internal/emergency"
	"github.com/jihwankim/cdrgen/internal/events"
	"github.com/jihwankim/cdrgen/internal/history"
	"github.com/jihwankim/cdrgen/internal/logging"
	"github.com/jihwankim/cdrgen/internal/metrics"
	"github.com/jihwankim/cdrgen/internal/population"
	"github.com/jihwankim/cdrgen/internal/temporal"
	"github.com/jihwankim/cdrgen/internal/worker"
)

// dbEpoch anchors --generate-db's synthetic history when --start is not
// also given, so omitting --start still produces a fixed, reproducible
// base date.
var dbEpoch = time.Unix(0, 0).UTC()

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.LoadYAML(cfg, path); err != nil {
			return configError(err)
		}
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return configError(err)
	}

	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	log := logging.New(logging.Config{
		Level:  logging.Level(cfg.Framework.LogLevel),
		Format: logging.Format(cfg.Framework.LogFormat),
		Output: os.Stdout,
	})

	switch {
	case cfg.Database.GenerateDBPath != "":
		return runGenerateDB(cfg, log)
	case cfg.Database.ValidateDB:
		return runValidateDB(cfg, log)
	default:
		return runMain(cmd, cfg, log)
	}
}

func runGenerateDB(cfg *config.Config, log *logging.Logger) error {
	start := dbEpoch
	if cfg.Workload.StartDate != "" {
		t, err := time.Parse("2006-01-02", cfg.Workload.StartDate)
		if err != nil {
			return configError(fmt.Errorf("parse --start: %w", err))
		}
		start = t
	}

	log.Info("generating subscriber-history store", "path", cfg.Database.GenerateDBPath,
		"db_size", cfg.Database.DBSize, "db_history_days", cfg.Database.DBHistoryDays)

	evs := history.Generate(cfg, cfg.Workload.Seed, cfg.Database.DBSize, cfg.Database.DBHistoryDays, start)
	if err := history.Validate(evs); err != nil {
		return ioError(fmt.Errorf("generated subscriber-history store failed self-validation: %w", err))
	}
	if err := history.Save(cfg.Database.GenerateDBPath, evs); err != nil {
		return ioError(fmt.Errorf("write subscriber-history store: %w", err))
	}

	log.Info("subscriber-history store written", "events", len(evs))
	return nil
}

func runValidateDB(cfg *config.Config, log *logging.Logger) error {
	evs, err := history.Load(cfg.Database.SubscriberDBPath)
	if err != nil {
		return ioError(fmt.Errorf("load subscriber-history store: %w", err))
	}
	if err := history.Validate(evs); err != nil {
		log.Error("subscriber-history store failed validation", "error", err)
		return dbValidationError(err)
	}

	log.Info("subscriber-history store is valid", "path", cfg.Database.SubscriberDBPath, "events", len(evs))
	return nil
}

func runMain(cmd *cobra.Command, cfg *config.Config, log *logging.Logger) error {
	start, err := time.Parse("2006-01-02", cfg.Workload.StartDate)
	if err != nil {
		if cfg.Workload.StartDate == "" {
			start = time.Now().UTC().Truncate(24 * time.Hour)
		} else {
			return configError(fmt.Errorf("parse --start: %w", err))
		}
	}

	loc, err := time.LoadLocation(cfg.Workload.TZ)
	if err != nil {
		return configError(fmt.Errorf("load timezone %q: %w", cfg.Workload.TZ, err))
	}

	if err := os.MkdirAll(cfg.Output.Root, 0o755); err != nil {
		return ioError(fmt.Errorf("create output root %s: %w", cfg.Output.Root, err))
	}

	log.Info("bootstrapping population", "subscribers", cfg.Population.Subscribers, "cells", cfg.Cells.Count)
	pop := population.Bootstrap(cfg, cfg.Workload.Seed)
	if err := population.WriteCellCatalog(fmt.Sprintf("%s/cells.csv", cfg.Output.Root), pop.Cells); err != nil {
		return ioError(fmt.Errorf("write cell catalog: %w", err))
	}

	var store *history.Store
	var keyIMSIs []string
	if cfg.Database.SubscriberDBPath != "" {
		evs, err := history.Load(cfg.Database.SubscriberDBPath)
		if err != nil {
			return ioError(fmt.Errorf("load subscriber-history store: %w", err))
		}
		if err := history.Validate(evs); err != nil {
			return dbValidationError(fmt.Errorf("subscriber-history store: %w", err))
		}
		store = history.Build(evs)
		keyIMSIs = history.KeyIMSIs(evs)
		log.Info("loaded subscriber-history store", "path", cfg.Database.SubscriberDBPath, "keys", len(keyIMSIs))
	}

	shaper := temporal.NewShaper(loc, cfg.Workload.Diurnal.Weekday, cfg.Workload.Diurnal.Weekend,
		cfg.Workload.Seasonality, cfg.Workload.SpecialDays)
	gen := events.NewGenerator(cfg)

	stopFile, _ := cmd.Flags().GetString("stop-file")
	controller := emergency.New(cmd.Context(), emergency.Config{StopFile: stopFile}, log)
	controller.Start()

	run := &worker.Run{
		Cfg:      cfg,
		Pop:      pop,
		Gen:      gen,
		Shaper:   shaper,
		Loc:      loc,
		Store:    store,
		KeyIMSIs: keyIMSIs,
		Log:      log,
		OutDir:   cfg.Output.Root,
	}

	exporter := metrics.NewExporter()
	var anyShardFailed bool

	for d := 0; d < cfg.Workload.Days; d++ {
		if controller.Context().Err() != nil {
			log.Warn("stopping before all days completed", "days_completed", d)
			break
		}

		date := start.AddDate(0, 0, d)
		dateStr := date.Format("2006-01-02")
		log.Info("generating day", "day", dateStr, "ordinal", d)

		summary, err := worker.RunDay(controller.Context(), run, date, d)
		if err != nil {
			return ioError(fmt.Errorf("day %s: %w", dateStr, err))
		}
		if len(summary.FailedShards) > 0 {
			anyShardFailed = true
			log.Error("day had failed shards", "day", dateStr, "failed_shards", summary.FailedShards)
		}

		exporter.Observe(dateStr, summary)
		dayDir := fmt.Sprintf("%s/%s", cfg.Output.Root, dateStr)
		if err := exporter.WriteTextfile(fmt.Sprintf("%s/metrics.prom", dayDir)); err != nil {
			log.Warn("failed to write metrics textfile", "day", dateStr, "error", err)
		}

		archivePath := fmt.Sprintf("%s.tar.gz", dayDir)
		if err := archive.BundleDay(dayDir, archivePath); err != nil {
			log.Warn("failed to bundle day archive", "day", dateStr, "error", err)
			continue
		}
		if cfg.Output.CleanupAfterArchive {
			if err := archive.Cleanup(dayDir, []string{"summary.json"}); err != nil {
				log.Warn("failed to clean up day directory", "day", dateStr, "error", err)
			}
		}
	}

	controller.Stop()

	if anyShardFailed {
		return ioError(fmt.Errorf("one or more shards failed during generation"))
	}
	log.Info("generation complete")
	return nil
}
