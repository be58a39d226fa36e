// Package config loads and validates cdrgen's run configuration: compiled
// defaults overlaid by an optional YAML file, in turn overlaid by explicit
// CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved configuration for one generation run.
type Config struct {
	Framework  FrameworkConfig  `yaml:"framework"`
	Population PopulationConfig `yaml:"population"`
	Cells      CellsConfig      `yaml:"cells"`
	Workload   WorkloadConfig   `yaml:"workload"`
	Output     OutputConfig     `yaml:"output"`
	Database   DatabaseConfig   `yaml:"database"`
}

// FrameworkConfig holds process-wide logging settings.
type FrameworkConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// PopulationConfig controls subscriber bootstrap.
type PopulationConfig struct {
	Subscribers     int      `yaml:"subscribers"`
	Prefixes        []string `yaml:"prefixes"`
	MCCMNCs         []string `yaml:"mccmncs"`
	ContactPoolSize int      `yaml:"contact_pool_size"`
	ZipfExponent    float64  `yaml:"zipf_exponent"`
}

// CellsConfig controls the cell-tower catalog.
type CellsConfig struct {
	Count      int     `yaml:"count"`
	CenterLat  float64 `yaml:"center_lat"`
	CenterLon  float64 `yaml:"center_lon"`
	RadiusKM   float64 `yaml:"radius_km"`
	RATWeights Weights `yaml:"rat_weights"`
}

// WorkloadConfig controls the per-day event synthesis workload.
type WorkloadConfig struct {
	StartDate     string             `yaml:"start_date"`
	Days          int                `yaml:"days"`
	Seed          int64              `yaml:"seed"`
	Workers       int                `yaml:"workers"`
	RotateBytes   int64              `yaml:"rotate_bytes"`
	TZ            string             `yaml:"tz"`
	MOShareCall   float64            `yaml:"mo_share_call"`
	MOShareSMS    float64            `yaml:"mo_share_sms"`
	Rates         RatesConfig        `yaml:"rates"`
	Diurnal       DiurnalConfig      `yaml:"diurnal"`
	Seasonality   map[string]float64 `yaml:"seasonality"`
	SpecialDays   map[string]float64 `yaml:"special_days"`
	Distributions Distributions      `yaml:"distributions"`
}

// RatesConfig holds base events/user/day rates, one per event type.
type RatesConfig struct {
	Call float64 `yaml:"call"`
	SMS  float64 `yaml:"sms"`
	Data float64 `yaml:"data"`
}

// DiurnalConfig holds the 24-hour intensity multipliers for weekdays and
// weekends.
type DiurnalConfig struct {
	Weekday [24]float64 `yaml:"weekday"`
	Weekend [24]float64 `yaml:"weekend"`
}

// Weights is an ordered set of named weights, validated to sum to 1 within
// 1e-6.
type Weights map[string]float64

// Distributions holds every sampling-primitive parameterization used by the
// event generators.
type Distributions struct {
	CallDurationSec  map[string]LogNormalParams `yaml:"call_duration_sec"` // keyed by disposition
	CallDisposition  Weights                    `yaml:"call_disposition"`
	SMSStatus        Weights                    `yaml:"sms_status"`
	SMSSegments      Weights                    `yaml:"sms_segments"` // keys "1","2","3"
	DataBytesIn      map[string]LogNormalParams `yaml:"data_bytes_in"`  // keyed by RAT
	DataBytesOut     map[string]LogNormalParams `yaml:"data_bytes_out"` // keyed by RAT
	DataDurationSec  LogNormalParams            `yaml:"data_duration_sec"`
	APNWeights       Weights                    `yaml:"apn_weights"`
}

// LogNormalParams parameterizes a log-normal sampler.
type LogNormalParams struct {
	Mu    float64 `yaml:"mu"`
	Sigma float64 `yaml:"sigma"`
}

// OutputConfig controls where and how output is written.
type OutputConfig struct {
	Root                string `yaml:"root"`
	CleanupAfterArchive bool   `yaml:"cleanup_after_archive"`
}

// DatabaseConfig controls the optional subscriber-history store.
type DatabaseConfig struct {
	SubscriberDBPath string `yaml:"subscriber_db_path"`
	GenerateDBPath   string `yaml:"generate_db_path"`
	DBSize           int    `yaml:"db_size"`
	DBHistoryDays    int    `yaml:"db_history_days"`
	ValidateDB       bool   `yaml:"validate_db"`
}

// Default returns the compiled-in configuration matching the CLI's
// documented flag defaults.
func Default() *Config {
	return &Config{
		Framework: FrameworkConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Population: PopulationConfig{
			Subscribers:     100000,
			Prefixes:        []string{"316"},
			MCCMNCs:         []string{"20404", "20408"},
			ContactPoolSize: 12,
			ZipfExponent:    1.1,
		},
		Cells: CellsConfig{
			Count:    2000,
			RadiusKM: 50,
			RATWeights: Weights{
				"WCDMA": 0.25,
				"LTE":   0.60,
				"NR":    0.15,
			},
		},
		Workload: WorkloadConfig{
			Days:        1,
			Seed:        42,
			Workers:     0,
			RotateBytes: 100_000_000,
			TZ:          "Europe/Amsterdam",
			MOShareCall: 0.5,
			MOShareSMS:  0.5,
			Rates: RatesConfig{
				Call: 3.2,
				SMS:  4.0,
				Data: 6.0,
			},
			Diurnal:     defaultDiurnal(),
			Seasonality: defaultSeasonality(),
			SpecialDays: map[string]float64{},
			Distributions: Distributions{
				CallDurationSec: map[string]LogNormalParams{
					"ANSWERED": {Mu: 4.0, Sigma: 0.9},
				},
				CallDisposition: Weights{
					"ANSWERED":   0.72,
					"NO_ANSWER":  0.12,
					"BUSY":       0.06,
					"FAILED":     0.06,
					"CONGESTION": 0.04,
				},
				SMSStatus: Weights{
					"SENT":      0.05,
					"DELIVERED": 0.90,
					"FAILED":    0.05,
				},
				SMSSegments: Weights{
					"1": 0.85,
					"2": 0.12,
					"3": 0.03,
				},
				DataBytesIn: map[string]LogNormalParams{
					"WCDMA": {Mu: 12.0, Sigma: 1.3},
					"LTE":   {Mu: 13.2, Sigma: 1.4},
					"NR":    {Mu: 14.0, Sigma: 1.5},
				},
				DataBytesOut: map[string]LogNormalParams{
					"WCDMA": {Mu: 10.5, Sigma: 1.2},
					"LTE":   {Mu: 11.5, Sigma: 1.3},
					"NR":    {Mu: 12.2, Sigma: 1.4},
				},
				DataDurationSec: LogNormalParams{Mu: 5.2, Sigma: 1.0},
				APNWeights: Weights{
					"internet": 0.80,
					"ims":      0.15,
					"mms":      0.05,
				},
			},
		},
		Output: OutputConfig{
			Root:                "out",
			CleanupAfterArchive: false,
		},
		Database: DatabaseConfig{
			DBSize:        10000,
			DBHistoryDays: 365,
		},
	}
}

func defaultDiurnal() DiurnalConfig {
	// A modest morning/evening bimodal pattern, loosely summing to 24 across
	// the day, weaker on weekends.
	weekday := [24]float64{
		0.2, 0.1, 0.1, 0.1, 0.15, 0.3, 0.6, 1.1,
		1.4, 1.2, 1.1, 1.2, 1.3, 1.1, 1.0, 1.1,
		1.3, 1.6, 1.8, 1.6, 1.3, 1.0, 0.6, 0.3,
	}
	weekend := [24]float64{
		0.3, 0.2, 0.15, 0.1, 0.1, 0.15, 0.3, 0.5,
		0.8, 1.1, 1.3, 1.4, 1.4, 1.3, 1.2, 1.2,
		1.3, 1.4, 1.5, 1.5, 1.3, 1.0, 0.7, 0.4,
	}
	return DiurnalConfig{Weekday: weekday, Weekend: weekend}
}

func defaultSeasonality() map[string]float64 {
	m := make(map[string]float64, 12)
	for month := 1; month <= 12; month++ {
		m[fmt.Sprintf("%d", month)] = 1.0
	}
	// Slight end-of-year uplift, slight August dip — loosely modeling
	// holiday/vacation traffic shifts.
	m["8"] = 0.92
	m["12"] = 1.08
	return m
}

// LoadYAML overlays any keys present in the YAML file at path onto cfg. Keys
// absent from the file are left untouched.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ValidationError aggregates every configuration problem found by
// Validate, rather than failing on the first one.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Errors, "; "))
}

// csvHeaderBytes is the encoded size of the CDR writer's fixed header row
// (22 fields joined by ';', plus the trailing newline). rotate_bytes below
// this can never fit even a bare header, so Validate rejects it.
const csvHeaderBytes = 241

// Validate checks cfg against every configuration invariant and returns a
// *ValidationError listing all violations, or nil.
func (c *Config) Validate() error {
	var errs []string

	if c.Population.Subscribers <= 0 {
		errs = append(errs, "population.subscribers must be positive")
	}
	if len(c.Population.Prefixes) == 0 {
		errs = append(errs, "population.prefixes must not be empty")
	}
	if len(c.Population.MCCMNCs) == 0 {
		errs = append(errs, "population.mccmncs must not be empty")
	}
	if c.Population.ContactPoolSize < 0 {
		errs = append(errs, "population.contact_pool_size must not be negative")
	}

	if c.Cells.Count <= 0 {
		errs = append(errs, "cells.count must be positive")
	}
	if c.Cells.RadiusKM <= 0 {
		errs = append(errs, "cells.radius_km must be positive")
	}
	checkWeights(&errs, "cells.rat_weights", c.Cells.RATWeights)

	if c.Workload.Days < 0 {
		errs = append(errs, "workload.days must not be negative")
	}
	if c.Workload.RotateBytes <= 0 {
		errs = append(errs, "workload.rotate_bytes must be positive")
	} else if c.Workload.RotateBytes < csvHeaderBytes {
		errs = append(errs, fmt.Sprintf("workload.rotate_bytes must be at least %d bytes (the CSV header size), got %d", csvHeaderBytes, c.Workload.RotateBytes))
	}
	if c.Workload.Rates.Call < 0 || c.Workload.Rates.SMS < 0 || c.Workload.Rates.Data < 0 {
		errs = append(errs, "workload.rates must not be negative")
	}
	if c.Workload.MOShareCall < 0 || c.Workload.MOShareCall > 1 {
		errs = append(errs, "workload.mo_share_call must be in [0,1]")
	}
	if c.Workload.MOShareSMS < 0 || c.Workload.MOShareSMS > 1 {
		errs = append(errs, "workload.mo_share_sms must be in [0,1]")
	}
	if _, err := time.LoadLocation(c.Workload.TZ); err != nil {
		errs = append(errs, fmt.Sprintf("workload.tz %q is not a known IANA timezone: %v", c.Workload.TZ, err))
	}

	checkWeights(&errs, "distributions.call_disposition", c.Workload.Distributions.CallDisposition)
	checkWeights(&errs, "distributions.sms_status", c.Workload.Distributions.SMSStatus)
	checkWeights(&errs, "distributions.sms_segments", c.Workload.Distributions.SMSSegments)
	checkWeights(&errs, "distributions.apn_weights", c.Workload.Distributions.APNWeights)

	if c.Output.Root == "" {
		errs = append(errs, "output.root must not be empty")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

const weightSumEpsilon = 1e-6

func checkWeights(errs *[]string, name string, w Weights) {
	if len(w) == 0 {
		*errs = append(*errs, fmt.Sprintf("%s must not be empty", name))
		return
	}
	var sum float64
	for k, v := range w {
		if v < 0 {
			*errs = append(*errs, fmt.Sprintf("%s[%s] must not be negative", name, k))
		}
		sum += v
	}
	if diff := sum - 1.0; diff > weightSumEpsilon || diff < -weightSumEpsilon {
		*errs = append(*errs, fmt.Sprintf("%s weights sum to %.9f, want 1 ± %.0e", name, sum, weightSumEpsilon))
	}
}
