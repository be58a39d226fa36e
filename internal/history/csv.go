package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var csvHeader = []string{"timestamp_ms", "event_type", "imsi", "msisdn", "imei", "mccmnc"}

// Load reads a subscriber-history CSV file into an ordered Event slice,
// preserving file order.
func Load(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subscriber-history store %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse subscriber-history store %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("subscriber-history store %s is empty", path)
	}

	events := make([]Event, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != 6 {
			return nil, fmt.Errorf("subscriber-history store %s: row %d has %d fields, want 6", path, i, len(row))
		}
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("subscriber-history store %s: row %d: bad timestamp %q", path, i, row[0])
		}
		events = append(events, Event{
			TimestampMs: ts,
			Kind:        Kind(row[1]),
			IMSI:        row[2],
			MSISDN:      row[3],
			IMEI:        row[4],
			MCCMNC:      row[5],
		})
	}
	return events, nil
}

// Save writes an Event slice in file order to path, in the same
// comma-delimited format Load reads.
func Save(path string, events []Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create subscriber-history store %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			strconv.FormatInt(e.TimestampMs, 10),
			string(e.Kind),
			e.IMSI,
			e.MSISDN,
			e.IMEI,
			e.MCCMNC,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
