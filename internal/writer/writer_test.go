package writer

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/jihwankim/cdrgen/internal/events"
)

func sampleEvent(i int) *events.Event {
	return &events.Event{
		Type:        "CALL",
		MSISDNSrc:   "31612345678",
		MSISDNDst:   "31687654321",
		Direction:   "MO",
		StartTsMs:   int64(1700000000000 + i*1000),
		EndTsMs:     int64(1700000010000 + i*1000),
		TZName:      "Europe/Amsterdam",
		TZOffsetMin: 60,
		DurationSec: 10,
		MCCMNC:      "20404",
		IMSI:        "204041234567890",
		IMEI:        "490154203237518",
		CellID:      "C000001",
		RecordType:  events.RecordVoice,
		Cause:       events.CauseNormalClearing,
	}
}

func listParts(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestWriterSinglePartNoRotation(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, "2025-01-01", 0, 100_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := w.Write(sampleEvent(i)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	parts := listParts(t, dir)
	if len(parts) != 1 {
		t.Fatalf("expected exactly one part, got %v", parts)
	}
	if !strings.HasPrefix(parts[0], "cdr_2025-01-01_shard000_part001") {
		t.Fatalf("unexpected part filename: %s", parts[0])
	}

	f, err := os.Open(filepath.Join(dir, parts[0]))
	if err != nil {
		t.Fatalf("open part: %v", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatal("expected header row")
	}
	if got := sc.Text(); !strings.HasPrefix(got, "event_type;msisdn_src;") {
		t.Fatalf("unexpected header: %s", got)
	}
	lines := 0
	for sc.Scan() {
		lines++
	}
	if lines != 5 {
		t.Fatalf("expected 5 data rows, got %d", lines)
	}
}

func TestWriterRotatesOnThreshold(t *testing.T) {
	dir := t.TempDir()
	// A tiny threshold forces rotation on nearly every row.
	w, err := New(dir, "2025-01-01", 2, 50)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 50; i++ {
		if err := w.Write(sampleEvent(i)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	parts := listParts(t, dir)
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts with a tiny rotation threshold, got %v", parts)
	}
	for _, p := range parts {
		if !strings.Contains(p, "shard002") {
			t.Fatalf("part %s missing shard index", p)
		}
	}
}

func TestWriterThresholdAtHeaderSizeYieldsOneRowPerPart(t *testing.T) {
	dir := t.TempDir()
	// Use a throwaway writer to measure the true header size, then set
	// rotateThreshold to exactly that: a pathological-but-well-defined
	// boundary case.
	probe, err := New(t.TempDir(), "2025-01-01", 0, 100_000_000)
	if err != nil {
		t.Fatalf("probe New: %v", err)
	}
	probePath := probe.partPath()
	probe.Finish()
	headerInfo, err := os.Stat(probePath)
	if err != nil {
		t.Fatalf("stat probe header: %v", err)
	}
	headerSize := headerInfo.Size()

	w, err := New(dir, "2025-01-01", 0, headerSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := w.Write(sampleEvent(i)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	for _, name := range listParts(t, dir) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read part %s: %v", name, err)
		}
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		dataRows := len(lines) - 1 // minus header
		if dataRows != 1 {
			t.Fatalf("part %s has %d data rows, want exactly 1", name, dataRows)
		}
	}
}

func TestWriterFieldOrderAndEmptyFields(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, "2025-01-01", 0, 100_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sms := &events.Event{
		Type:        "SMS",
		MSISDNSrc:   "31611111111",
		MSISDNDst:   "31622222222",
		Direction:   "MO",
		StartTsMs:   1700000000000,
		EndTsMs:     1700000000000,
		TZName:      "Europe/Amsterdam",
		TZOffsetMin: 60,
		MCCMNC:      "20404",
		IMSI:        "204041234567890",
		IMEI:        "490154203237518",
		CellID:      "C000002",
		RecordType:  events.RecordSMSMO,
		SMSSegments: 1,
		SMSStatus:   "DELIVERED",
	}
	if err := w.Write(sms); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	parts := listParts(t, dir)
	data, err := os.ReadFile(filepath.Join(dir, parts[0]))
	if err != nil {
		t.Fatalf("read part: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	fields := strings.Split(lines[1], ";")
	if len(fields) != 22 {
		t.Fatalf("expected 22 fields, got %d: %v", len(fields), fields)
	}
	// data_bytes_in (index 17) must be empty for a non-DATA event.
	if fields[17] != "" {
		t.Fatalf("expected empty data_bytes_in for SMS row, got %q", fields[17])
	}
}
