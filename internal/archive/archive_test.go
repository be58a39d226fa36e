package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeDayDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"cdr_2025-06-02_shard000_part001.csv": "event_type;...\nCALL;...\n",
		"stats_shard000.json":                 `{"shard":0}`,
		"summary.json":                        `{"day":"2025-06-02"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestBundleDayIsDeterministic(t *testing.T) {
	dayDir := writeDayDir(t)

	outA := filepath.Join(t.TempDir(), "a.tar.gz")
	outB := filepath.Join(t.TempDir(), "b.tar.gz")
	if err := BundleDay(dayDir, outA); err != nil {
		t.Fatalf("BundleDay A: %v", err)
	}
	if err := BundleDay(dayDir, outB); err != nil {
		t.Fatalf("BundleDay B: %v", err)
	}

	dataA, err := os.ReadFile(outA)
	if err != nil {
		t.Fatalf("read archive A: %v", err)
	}
	dataB, err := os.ReadFile(outB)
	if err != nil {
		t.Fatalf("read archive B: %v", err)
	}
	if len(dataA) != len(dataB) {
		t.Fatalf("archives differ in size: %d vs %d", len(dataA), len(dataB))
	}
	for i := range dataA {
		if dataA[i] != dataB[i] {
			t.Fatalf("archives differ at byte %d", i)
		}
	}
}

func TestBundleDayContainsAllFiles(t *testing.T) {
	dayDir := writeDayDir(t)
	out := filepath.Join(t.TempDir(), "day.tar.gz")
	if err := BundleDay(dayDir, out); err != nil {
		t.Fatalf("BundleDay: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	tr := tar.NewReader(gz)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar read: %v", err)
		}
		names = append(names, hdr.Name)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 archived files, got %v", names)
	}
}

func TestCleanupPreservesKeptFiles(t *testing.T) {
	dayDir := writeDayDir(t)
	if err := Cleanup(dayDir, []string{"summary.json"}); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	entries, err := os.ReadDir(dayDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "summary.json" {
		t.Fatalf("expected only summary.json to survive cleanup, got %v", entries)
	}
}
