package population

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/jihwankim/cdrgen/internal/distributions"
)

func TestGenerateCellsWithinRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	names, weights := distributions.SortedWeights(map[string]float64{"LTE": 1.0})
	alias := distributions.NewAliasTable(weights)

	const centerLat, centerLon, radiusKM = 52.0, 4.9, 25.0
	cells := GenerateCells(rng, 500, centerLat, centerLon, radiusKM, names, alias)

	if len(cells) != 500 {
		t.Fatalf("expected 500 cells, got %d", len(cells))
	}
	for _, c := range cells {
		distKM := haversineKM(centerLat, centerLon, c.Lat, c.Lon)
		if distKM > radiusKM*1.01 { // small slack for trig rounding
			t.Fatalf("cell %s at distance %.3fkm exceeds radius %.1fkm", c.CellID, distKM, radiusKM)
		}
		if c.RAT != "LTE" {
			t.Fatalf("expected RAT LTE, got %q", c.RAT)
		}
	}
}

func TestWriteAndLoadCellCatalogRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	names, weights := distributions.SortedWeights(map[string]float64{"LTE": 1.0})
	alias := distributions.NewAliasTable(weights)
	cells := GenerateCells(rng, 10, 52.0, 4.9, 25.0, names, alias)

	path := filepath.Join(t.TempDir(), "cells.csv")
	if err := WriteCellCatalog(path, cells); err != nil {
		t.Fatalf("WriteCellCatalog: %v", err)
	}

	loaded, err := LoadCellCatalog(path)
	if err != nil {
		t.Fatalf("LoadCellCatalog: %v", err)
	}
	if len(loaded) != len(cells) {
		t.Fatalf("expected %d cells back, got %d", len(cells), len(loaded))
	}
	for i := range cells {
		if loaded[i].CellID != cells[i].CellID || loaded[i].RAT != cells[i].RAT {
			t.Fatalf("cell %d mismatch: got %+v, want %+v", i, loaded[i], cells[i])
		}
		if math.Abs(loaded[i].Lat-cells[i].Lat) > 1e-5 || math.Abs(loaded[i].Lon-cells[i].Lon) > 1e-5 {
			t.Fatalf("cell %d lat/lon mismatch: got (%f,%f), want (%f,%f)", i, loaded[i].Lat, loaded[i].Lon, cells[i].Lat, cells[i].Lon)
		}
	}
}

func TestLoadCellCatalogMissingFile(t *testing.T) {
	if _, err := LoadCellCatalog(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error loading a missing catalog")
	}
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const r = 6371.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return r * c
}
