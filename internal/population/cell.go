package population

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/jihwankim/cdrgen/internal/distributions"
)

// Cell is one cell-tower record. Name is a diagnostic label derived
// deterministically from CellID; it is not part of the persisted catalog
// format.
type Cell struct {
	CellID string
	Lat    float64
	Lon    float64
	RAT    string
	Name   string
}

const earthRadiusKM = 6371.0

// GenerateCells draws count cells uniformly inside a disk of radiusKM
// around (centerLat, centerLon), each assigned a RAT by the supplied
// weighted alias table.
func GenerateCells(rng *rand.Rand, count int, centerLat, centerLon, radiusKM float64, ratNames []string, ratAlias *distributions.AliasTable) []Cell {
	cells := make([]Cell, count)
	centerLatRad := centerLat * math.Pi / 180.0

	for i := 0; i < count; i++ {
		// Uniform-in-disk sampling: radius ~ sqrt(u) keeps area density
		// uniform rather than bunching points near the center.
		r := radiusKM * math.Sqrt(rng.Float64())
		theta := rng.Float64() * 2 * math.Pi

		dLat := (r * math.Cos(theta)) / earthRadiusKM * 180.0 / math.Pi
		dLon := (r * math.Sin(theta)) / (earthRadiusKM * math.Cos(centerLatRad)) * 180.0 / math.Pi

		id := fmt.Sprintf("C%06d", i)
		cells[i] = Cell{
			CellID: id,
			Lat:    centerLat + dLat,
			Lon:    centerLon + dLon,
			RAT:    ratNames[ratAlias.Sample(rng)],
			Name:   "cell-" + id,
		}
	}
	return cells
}

// WriteCellCatalog persists the cell catalog in a comma-delimited format:
// `cell_id,lat,lon,rat`.
func WriteCellCatalog(path string, cells []Cell) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cell catalog %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"cell_id", "lat", "lon", "rat"}); err != nil {
		return err
	}
	for _, c := range cells {
		row := []string{
			c.CellID,
			fmt.Sprintf("%.6f", c.Lat),
			fmt.Sprintf("%.6f", c.Lon),
			c.RAT,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadCellCatalog reads a previously-persisted cell catalog so repeated
// runs with the same seed can reuse the identical catalog.
func LoadCellCatalog(path string) ([]Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cell catalog %s is empty", path)
	}

	cells := make([]Cell, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != 4 {
			continue
		}
		var lat, lon float64
		fmt.Sscanf(row[1], "%f", &lat)
		fmt.Sscanf(row[2], "%f", &lon)
		cells = append(cells, Cell{
			CellID: row[0],
			Lat:    lat,
			Lon:    lon,
			RAT:    row[3],
			Name:   "cell-" + row[0],
		})
	}
	return cells, nil
}
