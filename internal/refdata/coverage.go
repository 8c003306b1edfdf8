package refdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/geoindex"
)

type coverageAreaJSON struct {
	Provider    string        `json:"provider"`
	SignalLevel int           `json:"signal_level"`
	Rings       [][][2]float64 `json:"rings"`
}

// LoadCoverage reads per-provider predicted-coverage polygons from a JSON
// file. Rings follow the GeoJSON convention: first ring is the outer
// boundary, later rings are holes; vertices are [easting, northing] in
// projected meters.
func LoadCoverage(path string) ([]CoverageArea, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: failed to open coverage file: %w", err)
	}

	var parsed []coverageAreaJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("refdata: failed to parse coverage file: %w", err)
	}

	areas := make([]CoverageArea, 0, len(parsed))
	for i, area := range parsed {
		if area.Provider == "" {
			return nil, fmt.Errorf("refdata: coverage area %d has no provider", i)
		}
		if area.SignalLevel < 0 || area.SignalLevel > 4 {
			return nil, fmt.Errorf("refdata: coverage area %d has signal level %d outside 0..4", i, area.SignalLevel)
		}
		if len(area.Rings) == 0 {
			return nil, fmt.Errorf("refdata: coverage area %d has no rings", i)
		}
		rings := make([][]geoindex.Point, len(area.Rings))
		for r, ring := range area.Rings {
			rings[r] = make([]geoindex.Point, len(ring))
			for v, vertex := range ring {
				rings[r][v] = geoindex.Point{Easting: vertex[0], Northing: vertex[1]}
			}
		}
		areas = append(areas, CoverageArea{
			Provider:    area.Provider,
			SignalLevel: area.SignalLevel,
			Polygon:     geoindex.Polygon{Rings: rings},
		})
	}
	return areas, nil
}
