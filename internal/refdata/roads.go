package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/geoindex"
)

// LoadRoads reads an OS Open Roads extract: a headed CSV with columns
// Classification,Geometry where Geometry is a polyline of projected
// "easting northing" pairs separated by semicolons.
func LoadRoads(path string) ([]RoadSegment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: failed to open roads file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("refdata: failed to read roads header: %w", err)
	}

	var segments []RoadSegment
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("refdata: failed to read roads row: %w", err)
		}
		line++

		geom, err := parsePolyline(row[1])
		if err != nil {
			return nil, fmt.Errorf("refdata: roads row %d: %w", line, err)
		}
		segments = append(segments, RoadSegment{Classification: row[0], Line: geom})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("refdata: roads file %s contains no segments", path)
	}
	return segments, nil
}

func parsePolyline(s string) ([]geoindex.Point, error) {
	pairs := strings.Split(s, ";")
	if len(pairs) < 2 {
		return nil, fmt.Errorf("polyline needs at least two vertices, got %d", len(pairs))
	}
	line := make([]geoindex.Point, 0, len(pairs))
	for _, pair := range pairs {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed vertex %q", pair)
		}
		e, err1 := strconv.ParseFloat(fields[0], 64)
		n, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("non-numeric vertex %q", pair)
		}
		line = append(line, geoindex.Point{Easting: e, Northing: n})
	}
	return line, nil
}
