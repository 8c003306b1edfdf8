package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCodePoint reads postcode centroids from a CSV file. Both the raw
// Code-Point Open layout (headerless; postcode, quality, easting, northing,
// ...) and a three-column Postcode,Easting,Northing extract are accepted.
func LoadCodePoint(path string) ([]PostcodeCentroid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: failed to open codepoint file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var centroids []PostcodeCentroid
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("refdata: failed to read codepoint row: %w", err)
		}
		line++

		postcode, easting, northing, ok, err := parseCodePointRow(row)
		if err != nil {
			return nil, fmt.Errorf("refdata: codepoint row %d: %w", line, err)
		}
		if !ok {
			// Header row, tolerated only as the first line.
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("refdata: codepoint row %d is not numeric", line)
		}
		centroids = append(centroids, PostcodeCentroid{
			Postcode: NormalizePostcode(postcode),
			Easting:  easting,
			Northing: northing,
		})
	}
	if len(centroids) == 0 {
		return nil, fmt.Errorf("refdata: codepoint file %s contains no centroids", path)
	}
	return centroids, nil
}

func parseCodePointRow(row []string) (postcode string, easting, northing float64, ok bool, err error) {
	var eCol, nCol int
	switch {
	case len(row) >= 4:
		// Raw Code-Point Open: postcode, positional quality, easting, northing, ...
		eCol, nCol = 2, 3
	case len(row) == 3:
		eCol, nCol = 1, 2
	default:
		return "", 0, 0, false, fmt.Errorf("unexpected column count %d", len(row))
	}

	easting, err1 := strconv.ParseFloat(strings.TrimSpace(row[eCol]), 64)
	northing, err2 := strconv.ParseFloat(strings.TrimSpace(row[nCol]), 64)
	if err1 != nil || err2 != nil {
		return "", 0, 0, false, nil
	}
	return row[0], easting, northing, true, nil
}

// NormalizePostcode upper-cases and strips all spaces, the form used for
// every postcode comparison in the engine.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.ReplaceAll(postcode, " ", ""))
}
