// Package ingest parses the input spreadsheets (as CSV) into engine records.
// Required columns are validated here; every other column is carried through
// verbatim as an opaque attribute.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
)

var requiredColumns = []string{"ID", "Name", "Longitude", "Latitude"}

// verifiedDateLayouts are the date forms accepted in the VerifiedDate
// column. Anything else leaves the record unverified, matching how the
// source sheets treat unparseable dates.
var verifiedDateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// ReadLocationRecords parses location rows of the given kind. A malformed
// coordinate is not rejected here: it is carried into the record so the
// orchestrator can fail that record individually with a cause. Structural
// problems (missing required columns, duplicate IDs) fail the whole read,
// since they mean the sheet itself is broken.
func ReadLocationRecords(r io.Reader, kind models.Kind) ([]models.LocationRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: failed to read header: %w", err)
	}
	colIdx := map[string]int{}
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("ingest: missing required column %s", col)
		}
	}

	known := map[string]bool{"ID": true, "Name": true, "Longitude": true, "Latitude": true, "VerifiedDate": true}
	seenIDs := map[string]bool{}

	var records []models.LocationRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: failed to read row: %w", err)
		}

		get := func(col string) string {
			idx, ok := colIdx[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		record := models.LocationRecord{
			ID:   get("ID"),
			Name: get("Name"),
			Kind: kind,
		}
		if record.ID != "" {
			if seenIDs[record.ID] {
				return nil, fmt.Errorf("ingest: duplicate ID %s", record.ID)
			}
			seenIDs[record.ID] = true
		}

		// Out-of-range and non-numeric coordinates become NaN-ish sentinels
		// the orchestrator rejects per record.
		record.Longitude = parseCoord(get("Longitude"))
		record.Latitude = parseCoord(get("Latitude"))

		if date, ok := parseVerifiedDate(get("VerifiedDate")); ok {
			record.Verified = true
			record.VerifiedDate = date
		}

		for i, name := range header {
			name = strings.TrimSpace(name)
			if known[name] || i >= len(row) {
				continue
			}
			record.Attributes = append(record.Attributes, models.Attribute{Key: name, Value: row[i]})
		}
		records = append(records, record)
	}
	return records, nil
}

// ReadAddressRecords parses the team-member sheet: Name and Address are
// required, everything else is carried through.
func ReadAddressRecords(r io.Reader) ([]models.AddressRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: failed to read header: %w", err)
	}
	colIdx := map[string]int{}
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, col := range []string{"Name", "Address"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("ingest: missing required column %s", col)
		}
	}

	known := map[string]bool{"Name": true, "Address": true, "Contact": true, "Notes": true}

	var records []models.AddressRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: failed to read row: %w", err)
		}

		get := func(col string) string {
			idx, ok := colIdx[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		record := models.AddressRecord{
			Name:    get("Name"),
			Contact: get("Contact"),
			Notes:   get("Notes"),
			Address: get("Address"),
		}
		for i, name := range header {
			name = strings.TrimSpace(name)
			if known[name] || i >= len(row) {
				continue
			}
			record.Attributes = append(record.Attributes, models.Attribute{Key: name, Value: row[i]})
		}
		records = append(records, record)
	}
	return records, nil
}

// parseCoord turns a malformed coordinate cell into an out-of-range value
// rather than an error, so validation happens per record downstream.
func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 999
	}
	return v
}

func parseVerifiedDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, layout := range verifiedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
